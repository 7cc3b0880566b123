package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"islify/display"
)

const statusLines = 4

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	heardStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	problemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
)

// area is the space left for windows below the status panel.
func (s *state) area() display.Size {
	return display.Size{Width: s.width, Height: max(0, s.height-statusLines)}
}

func (s *state) view() string {
	if s.width == 0 || s.height == 0 {
		return "Loading..."
	}

	title := "islify " + s.version
	if w := s.top(); w != nil {
		title += " · " + w.title
	}
	help := helpStyle.Render("esc closes the window · q quits")
	if s.lines != nil {
		help = helpStyle.Render("type a phrase, enter to sign › ") + string(s.input)
	}
	lines := []string{
		titleStyle.Render(title),
		statusStyle.Render(s.status),
		"",
		help,
	}
	switch {
	case s.problem != "":
		lines[2] = problemStyle.Render(s.problem)
	case s.heard != "":
		lines[2] = heardStyle.Render("You said: " + s.heard)
	}

	if w := s.top(); w != nil {
		w.Recenter()
		area := s.area()
		canvas := make([]string, area.Height)
		for i, cell := range w.cells {
			row := w.y + i
			if row < 0 || row >= area.Height {
				continue
			}
			canvas[row] = strings.Repeat(" ", max(0, w.x)) + cell
		}
		lines = append(lines, canvas...)
	}
	return strings.Join(lines, "\n")
}
