package tui

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"

	"islify/display"
)

// window is a display.Window drawn into the terminal. One cell holds two
// vertically stacked pixels.
type window struct {
	st       *state
	title    string
	img      image.Image
	onClosed func()

	// cached rendering of img for the current area
	cells  []string
	area   display.Size
	x, y   int
	closed bool
}

func (w *window) Show(img image.Image) {
	w.img = img
	w.cells = nil
}

func (w *window) Clear() {
	w.img = nil
	w.cells = nil
}

// Recenter positions the rendered image in the middle of the window area.
func (w *window) Recenter() {
	area := w.st.area()
	if w.cells == nil || area != w.area {
		w.render(area)
	}
	if len(w.cells) == 0 {
		w.x, w.y = 0, 0
		return
	}
	size := display.Size{Width: lipgloss.Width(w.cells[0]), Height: len(w.cells)}
	w.x, w.y = display.Center(size, area)
}

func (w *window) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.st.remove(w)
	if w.onClosed != nil {
		w.onClosed()
	}
}

func (w *window) SetOnClosed(fn func()) { w.onClosed = fn }

func (w *window) render(area display.Size) {
	w.area = area
	w.cells = nil
	if w.img == nil || area.Width <= 0 || area.Height <= 0 {
		return
	}
	fit := display.Fit(display.SizeOf(w.img), display.Size{Width: area.Width, Height: area.Height * 2})
	dst := image.NewRGBA(image.Rect(0, 0, fit.Width, fit.Height+fit.Height%2))
	draw.ApproxBiLinear.Scale(dst, image.Rect(0, 0, fit.Width, fit.Height), w.img, w.img.Bounds(), draw.Src, nil)
	w.cells = halfBlocks(dst)
}

// halfBlocks renders img two rows at a time: the upper pixel as foreground
// of "▀", the lower one as background.
func halfBlocks(img *image.RGBA) []string {
	b := img.Bounds()
	lines := make([]string, 0, b.Dy()/2)
	for y := b.Min.Y; y+1 < b.Max.Y; y += 2 {
		var sb strings.Builder
		for x := b.Min.X; x < b.Max.X; x++ {
			top, bot := hex(img.RGBAAt(x, y)), hex(img.RGBAAt(x, y+1))
			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bot)).
				Render("▀"))
		}
		lines = append(lines, sb.String())
	}
	return lines
}

func hex(c color.RGBA) string {
	const digits = "0123456789abcdef"
	return string([]byte{'#',
		digits[c.R>>4], digits[c.R&15],
		digits[c.G>>4], digits[c.G&15],
		digits[c.B>>4], digits[c.B&15],
	})
}
