// Package tui is the terminal front-end: gesture and alphabet windows are
// drawn with half-block characters below a status panel.
package tui

import (
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"islify/display"
)

var ErrClosed = errors.New("terminal closed")

type runMsg struct{}
type statusMsg struct {
	kind statusKind
	text string
}

type statusKind int

const (
	statusInfo statusKind = iota
	statusHeard
	statusProblem
)

// Program owns the terminal. Callbacks passed to AfterFunc run inside
// Update, one at a time, in the order they became due.
type Program struct {
	prog  *tea.Program
	state *state
	done  chan struct{}
}

// New creates the terminal UI. With typing set, keystrokes build phrases
// that are delivered on Lines instead of acting as shortcuts.
func New(version string, typing bool) *Program {
	st := newState(version)
	if typing {
		st.lines = make(chan string, 16)
	}
	p := &Program{state: st, done: make(chan struct{})}
	p.prog = tea.NewProgram(model{st: st}, tea.WithAltScreen())
	return p
}

// Lines delivers typed phrases. It is nil unless typing was enabled and is
// never closed.
func (p *Program) Lines() <-chan string { return p.state.lines }

// Run blocks until the user quits or Quit is called.
func (p *Program) Run() error {
	defer p.shutdown()
	_, err := p.prog.Run()
	return err
}

// shutdown hands the run queue to the calling goroutine once Update can no
// longer drain it, so pending window teardowns still happen.
func (p *Program) shutdown() {
	p.state.stop()
	close(p.done)
}

func (p *Program) Quit() { p.prog.Quit() }

// Done is closed once Run has returned.
func (p *Program) Done() <-chan struct{} { return p.done }

func (p *Program) send(msg tea.Msg) {
	go func() {
		select {
		case <-p.done:
		default:
			p.prog.Send(msg)
		}
	}()
}

func (p *Program) AfterFunc(d time.Duration, fn func()) {
	if d > 0 {
		time.AfterFunc(d, func() { p.AfterFunc(0, fn) })
		return
	}
	if p.state.enqueue(fn) {
		p.state.drain()
		return
	}
	p.send(runMsg{})
}

// NewWindow adds a window on the UI goroutine and waits for it.
func (p *Program) NewWindow(title string) (display.Window, error) {
	ch := make(chan display.Window, 1)
	p.AfterFunc(0, func() { ch <- p.state.open(title) })
	select {
	case w := <-ch:
		return w, nil
	case <-p.done:
		return nil, ErrClosed
	}
}

func (p *Program) Calibrating(d time.Duration) {
	p.send(statusMsg{statusInfo, fmt.Sprintf("Calibrating for %s, please stay quiet…", d)})
}

func (p *Program) Listening()   { p.send(statusMsg{statusInfo, "Listening…"}) }
func (p *Program) Recognizing() { p.send(statusMsg{statusInfo, "Recognizing…"}) }

func (p *Program) Heard(text string)  { p.send(statusMsg{statusHeard, text}) }
func (p *Program) Problem(msg string) { p.send(statusMsg{statusProblem, msg}) }

func (p *Program) Goodbye() {
	p.send(statusMsg{statusInfo, "Goodbye, see you next time!"})
}

type model struct {
	st *state
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.st.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.st.closeTop()
		case "q":
			if m.st.lines == nil {
				return m, tea.Quit
			}
			m.st.typeKey(msg)
		default:
			m.st.typeKey(msg)
		}

	case runMsg:
		m.st.drain()

	case statusMsg:
		m.st.setStatus(msg.kind, msg.text)
	}
	return m, nil
}

func (m model) View() string { return m.st.view() }

// state is touched only from Update and View, except for the run queue.
type state struct {
	version       string
	width, height int

	status  string
	heard   string
	problem string
	windows []*window

	lines chan string
	input []rune

	mu       sync.Mutex
	queue    []func()
	draining bool
	stopped  bool
}

func newState(version string) *state {
	return &state{version: version, status: "Starting…"}
}

// enqueue adds fn to the run queue and reports whether the UI has stopped,
// in which case the caller must drain the queue itself.
func (s *state) enqueue(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, fn)
	return s.stopped
}

func (s *state) stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.drain()
}

// drain runs queued callbacks in order. Only one goroutine drains at a time;
// callbacks queued meanwhile are picked up by the active drainer.
func (s *state) drain() {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	for len(s.queue) > 0 {
		fn := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		fn()
		s.mu.Lock()
	}
	s.draining = false
	s.mu.Unlock()
}

func (s *state) setStatus(kind statusKind, text string) {
	switch kind {
	case statusHeard:
		s.heard = text
		s.problem = ""
	case statusProblem:
		s.problem = text
	default:
		s.status = text
	}
}

func (s *state) resize(w, h int) {
	s.width, s.height = w, h
	for _, win := range s.windows {
		win.Recenter()
	}
}

func (s *state) open(title string) *window {
	w := &window{st: s, title: title}
	s.windows = append(s.windows, w)
	return w
}

func (s *state) remove(w *window) bool {
	for i, x := range s.windows {
		if x == w {
			s.windows = append(s.windows[:i], s.windows[i+1:]...)
			return true
		}
	}
	return false
}

func (s *state) top() *window {
	if len(s.windows) == 0 {
		return nil
	}
	return s.windows[len(s.windows)-1]
}

// typeKey edits the input line. Enter submits it; a full queue drops the
// phrase rather than block the UI.
func (s *state) typeKey(msg tea.KeyMsg) {
	if s.lines == nil {
		return
	}
	switch msg.Type {
	case tea.KeyRunes:
		s.input = append(s.input, msg.Runes...)
	case tea.KeySpace:
		s.input = append(s.input, ' ')
	case tea.KeyBackspace:
		if len(s.input) > 0 {
			s.input = s.input[:len(s.input)-1]
		}
	case tea.KeyEnter:
		line := string(s.input)
		s.input = s.input[:0]
		select {
		case s.lines <- line:
		default:
		}
	}
}

// closeTop closes the front window as if the user dismissed it.
func (s *state) closeTop() {
	if w := s.top(); w != nil {
		w.Close()
	}
}
