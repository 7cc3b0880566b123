package display

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultGestureHold = 5 * time.Second

	gestureTitle  = "ISL Gesture"
	alphabetTitle = "ISL Alphabet Images"
)

type Options struct {
	GestureDir     string
	LetterDir      string
	LetterSize     int
	LetterInterval time.Duration
	GestureHold    time.Duration
}

// Presenter opens a fresh window per request and blocks until that window
// closes, so calls from the session loop run one display at a time.
type Presenter struct {
	windows WindowFactory
	sched   Scheduler
	opts    Options
}

func NewPresenter(windows WindowFactory, sched Scheduler, opts Options) *Presenter {
	if opts.GestureHold <= 0 {
		opts.GestureHold = DefaultGestureHold
	}
	if opts.LetterInterval <= 0 {
		opts.LetterInterval = DefaultLetterInterval
	}
	if opts.LetterSize <= 0 {
		opts.LetterSize = DefaultLetterSize
	}
	return &Presenter{windows: windows, sched: sched, opts: opts}
}

func (p *Presenter) GesturePath(phrase string) string {
	return GestureFile(p.opts.GestureDir, phrase)
}

// GestureFile returns the animation for phrase in dir. The lowercase
// "<phrase>.gif" is preferred; otherwise a file whose name matches ignoring
// case and runs of spaces is used, so folders holding "Good Morning.GIF"
// still resolve. When nothing matches the lowercase path is returned.
func GestureFile(dir, phrase string) string {
	key := foldName(phrase)
	path := filepath.Join(dir, key+".gif")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return path
	}
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || !strings.EqualFold(ext, ".gif") {
			continue
		}
		if foldName(strings.TrimSuffix(e.Name(), ext)) == key {
			return filepath.Join(dir, e.Name())
		}
	}
	return path
}

func foldName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Gesture plays the animation for phrase for the configured hold time.
// A missing or unreadable animation is returned to the caller.
func (p *Presenter) Gesture(ctx context.Context, phrase string) error {
	s, err := p.open(gestureTitle)
	if err != nil {
		return err
	}
	if err := s.Gesture(FromPath(p.GesturePath(phrase)), p.opts.GestureHold); err != nil {
		s.Close()
		<-s.Done()
		return fmt.Errorf("gesture %q: %w", phrase, err)
	}
	return s.Wait(ctx)
}

// Spell shows text letter by letter.
func (p *Presenter) Spell(ctx context.Context, text string) error {
	s, err := p.open(alphabetTitle)
	if err != nil {
		return err
	}
	s.Spell(text)
	return s.Wait(ctx)
}

func (p *Presenter) open(title string) (*Session, error) {
	win, err := p.windows.NewWindow(title)
	if err != nil {
		return nil, fmt.Errorf("open window: %w", err)
	}
	letters := LetterDir{Dir: p.opts.LetterDir, Size: p.opts.LetterSize}
	return NewSession(win, p.sched, letters, p.opts.LetterInterval), nil
}
