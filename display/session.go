package display

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errClosed = errors.New("window closed")

// Session owns one window for the length of a single gesture or spelling
// run and reports when that window is gone.
type Session struct {
	win      Window
	sched    Scheduler
	player   *Player
	revealer *Revealer

	done chan struct{}
	once sync.Once
}

func NewSession(win Window, sched Scheduler, letters LetterSource, interval time.Duration) *Session {
	s := &Session{
		win:      win,
		sched:    sched,
		player:   NewPlayer(win, sched),
		revealer: NewRevealer(win, sched, letters, interval),
		done:     make(chan struct{}),
	}
	return s
}

// Gesture loads the animation at path and closes the window after hold.
// The load happens on the UI goroutine; its error is returned here.
func (s *Session) Gesture(src Source, hold time.Duration) error {
	errCh := make(chan error, 1)
	s.sched.AfterFunc(0, func() {
		if s.finished() {
			errCh <- errClosed
			return
		}
		s.win.SetOnClosed(s.finish)
		if err := s.player.Load(src); err != nil {
			errCh <- err
			return
		}
		s.win.Recenter()
		s.sched.AfterFunc(hold, s.closeWindow)
		errCh <- nil
	})
	return <-errCh
}

// Spell reveals text letter by letter and closes the window afterwards.
func (s *Session) Spell(text string) {
	s.sched.AfterFunc(0, func() {
		if s.finished() {
			return
		}
		s.win.SetOnClosed(s.finish)
		s.revealer.Reveal(text, s.closeWindow)
	})
}

// Wait blocks until the window closes or ctx ends. On ctx end the window is
// closed before returning.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		s.Close()
		<-s.done
		return ctx.Err()
	}
}

func (s *Session) Done() <-chan struct{} { return s.done }

// Close tears the window down from any goroutine.
func (s *Session) Close() {
	s.sched.AfterFunc(0, s.closeWindow)
}

func (s *Session) finished() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *Session) closeWindow() {
	if s.finished() {
		return
	}
	s.player.Unload()
	s.finish()
	s.win.Close()
}

// finish runs on the UI goroutine when the window goes away, whoever closed it.
func (s *Session) finish() {
	s.once.Do(func() {
		s.player.Stop()
		s.revealer.Stop()
		close(s.done)
	})
}
