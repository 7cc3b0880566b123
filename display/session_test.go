package display

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"time"
)

func isDone(s *Session) bool {
	select {
	case <-s.Done():
		return true
	default:
		return false
	}
}

func TestSessionGestureClosesAfterHold(t *testing.T) {
	path := writeGIF(t, t.TempDir(), "hello.gif", testGIF(3, 10))
	win := &fakeWindow{}
	sched := &manualScheduler{inline: true}
	s := NewSession(win, sched, LetterDir{}, 0)

	if err := s.Gesture(FromPath(path), DefaultGestureHold); err != nil {
		t.Fatalf("Gesture: %v", err)
	}
	if win.recenters != 1 {
		t.Errorf("recenters = %d, want 1", win.recenters)
	}

	sched.Advance(DefaultGestureHold - time.Millisecond)
	if win.closed || isDone(s) {
		t.Fatal("window closed before hold elapsed")
	}
	// 100ms delay over ~5s: 49 ticks plus the initial frame
	if win.shows != 50 {
		t.Errorf("shows during hold = %d, want 50", win.shows)
	}

	sched.Advance(time.Millisecond)
	if !win.closed || !isDone(s) {
		t.Fatal("window not closed after hold")
	}

	shows := win.shows
	sched.Advance(time.Second)
	if win.shows != shows {
		t.Errorf("animation ticked after close")
	}
}

func TestSessionGestureMissing(t *testing.T) {
	win := &fakeWindow{}
	sched := &manualScheduler{inline: true}
	s := NewSession(win, sched, LetterDir{}, 0)

	err := s.Gesture(FromPath(filepath.Join(t.TempDir(), "x.gif")), time.Second)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want fs.ErrNotExist", err)
	}
	if sched.Pending() != 0 {
		t.Errorf("hold timer scheduled after failed load")
	}
}

func TestSessionSpellThenTeardown(t *testing.T) {
	win := &fakeWindow{}
	sched := &manualScheduler{inline: true}
	s := NewSession(win, sched, letterDir(t, "o", "k"), 0)

	s.Spell("ok")
	for sched.Step() {
	}
	if !win.closed || !isDone(s) {
		t.Fatal("spelling did not close the window")
	}
	if win.shows != 2 {
		t.Errorf("shows = %d, want 2", win.shows)
	}
	// ok: 2 letters, end tick, teardown
	if want := 3 * DefaultLetterInterval; sched.now != want {
		t.Errorf("closed at %v, want %v", sched.now, want)
	}
}

func TestSessionUserClosesWindow(t *testing.T) {
	win := &fakeWindow{}
	sched := &manualScheduler{inline: true}
	s := NewSession(win, sched, letterDir(t, "a"), 0)

	s.Spell("aaaa")
	sched.Step()
	win.Close()
	if !isDone(s) {
		t.Fatal("session not done after window closed")
	}
	shows := win.shows
	for sched.Step() {
	}
	if win.shows != shows {
		t.Errorf("spelling continued after window closed")
	}
}

func TestSessionWaitCancel(t *testing.T) {
	win := &fakeWindow{}
	sched := newLoopScheduler(t)
	s := NewSession(win, sched, letterDir(t, "a"), time.Hour)
	s.Spell("aaa")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Wait = %v, want context.Canceled", err)
	}
	if !win.Closed() {
		t.Error("window left open after cancel")
	}
}
