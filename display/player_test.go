package display

import (
	"errors"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCenter(t *testing.T) {
	for _, tt := range []struct {
		name         string
		window       Size
		screen       Size
		wantX, wantY int
	}{
		{"small window", Size{200, 100}, Size{1920, 1080}, 860, 490},
		{"letter image", Size{500, 500}, Size{1920, 1080}, 710, 290},
		{"odd remainder truncates", Size{201, 101}, Size{1920, 1080}, 859, 489},
		{"fills screen", Size{1920, 1080}, Size{1920, 1080}, 0, 0},
		{"larger than screen", Size{2000, 1100}, Size{1920, 1080}, -40, -10},
		{"larger odd truncates toward zero", Size{1923, 1083}, Size{1920, 1080}, -1, -1},
	} {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Center(tt.window, tt.screen)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("Center(%v, %v) = (%d, %d), want (%d, %d)", tt.window, tt.screen, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestFit(t *testing.T) {
	screen := Size{1920, 1080}
	for _, tt := range []struct {
		name string
		in   Size
		want Size
	}{
		{"fits", Size{500, 500}, Size{500, 500}},
		{"wide", Size{3840, 1080}, Size{1920, 540}},
		{"tall", Size{1000, 2160}, Size{500, 1080}},
		{"exact", Size{1920, 1080}, Size{1920, 1080}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fit(tt.in, screen); got != tt.want {
				t.Errorf("Fit(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
	if got := Fit(Size{4000, 4000}, Size{}); got != (Size{4000, 4000}) {
		t.Errorf("Fit with unknown screen = %v", got)
	}
}

func TestPlayerSingleFrame(t *testing.T) {
	win := &fakeWindow{}
	sched := &manualScheduler{}
	p := NewPlayer(win, sched)

	if err := p.Load(FromImage(image.NewRGBA(image.Rect(0, 0, 4, 4)))); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if win.shows != 1 {
		t.Errorf("shows = %d, want 1", win.shows)
	}
	if sched.Pending() != 0 {
		t.Errorf("pending ticks = %d, want 0", sched.Pending())
	}
}

func TestPlayerSingleFrameGIF(t *testing.T) {
	win := &fakeWindow{}
	sched := &manualScheduler{}
	p := NewPlayer(win, sched)

	if err := p.Load(FromGIF(testGIF(1, 5))); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if win.shows != 1 || sched.Pending() != 0 {
		t.Errorf("shows = %d, pending = %d; want 1, 0", win.shows, sched.Pending())
	}
}

func TestPlayerCursorWraps(t *testing.T) {
	const n = 4
	win := &fakeWindow{}
	sched := &manualScheduler{}
	p := NewPlayer(win, sched)

	if err := p.Load(FromGIF(testGIF(n, 5))); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Len() != n {
		t.Fatalf("Len = %d, want %d", p.Len(), n)
	}
	if p.Delay() != 50*time.Millisecond {
		t.Errorf("Delay = %v, want 50ms", p.Delay())
	}
	if p.Cursor() != 0 {
		t.Fatalf("cursor after load = %d, want 0", p.Cursor())
	}

	for k := 1; k <= 3*n+1; k++ {
		if !sched.Step() {
			t.Fatalf("no tick scheduled before tick %d", k)
		}
		if p.Cursor() != k%n {
			t.Errorf("after %d ticks cursor = %d, want %d", k, p.Cursor(), k%n)
		}
		if sched.Pending() != 1 {
			t.Errorf("after %d ticks pending = %d, want 1", k, sched.Pending())
		}
	}
	if want := 1 + 3*n + 1; win.shows != want {
		t.Errorf("shows = %d, want %d", win.shows, want)
	}
}

func TestPlayerDefaultDelay(t *testing.T) {
	p := NewPlayer(&fakeWindow{}, &manualScheduler{})
	if err := p.Load(FromGIF(testGIF(3, 0))); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Delay() != 100*time.Millisecond {
		t.Errorf("Delay = %v, want 100ms", p.Delay())
	}
}

func TestPlayerUnloadStopsTicks(t *testing.T) {
	win := &fakeWindow{}
	sched := &manualScheduler{}
	p := NewPlayer(win, sched)

	if err := p.Load(FromGIF(testGIF(3, 2))); err != nil {
		t.Fatalf("Load: %v", err)
	}
	sched.Step()
	sched.Step()
	p.Unload()

	shows := win.shows
	for sched.Step() {
	}
	if win.shows != shows {
		t.Errorf("surface updated %d times after Unload", win.shows-shows)
	}
	if win.current != nil || win.clears != 1 {
		t.Errorf("surface not cleared: current=%v clears=%d", win.current, win.clears)
	}
	if p.Len() != 0 {
		t.Errorf("frames kept after Unload: %d", p.Len())
	}
}

func TestPlayerReloadInvalidatesOldChain(t *testing.T) {
	win := &fakeWindow{}
	sched := &manualScheduler{}
	p := NewPlayer(win, sched)

	if err := p.Load(FromGIF(testGIF(3, 2))); err != nil {
		t.Fatal(err)
	}
	if err := p.Load(FromGIF(testGIF(2, 2))); err != nil {
		t.Fatal(err)
	}
	if sched.Pending() != 2 {
		t.Fatalf("pending = %d, want 2 (one stale)", sched.Pending())
	}

	// The stale tick is due first and must not reschedule.
	sched.Step()
	if sched.Pending() != 1 {
		t.Errorf("pending after stale tick = %d, want 1", sched.Pending())
	}
	sched.Step()
	if p.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1", p.Cursor())
	}
	sched.Step()
	if p.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0 after wrap on 2 frames", p.Cursor())
	}
}

func TestPlayerLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	gifPath := writeGIF(t, dir, "hello.gif", testGIF(5, 7))
	jpgPath := writeJPEG(t, dir, "a.jpg", 6, 6)

	win := &fakeWindow{}
	sched := &manualScheduler{}
	p := NewPlayer(win, sched)

	if err := p.Load(FromPath(gifPath)); err != nil {
		t.Fatalf("Load gif: %v", err)
	}
	if p.Len() != 5 || p.Delay() != 70*time.Millisecond {
		t.Errorf("gif: len=%d delay=%v, want 5, 70ms", p.Len(), p.Delay())
	}
	if got := SizeOf(win.current); got != (Size{8, 8}) {
		t.Errorf("frame size = %v, want 8x8", got)
	}

	sched = &manualScheduler{}
	p = NewPlayer(win, sched)
	if err := p.Load(FromPath(jpgPath)); err != nil {
		t.Fatalf("Load jpg: %v", err)
	}
	if p.Len() != 1 || sched.Pending() != 0 {
		t.Errorf("jpg: len=%d pending=%d, want 1, 0", p.Len(), sched.Pending())
	}
}

func TestPlayerMissingFile(t *testing.T) {
	win := &fakeWindow{}
	p := NewPlayer(win, &manualScheduler{})

	err := p.Load(FromPath(filepath.Join(t.TempDir(), "nope.gif")))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want fs.ErrNotExist", err)
	}
	if win.shows != 0 {
		t.Errorf("surface touched on failed load")
	}
}

func TestPlayerCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.gif")
	if err := os.WriteFile(path, []byte("GIF89a not really"), 0644); err != nil {
		t.Fatal(err)
	}
	p := NewPlayer(&fakeWindow{}, &manualScheduler{})
	if err := p.Load(FromPath(path)); err == nil {
		t.Fatal("expected error for corrupt gif")
	}
}

func TestPlayerEmptySource(t *testing.T) {
	p := NewPlayer(&fakeWindow{}, &manualScheduler{})
	if err := p.Load(Source{}); err == nil {
		t.Fatal("expected error for empty source")
	}
}
