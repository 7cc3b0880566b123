package display

import (
	"image"
	"time"
)

// Scheduler runs fn on the UI goroutine once d has elapsed. Implementations
// never run two callbacks concurrently.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// Surface is a single image slot. Show replaces whatever was shown before.
type Surface interface {
	Show(img image.Image)
	Clear()
}

// Window is one on-screen display owned by a single gesture or spelling run.
// All methods are called on the UI goroutine.
type Window interface {
	Surface
	Recenter()
	Close()
	SetOnClosed(fn func())
}

// WindowFactory opens windows. It may be called from any goroutine.
type WindowFactory interface {
	NewWindow(title string) (Window, error)
}

type Size struct {
	Width  int
	Height int
}

func SizeOf(img image.Image) Size {
	b := img.Bounds()
	return Size{Width: b.Dx(), Height: b.Dy()}
}

// Center returns the top-left offset that places window in the middle of
// screen. Each axis is (screen - window) / 2, truncated toward zero.
func Center(window, screen Size) (x, y int) {
	return (screen.Width - window.Width) / 2, (screen.Height - window.Height) / 2
}

// Fit scales size down to fit inside bound, keeping its aspect ratio.
// Sizes already inside bound, and empty bounds, are returned unchanged.
func Fit(size, bound Size) Size {
	if bound.Width <= 0 || bound.Height <= 0 {
		return size
	}
	if size.Width <= bound.Width && size.Height <= bound.Height {
		return size
	}
	// compare w/W against h/H without floats
	if size.Width*bound.Height >= size.Height*bound.Width {
		return Size{Width: bound.Width, Height: max(1, size.Height*bound.Width/size.Width)}
	}
	return Size{Width: max(1, size.Width*bound.Height/size.Height), Height: bound.Height}
}
