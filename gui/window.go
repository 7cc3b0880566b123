//go:build gui

package gui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"islify/display"
)

type imageWindow struct {
	win    fyne.Window
	img    *canvas.Image
	screen display.Size
	size   display.Size
}

// NewWindow opens an empty window. It blocks until fyne has created it and
// may be called from any goroutine except the fyne main goroutine.
func (a *App) NewWindow(title string) (display.Window, error) {
	w := &imageWindow{screen: a.screen}
	fyne.DoAndWait(func() {
		w.win = a.fyneApp.NewWindow(title)
		w.img = canvas.NewImageFromImage(nil)
		w.img.FillMode = canvas.ImageFillContain
		w.img.ScaleMode = canvas.ImageScaleSmooth
		w.win.SetContent(w.img)
		w.win.SetPadded(false)
		w.win.Show()
	})
	return w, nil
}

func (w *imageWindow) Show(img image.Image) {
	w.img.Image = img
	if size := display.Fit(display.SizeOf(img), w.screen); size != w.size {
		w.size = size
		scale := w.win.Canvas().Scale()
		if scale <= 0 {
			scale = 1
		}
		fsize := fyne.NewSize(float32(size.Width)/scale, float32(size.Height)/scale)
		w.img.SetMinSize(fsize)
		w.win.Resize(fsize)
	}
	w.img.Refresh()
}

func (w *imageWindow) Clear() {
	w.img.Image = nil
	w.img.Refresh()
}

// Recenter puts the window in the middle of the screen it is on.
func (w *imageWindow) Recenter() {
	w.win.CenterOnScreen()
}

func (w *imageWindow) Close() {
	w.win.Close()
}

func (w *imageWindow) SetOnClosed(fn func()) {
	w.win.SetOnClosed(fn)
}
