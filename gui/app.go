//go:build gui

// Package gui shows gesture and alphabet windows with fyne and keeps a tray
// icon whose menu reports what the listener is doing.
package gui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/go-gl/glfw/v3.3/glfw"

	"islify/display"
)

type App struct {
	fyneApp fyne.App
	onReady func()
	screen  display.Size

	tray   *fyne.Menu
	status *fyne.MenuItem
}

func NewApp(onReady func()) *App {
	return &App{onReady: onReady}
}

// Run owns the calling goroutine until Quit. It must be called from main.
func Run(a *App) error {
	a.fyneApp = app.NewWithID("io.islify.gui")
	a.fyneApp.Settings().SetTheme(newTheme())

	icon, err := trayIcon()
	if err != nil {
		return fmt.Errorf("tray icon: %w", err)
	}
	a.fyneApp.SetIcon(icon)

	// The tray keeps the app alive while no gesture window is open.
	if desk, ok := a.fyneApp.(desktop.App); ok {
		a.status = fyne.NewMenuItem("Starting…", nil)
		a.status.Disabled = true
		a.tray = fyne.NewMenu("islify",
			a.status,
			fyne.NewMenuItemSeparator(),
			fyne.NewMenuItem("Quit", func() {
				a.fyneApp.Quit()
			}),
		)
		desk.SetSystemTrayMenu(a.tray)
		desk.SetSystemTrayIcon(icon)
	}

	a.fyneApp.Lifecycle().SetOnStarted(func() {
		a.screen = workArea()
		go a.onReady()
	})
	a.fyneApp.Run()
	return nil
}

// workArea is the usable part of the primary monitor in pixels, or zero when
// glfw cannot tell.
func workArea() display.Size {
	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		return display.Size{}
	}
	_, _, w, h := monitor.GetWorkarea()
	return display.Size{Width: w, Height: h}
}

func (a *App) Quit() {
	if a.fyneApp != nil {
		fyne.Do(a.fyneApp.Quit)
	}
}

// AfterFunc runs fn on the fyne main goroutine once d has elapsed.
func (a *App) AfterFunc(d time.Duration, fn func()) {
	if d <= 0 {
		fyne.Do(fn)
		return
	}
	time.AfterFunc(d, func() { fyne.Do(fn) })
}

func (a *App) setStatus(text string) {
	if a.status == nil {
		return
	}
	fyne.Do(func() {
		a.status.Label = text
		a.tray.Refresh()
	})
}

func (a *App) Calibrating(d time.Duration) {
	a.setStatus(fmt.Sprintf("Calibrating for %s…", d))
}

func (a *App) Listening()   { a.setStatus("Listening…") }
func (a *App) Recognizing() { a.setStatus("Recognizing…") }

func (a *App) Heard(text string) {
	a.setStatus("You said: " + text)
}

func (a *App) Problem(msg string) {
	a.setStatus(msg)
}

func (a *App) Goodbye() {
	a.setStatus("Goodbye")
}
