package main

import (
	"time"

	"islify/display"
)

// EventSink receives session progress so the terminal UI and the tray GUI
// can show the same status.
type EventSink interface {
	Calibrating(d time.Duration)
	Listening()
	Recognizing()
	Heard(text string)
	Problem(msg string)
	Goodbye()
}

// frontend is everything the session needs from a UI toolkit.
type frontend interface {
	display.Scheduler
	display.WindowFactory
	EventSink
	Quit()
}
