// Package shutdown maps the platform's termination signals onto channels and
// contexts.
package shutdown

import (
	"context"
	"os"
	"os/signal"
)

// Notify relays interrupt and termination signals to ch.
func Notify(ch chan os.Signal) {
	signal.Notify(ch, signals...)
}

// Context returns a child of parent that is cancelled on the first
// termination signal. The returned stop releases the signal handler.
func Context(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}
