//go:build gui

package main

import (
	"fmt"
	"os"
	"runtime"

	"islify/gui"
)

func initGUI() {
	runtime.LockOSThread()

	app := gui.NewApp(func() {
		run()
	})
	guiApp = app
	if err := gui.Run(app); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
