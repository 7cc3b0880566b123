//go:build !linux

package main

import (
	"os"
	"runtime"

	"golang.design/x/hotkey/mainthread"
)

// Core Audio and the window system want the process's first thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-gui" || arg == "--gui" {
			initGUI()
			return
		}
	}
	mainthread.Init(run)
}
