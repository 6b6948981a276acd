// Command tails opens a window and renders the tails scene.
package main

import (
	"os"
	"runtime"
)

func init() {
	// GLFW must run on the main thread
	runtime.LockOSThread()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
