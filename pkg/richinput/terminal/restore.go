// ABOUTME: Panic recovery that puts the terminal back in cooked mode before reporting.
// ABOUTME: RestoreOnPanic exits the process; RecoverGoroutine lets the owner shut down.

package terminal

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

// Restorer is the part of Terminal needed to undo raw mode.
type Restorer interface {
	ExitRawMode() error
}

// RestoreOnPanic should be deferred at the top of main. On panic it leaves
// raw mode, prints the value and stack trace, and exits with code 1.
func RestoreOnPanic(t Restorer) {
	r := recover()
	if r == nil {
		return
	}
	report(t, os.Stderr, "panic", r)
	os.Exit(1)
}

// RecoverGoroutine should be deferred at the top of goroutines that run
// while the terminal is raw. It does not exit the process.
func RecoverGoroutine(t Restorer) {
	r := recover()
	if r == nil {
		return
	}
	report(t, os.Stderr, "goroutine panic", r)
}

func report(t Restorer, w io.Writer, what string, r any) {
	_ = t.ExitRawMode()
	fmt.Fprintf(w, "\r\n%s: %v\n\n%s\n", what, r, debug.Stack())
}
