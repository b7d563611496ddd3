// ABOUTME: Windows input and resize handling for ProcessTerminal.
// ABOUTME: Console handles cannot be polled here, so input goes through a background reader.

//go:build windows

package terminal

import (
	"context"
	"time"
)

// startResizeListener is a no-op on Windows; there is no SIGWINCH.
func (t *ProcessTerminal) startResizeListener() {}

// readInput returns bytes collected by the background reader.
func (t *ProcessTerminal) readInput(p []byte) (int, error) {
	return t.readerFallback().ReadAvailable(p)
}

// waitInput waits on the background reader.
func (t *ProcessTerminal) waitInput(ctx context.Context, timeout time.Duration) error {
	return t.readerFallback().WaitReady(ctx, timeout)
}
