// ABOUTME: Defines the Terminal interface: raw mode, size, output, resize, and nonblocking input.
// ABOUTME: Implementations target a real TTY, a plain reader, or a scripted virtual terminal.

package terminal

import (
	"context"
	"time"
)

// Terminal abstracts the collaborators the line editor relies on but never
// controls itself: mode switching, geometry, output, and a nonblocking input.
type Terminal interface {
	EnterRawMode() error
	ExitRawMode() error
	Size() (width, height int, err error)
	Write(p []byte) (n int, err error)
	OnResize(fn func(width, height int))

	// ReadAvailable returns buffered input without blocking; (0, nil) means none.
	ReadAvailable(p []byte) (int, error)
	// WaitReady blocks until input may be available or timeout elapses.
	WaitReady(ctx context.Context, timeout time.Duration) error
}
