// ABOUTME: ProcessTerminal implements Terminal over the process TTY using golang.org/x/term.
// ABOUTME: Raw mode save/restore, size queries, output, and pushback; input polling lives in platform files.

package terminal

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// ProcessTerminal is a real terminal: input from in, output to out.
type ProcessTerminal struct {
	in  *os.File
	out *os.File

	mu       sync.Mutex
	oldState *term.State
	resizeFn func(width, height int)
	fallback *ReaderSource
	// unread holds input that arrived while waiting for a cursor report.
	unread []byte
}

// NewProcessTerminal returns a terminal over os.Stdin and os.Stdout.
func NewProcessTerminal() *ProcessTerminal {
	return NewProcessTerminalFrom(os.Stdin, os.Stdout)
}

// NewProcessTerminalFrom returns a terminal over explicit files, such as a pty.
func NewProcessTerminalFrom(in, out *os.File) *ProcessTerminal {
	return &ProcessTerminal{in: in, out: out}
}

// IsTerminal reports whether the input is a TTY.
func (t *ProcessTerminal) IsTerminal() bool {
	return term.IsTerminal(int(t.in.Fd()))
}

// EnterRawMode switches the input to raw mode, saving the previous state.
func (t *ProcessTerminal) EnterRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.oldState != nil {
		return nil
	}
	state, err := term.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	t.oldState = state
	return nil
}

// ExitRawMode restores the state saved by EnterRawMode.
func (t *ProcessTerminal) ExitRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.oldState == nil {
		return nil
	}
	if err := term.Restore(int(t.in.Fd()), t.oldState); err != nil {
		return fmt.Errorf("exiting raw mode: %w", err)
	}
	t.oldState = nil
	return nil
}

// Size returns the current terminal dimensions.
func (t *ProcessTerminal) Size() (width, height int, err error) {
	w, h, err := term.GetSize(int(t.out.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("getting terminal size: %w", err)
	}
	return w, h, nil
}

// Write sends bytes to the output.
func (t *ProcessTerminal) Write(p []byte) (int, error) {
	n, err := t.out.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to terminal: %w", err)
	}
	return n, nil
}

// OnResize registers a callback invoked with the new size after a resize.
func (t *ProcessTerminal) OnResize(fn func(width, height int)) {
	t.mu.Lock()
	t.resizeFn = fn
	t.mu.Unlock()

	t.startResizeListener()
}

// ReadAvailable returns input without blocking. Bytes set aside by
// CursorPosition come first.
func (t *ProcessTerminal) ReadAvailable(p []byte) (int, error) {
	t.mu.Lock()
	if len(t.unread) > 0 {
		n := copy(p, t.unread)
		t.unread = t.unread[n:]
		t.mu.Unlock()
		return n, nil
	}
	t.mu.Unlock()
	return t.readInput(p)
}

// WaitReady blocks until input may be available or timeout elapses.
func (t *ProcessTerminal) WaitReady(ctx context.Context, timeout time.Duration) error {
	t.mu.Lock()
	pending := len(t.unread) > 0
	t.mu.Unlock()
	if pending {
		return ctx.Err()
	}
	return t.waitInput(ctx, timeout)
}

// readerFallback lazily starts a background reader for inputs that cannot be polled.
func (t *ProcessTerminal) readerFallback() *ReaderSource {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fallback == nil {
		t.fallback = NewReaderSource(t.in)
	}
	return t.fallback
}

func (t *ProcessTerminal) activeFallback() *ReaderSource {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fallback
}
