// ABOUTME: Unix input polling and SIGWINCH handling for ProcessTerminal.
// ABOUTME: Uses poll(2) via golang.org/x/sys/unix so reads never block on an idle TTY.

//go:build unix

package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

const pollSlice = 50 * time.Millisecond

// startResizeListener calls the resize callback on every SIGWINCH.
func (t *ProcessTerminal) startResizeListener() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)

	go func() {
		for range sigCh {
			t.mu.Lock()
			fn := t.resizeFn
			t.mu.Unlock()

			if fn == nil {
				continue
			}
			w, h, err := t.Size()
			if err != nil {
				continue
			}
			fn(w, h)
		}
	}()
}

// poll waits up to timeout for input; a negative timeout waits forever.
func (t *ProcessTerminal) poll(timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(t.in.Fd()), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout/time.Millisecond))
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return false, nil
		}
		return false, fmt.Errorf("polling input: %w", err)
	}
	if n == 0 {
		return false, nil
	}
	return fds[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0, nil
}

// readInput reads only when poll reports the input ready.
func (t *ProcessTerminal) readInput(p []byte) (int, error) {
	if fb := t.activeFallback(); fb != nil {
		return fb.ReadAvailable(p)
	}
	ready, err := t.poll(0)
	if err != nil {
		if errors.Is(err, unix.EINVAL) || errors.Is(err, unix.EPERM) {
			return t.readerFallback().ReadAvailable(p)
		}
		return 0, err
	}
	if !ready {
		return 0, nil
	}
	n, err := unix.Read(int(t.in.Fd()), p)
	switch {
	case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EINTR):
		return 0, nil
	case errors.Is(err, unix.EIO):
		// The controlling side of a pty went away.
		return 0, io.EOF
	case err != nil:
		return 0, fmt.Errorf("reading input: %w", err)
	case n == 0:
		return 0, io.EOF
	}
	return n, nil
}

// waitInput blocks in poll(2) in short slices so ctx cancellation is noticed.
func (t *ProcessTerminal) waitInput(ctx context.Context, timeout time.Duration) error {
	if fb := t.activeFallback(); fb != nil {
		return fb.WaitReady(ctx, timeout)
	}
	deadline := time.Now().Add(timeout)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		left := time.Until(deadline)
		if left <= 0 {
			return nil
		}
		ready, err := t.poll(min(left, pollSlice))
		if err != nil {
			if errors.Is(err, unix.EINVAL) || errors.Is(err, unix.EPERM) {
				return t.readerFallback().WaitReady(ctx, left)
			}
			return err
		}
		if ready {
			return nil
		}
	}
}
