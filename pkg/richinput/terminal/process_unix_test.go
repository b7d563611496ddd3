// ABOUTME: Tests ProcessTerminal input polling against a real pseudo-terminal.
// ABOUTME: Uses github.com/creack/pty; skipped where no pty can be allocated.

//go:build unix

package terminal

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/creack/pty"
)

func openPTY(t *testing.T) (*ProcessTerminal, func(string)) {
	t.Helper()
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = tty.Close()
		_ = ptmx.Close()
	})
	if err := pty.Setsize(ptmx, &pty.Winsize{Rows: 24, Cols: 60}); err != nil {
		t.Fatalf("Setsize: %v", err)
	}
	pt := NewProcessTerminalFrom(tty, tty)
	send := func(s string) {
		if _, err := ptmx.Write([]byte(s)); err != nil {
			t.Fatalf("writing to pty: %v", err)
		}
	}
	return pt, send
}

func TestProcessTerminal_NonblockingRead(t *testing.T) {
	t.Parallel()
	pt, send := openPTY(t)

	if !pt.IsTerminal() {
		t.Fatal("pty slave should be a terminal")
	}
	if err := pt.EnterRawMode(); err != nil {
		t.Fatalf("EnterRawMode: %v", err)
	}
	defer func() { _ = pt.ExitRawMode() }()

	buf := make([]byte, 16)
	if n, err := pt.ReadAvailable(buf); n != 0 || err != nil {
		t.Fatalf("idle ReadAvailable = %d, %v; must not block or fail", n, err)
	}

	send("\x1b[D")
	var got []byte
	deadline := time.Now().Add(2 * time.Second)
	for len(got) < 3 && time.Now().Before(deadline) {
		if err := pt.WaitReady(context.Background(), 100*time.Millisecond); err != nil {
			t.Fatalf("WaitReady: %v", err)
		}
		n, err := pt.ReadAvailable(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			t.Fatalf("ReadAvailable: %v", err)
		}
		got = append(got, buf[:n]...)
	}
	if string(got) != "\x1b[D" {
		t.Errorf("got %q, want ESC [ D", got)
	}
}

func TestProcessTerminal_Size(t *testing.T) {
	t.Parallel()
	pt, _ := openPTY(t)

	w, h, err := pt.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if w != 60 || h != 24 {
		t.Errorf("Size() = (%d, %d), want (60, 24)", w, h)
	}
}

func TestProcessTerminal_WaitReadyHonoursContext(t *testing.T) {
	t.Parallel()
	pt, _ := openPTY(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := pt.WaitReady(ctx, time.Hour)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("WaitReady ignored context deadline")
	}
}

func TestProcessTerminal_CursorPosition(t *testing.T) {
	t.Parallel()
	pt, send := openPTY(t)
	if err := pt.EnterRawMode(); err != nil {
		t.Fatalf("EnterRawMode: %v", err)
	}
	defer func() { _ = pt.ExitRawMode() }()

	// The answer is queued before the query; a key typed ahead precedes it.
	send("x\x1b[3;7R")
	row, col, err := pt.CursorPosition(context.Background())
	if err != nil {
		t.Fatalf("CursorPosition: %v", err)
	}
	if row != 2 || col != 6 {
		t.Errorf("CursorPosition() = (%d, %d), want (2, 6)", row, col)
	}

	buf := make([]byte, 16)
	n, err := pt.ReadAvailable(buf)
	if err != nil || string(buf[:n]) != "x" {
		t.Errorf("ReadAvailable = %q, %v; want the typed-ahead key", buf[:n], err)
	}
}

func TestProcessTerminal_CursorPositionNoReply(t *testing.T) {
	t.Parallel()
	pt, _ := openPTY(t)
	if err := pt.EnterRawMode(); err != nil {
		t.Fatalf("EnterRawMode: %v", err)
	}
	defer func() { _ = pt.ExitRawMode() }()

	if _, _, err := pt.CursorPosition(context.Background()); !errors.Is(err, ErrNoCursorReply) {
		t.Errorf("err = %v, want ErrNoCursorReply", err)
	}
}
