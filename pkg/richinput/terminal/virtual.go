// ABOUTME: VirtualTerminal implements Terminal for tests: scripted input, captured output, screen model.
// ABOUTME: Tracks raw-mode transitions and lets tests resize the terminal and close the input.

package terminal

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"
)

// VirtualTerminal is a fake Terminal. Bytes passed to Feed become input;
// everything written is captured and also interpreted by a Screen.
type VirtualTerminal struct {
	mu         sync.Mutex
	buf        bytes.Buffer
	screen     *Screen
	width      int
	height     int
	rawMode    bool
	resizeFn   func(width, height int)
	enterCount int
	exitCount  int

	input *inputQueue
}

// NewVirtualTerminal returns a VirtualTerminal with the given dimensions.
func NewVirtualTerminal(width, height int) *VirtualTerminal {
	return &VirtualTerminal{
		width:  width,
		height: height,
		screen: NewScreen(width),
		input:  newInputQueue(),
	}
}

// EnterRawMode records a raw-mode entry.
func (v *VirtualTerminal) EnterRawMode() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.rawMode = true
	v.enterCount++
	return nil
}

// ExitRawMode records a raw-mode exit.
func (v *VirtualTerminal) ExitRawMode() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.rawMode = false
	v.exitCount++
	return nil
}

// Size returns the configured terminal dimensions.
func (v *VirtualTerminal) Size() (width, height int, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.width, v.height, nil
}

// Write captures output and feeds it to the screen model.
func (v *VirtualTerminal) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	n, err := v.buf.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to virtual buffer: %w", err)
	}
	_, _ = v.screen.Write(p)
	return n, nil
}

// OnResize stores the resize callback.
func (v *VirtualTerminal) OnResize(fn func(width, height int)) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.resizeFn = fn
}

// ReadAvailable returns fed input without blocking.
func (v *VirtualTerminal) ReadAvailable(p []byte) (int, error) {
	return v.input.read(p)
}

// WaitReady blocks until input is fed, the input is closed, or timeout elapses.
func (v *VirtualTerminal) WaitReady(ctx context.Context, timeout time.Duration) error {
	return v.input.wait(ctx, timeout)
}

// --- Test helpers (not part of Terminal interface) ---

// Feed queues s as keyboard input.
func (v *VirtualTerminal) Feed(s string) {
	v.input.push([]byte(s))
}

// CloseInput makes ReadAvailable report io.EOF once queued input is consumed.
func (v *VirtualTerminal) CloseInput() {
	v.input.close(nil)
}

// Output returns everything written so far.
func (v *VirtualTerminal) Output() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.buf.String()
}

// Screen returns the emulated screen fed by Write.
func (v *VirtualTerminal) Screen() *Screen {
	return v.screen
}

// Reset clears the output buffer and the screen.
func (v *VirtualTerminal) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.buf.Reset()
	v.screen.Reset()
}

// IsRawMode reports whether raw mode is currently active.
func (v *VirtualTerminal) IsRawMode() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.rawMode
}

// EnterCount returns how many times EnterRawMode was called.
func (v *VirtualTerminal) EnterCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.enterCount
}

// ExitCount returns how many times ExitRawMode was called.
func (v *VirtualTerminal) ExitCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.exitCount
}

// SetSize updates the dimensions and invokes the resize callback, if any.
// The screen model is not reflowed.
func (v *VirtualTerminal) SetSize(width, height int) {
	v.mu.Lock()
	v.width = width
	v.height = height
	v.screen.SetWidth(width)
	fn := v.resizeFn
	v.mu.Unlock()

	if fn != nil {
		fn(width, height)
	}
}
