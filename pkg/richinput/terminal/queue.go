// ABOUTME: Thread-safe byte queue backing the nonblocking ReadAvailable of virtual and reader sources.
// ABOUTME: Writers append and signal readiness; a close records the error reported once drained.

package terminal

import (
	"context"
	"io"
	"sync"
	"time"
)

type inputQueue struct {
	mu     sync.Mutex
	buf    []byte
	err    error
	notify chan struct{}
}

func newInputQueue() *inputQueue {
	return &inputQueue{notify: make(chan struct{}, 1)}
}

func (q *inputQueue) push(p []byte) {
	q.mu.Lock()
	q.buf = append(q.buf, p...)
	q.mu.Unlock()
	q.signal()
}

func (q *inputQueue) close(err error) {
	if err == nil {
		err = io.EOF
	}
	q.mu.Lock()
	if q.err == nil {
		q.err = err
	}
	q.mu.Unlock()
	q.signal()
}

func (q *inputQueue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *inputQueue) read(p []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.buf) == 0 {
		return 0, q.err
	}
	n := copy(p, q.buf)
	q.buf = q.buf[n:]
	return n, nil
}

func (q *inputQueue) pending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf) > 0 || q.err != nil
}

func (q *inputQueue) wait(ctx context.Context, timeout time.Duration) error {
	if q.pending() {
		return nil
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-q.notify:
		return nil
	case <-timer.C:
		return nil
	}
}
