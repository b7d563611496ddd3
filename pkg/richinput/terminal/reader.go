// ABOUTME: ReaderSource adapts a blocking io.Reader into a nonblocking input source.
// ABOUTME: A background goroutine performs the reads; callers only ever see buffered bytes.

package terminal

import (
	"context"
	"io"
	"time"
)

const readBufSize = 256

// ReaderSource turns any io.Reader (pipes, files, test fixtures) into a
// source with nonblocking ReadAvailable and WaitReady.
type ReaderSource struct {
	q *inputQueue
}

// NewReaderSource starts reading r in the background. The goroutine exits
// when r returns an error; it cannot interrupt a Read already in progress.
func NewReaderSource(r io.Reader) *ReaderSource {
	s := &ReaderSource{q: newInputQueue()}
	go s.readLoop(r)
	return s
}

func (s *ReaderSource) readLoop(r io.Reader) {
	tmp := make([]byte, readBufSize)
	for {
		n, err := r.Read(tmp)
		if n > 0 {
			s.q.push(tmp[:n])
		}
		if err != nil {
			s.q.close(err)
			return
		}
	}
}

// ReadAvailable returns whatever the background reader has collected.
func (s *ReaderSource) ReadAvailable(p []byte) (int, error) {
	return s.q.read(p)
}

// WaitReady blocks until bytes arrive, the reader ends, ctx is done, or timeout elapses.
func (s *ReaderSource) WaitReady(ctx context.Context, timeout time.Duration) error {
	return s.q.wait(ctx, timeout)
}
