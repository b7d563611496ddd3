// ABOUTME: Stream composes the decoder and recognizer into one nonblocking event source.
// ABOUTME: Wait bounds idle sleeps by the poll interval and the pending ESC deadline.

package input

import (
	"context"
	"errors"
	"io"
	"iter"
	"time"

	"golang.org/x/text/encoding"

	"github.com/mauromedda/richinput/pkg/richinput/capability"
	"github.com/mauromedda/richinput/pkg/richinput/decode"
	"github.com/mauromedda/richinput/pkg/richinput/key"
)

// Stream reads rich characters from a byte source. State persists across
// reads, so one Stream should serve every read on a terminal.
type Stream struct {
	src  decode.Source
	enc  encoding.Encoding
	dec  *decode.Decoder
	rec  *Recognizer
	opts Options
}

// NewStream decodes src with enc (nil means UTF-8) and recognizes sequences from table.
func NewStream(src decode.Source, enc encoding.Encoding, table capability.Table, opts Options) *Stream {
	opts = opts.withDefaults()
	dec := decode.New(src, enc)
	return &Stream{
		src:  src,
		enc:  enc,
		dec:  dec,
		rec:  NewRecognizer(dec, table, opts),
		opts: opts,
	}
}

// Encoding returns the charset the stream decodes; nil means UTF-8.
func (s *Stream) Encoding() encoding.Encoding {
	return s.enc
}

// Decoder returns the decoder under the recognizer. Reading from it directly
// skips characters the recognizer is still holding.
func (s *Stream) Decoder() *decode.Decoder {
	return s.dec
}

// Configure swaps the key table and options while keeping decoder and
// recognizer state. A nil table keeps the current one.
func (s *Stream) Configure(table capability.Table, opts Options) {
	opts = opts.withDefaults()
	if table == nil {
		table = s.rec.table
	}
	s.rec.table = table
	s.rec.opts = opts
	s.opts = opts
}

// Next returns the next event without blocking; see Recognizer.Next.
func (s *Stream) Next() (key.Event, error) {
	return s.rec.Next()
}

// Wait sleeps until input may be available, the pending deadline passes,
// or the poll interval elapses.
func (s *Stream) Wait(ctx context.Context) error {
	d := s.opts.PollInterval
	if deadline, ok := s.rec.Deadline(); ok {
		d = min(d, max(0, deadline.Sub(s.opts.Clock())))
	}
	if d == 0 {
		return ctx.Err()
	}
	return decode.Wait(ctx, s.src, d)
}

// Read blocks until an event arrives, input ends (io.EOF), or ctx is done.
func (s *Stream) Read(ctx context.Context) (key.Event, error) {
	for {
		ev, err := s.Next()
		if !errors.Is(err, ErrBlocked) {
			return ev, err
		}
		if err := s.Wait(ctx); err != nil {
			return key.Event{}, err
		}
	}
}

// Events yields events until input ends. Cancellation and read failures are
// yielded once as an error; end of input finishes the sequence silently.
func (s *Stream) Events(ctx context.Context) iter.Seq2[key.Event, error] {
	return func(yield func(key.Event, error) bool) {
		for {
			ev, err := s.Read(ctx)
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(ev, err) || err != nil {
				return
			}
		}
	}
}

// Timeout returns the configured ESC disambiguation window.
func (s *Stream) Timeout() time.Duration {
	return s.opts.Timeout
}
