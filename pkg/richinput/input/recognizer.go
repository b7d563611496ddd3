// ABOUTME: SequenceRecognizer: turns decoded characters into printable, control, and escape-sequence events.
// ABOUTME: Disambiguates a lone ESC from a sequence start with a capability table and a deadline.

package input

import (
	"errors"
	"io"
	"time"

	"github.com/mauromedda/richinput/pkg/richinput/capability"
	"github.com/mauromedda/richinput/pkg/richinput/decode"
	"github.com/mauromedda/richinput/pkg/richinput/key"
)

const (
	// DefaultTimeout is how long an introducer waits for the rest of a sequence.
	DefaultTimeout = 50 * time.Millisecond
	// DefaultPollInterval bounds each idle wait of a Stream.
	DefaultPollInterval = 100 * time.Millisecond

	esc  = '\x1b'
	csi8 = '\u009b'

	// maxPending caps how long an unterminated sequence may grow.
	maxPending = 32
)

// ErrBlocked is returned when no complete event is available yet.
var ErrBlocked = decode.ErrBlocked

// CharSource yields decoded characters without blocking. *decode.Decoder satisfies it.
type CharSource interface {
	Next() (decode.Char, error)
}

// Options tunes the recognizer and stream.
type Options struct {
	// Timeout is the ESC disambiguation window. Zero means DefaultTimeout.
	Timeout time.Duration
	// PollInterval bounds idle waits in Stream.Wait. Zero means DefaultPollInterval.
	PollInterval time.Duration
	// Clock returns the current time. nil means time.Now.
	Clock func() time.Time
	// RecognizeUnknownCSI reports well-formed CSI and SS3 sequences missing from
	// the table as NameUnknown sequences instead of degrading them.
	RecognizeUnknownCSI bool
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// Recognizer is the Idle/Pending state machine. It is Pending whenever
// pending is non-empty. Not safe for concurrent use.
type Recognizer struct {
	chars CharSource
	table capability.Table
	opts  Options

	pending  []rune
	deadline time.Time
	replay   []rune
	out      []key.Event
}

// NewRecognizer returns a recognizer reading from chars and matching against table.
func NewRecognizer(chars CharSource, table capability.Table, opts Options) *Recognizer {
	return &Recognizer{chars: chars, table: table, opts: opts.withDefaults()}
}

// Next returns the next event. ErrBlocked means try again later; the
// pending deadline is checked on every call, so polling resolves a lone ESC.
func (r *Recognizer) Next() (key.Event, error) {
	for {
		if len(r.out) > 0 {
			ev := r.out[0]
			r.out = r.out[1:]
			return ev, nil
		}

		c, err := r.nextChar()
		switch {
		case err == nil:
			r.feed(c)
		case errors.Is(err, decode.ErrBlocked):
			if len(r.pending) > 0 && !r.opts.Clock().Before(r.deadline) {
				r.degrade()
				continue
			}
			return key.Event{}, ErrBlocked
		case errors.Is(err, io.EOF):
			if len(r.pending) > 0 {
				r.degrade()
				continue
			}
			return key.Event{}, io.EOF
		default:
			return key.Event{}, err
		}
	}
}

// Deadline reports when a pending sequence will be degraded.
func (r *Recognizer) Deadline() (time.Time, bool) {
	if len(r.pending) == 0 {
		return time.Time{}, false
	}
	return r.deadline, true
}

// Pending reports whether a sequence is being collected.
func (r *Recognizer) Pending() bool {
	return len(r.pending) > 0
}

func (r *Recognizer) nextChar() (rune, error) {
	if len(r.replay) > 0 {
		c := r.replay[0]
		r.replay = r.replay[1:]
		return c, nil
	}
	ch, err := r.chars.Next()
	return ch.Rune, err
}

func (r *Recognizer) feed(c rune) {
	if len(r.pending) == 0 {
		if c == esc || c == csi8 {
			r.pending = append(r.pending, c)
			r.deadline = r.opts.Clock().Add(r.opts.Timeout)
			return
		}
		r.out = append(r.out, key.Classify(c))
		return
	}

	r.pending = append(r.pending, c)
	seq := capability.Normalize(string(r.pending))

	if name, ok := r.table.Lookup(seq); ok {
		r.emit(key.Sequence(name, string(r.pending)))
		return
	}
	if r.table.IsPrefix(seq) {
		r.deadline = r.opts.Clock().Add(r.opts.Timeout)
		return
	}
	if r.opts.RecognizeUnknownCSI && len(r.pending) <= maxPending {
		switch controlSyntax(seq) {
		case syntaxComplete:
			r.emit(key.Sequence(key.NameUnknown, string(r.pending)))
			return
		case syntaxPartial:
			r.deadline = r.opts.Clock().Add(r.opts.Timeout)
			return
		}
	}
	r.degrade()
}

func (r *Recognizer) emit(ev key.Event) {
	r.out = append(r.out, ev)
	r.pending = r.pending[:0]
}

// degrade reports the introducer as a control key and replays the rest
// ahead of any unread input.
func (r *Recognizer) degrade() {
	r.out = append(r.out, key.Control(r.pending[0]))
	rest := append([]rune(nil), r.pending[1:]...)
	r.replay = append(rest, r.replay...)
	r.pending = r.pending[:0]
}

type syntax int

const (
	syntaxInvalid syntax = iota
	syntaxPartial
	syntaxComplete
)

// controlSyntax classifies seq as an ECMA-48 CSI (ESC [ params final) or SS3 (ESC O x) sequence.
func controlSyntax(seq string) syntax {
	rs := []rune(seq)
	if len(rs) < 2 || rs[0] != esc {
		return syntaxInvalid
	}
	switch rs[1] {
	case 'O':
		if len(rs) == 2 {
			return syntaxPartial
		}
		if len(rs) == 3 && rs[2] >= 0x40 && rs[2] <= 0x7e {
			return syntaxComplete
		}
		return syntaxInvalid
	case '[':
		for i, c := range rs[2:] {
			last := i == len(rs)-3
			switch {
			case c >= 0x20 && c <= 0x3f:
				continue
			case c >= 0x40 && c <= 0x7e && last:
				return syntaxComplete
			default:
				return syntaxInvalid
			}
		}
		return syntaxPartial
	}
	return syntaxInvalid
}
