// ABOUTME: RichLine reads one edited line: events flow through the handler chain into the buffer,
// ABOUTME: and the resulting redraw plans are written to the terminal as each key arrives.

package richinput

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/text/encoding"

	pilog "github.com/mauromedda/richinput/internal/log"
	"github.com/mauromedda/richinput/pkg/richinput/capability"
	"github.com/mauromedda/richinput/pkg/richinput/decode"
	"github.com/mauromedda/richinput/pkg/richinput/input"
	"github.com/mauromedda/richinput/pkg/richinput/key"
	"github.com/mauromedda/richinput/pkg/richinput/line"
	"github.com/mauromedda/richinput/pkg/richinput/width"
)

// Options configures a RichLine. The zero value reads UTF-8 with the xterm
// key table, ANSI output and no wrapping.
type Options struct {
	Table    capability.Table
	Output   line.Output
	Encoding encoding.Encoding
	Input    input.Options
	Keymap   Keymap
	// Width is the terminal width in columns; zero disables wrapping.
	Width int
	// Now is the clock for timed behaviour. nil means time.Now.
	Now func() time.Time
	// Cursor, when set, locates the prompt on its row and re-anchors the line
	// after a resize. Without it the prompt is taken to start at column 0.
	Cursor PositionQuerier
}

// PositionQuerier reports the zero-based cursor cell, typically through a
// cursor position report. terminal.ProcessTerminal and
// terminal.VirtualTerminal implement it.
type PositionQuerier interface {
	CursorPosition(ctx context.Context) (row, col int, err error)
}

// WithProfile fills Table and Output from a resolved terminal profile.
func (o Options) WithProfile(p *capability.Profile) Options {
	o.Table = p.Keys
	o.Output = p.Output
	return o
}

func (o Options) withDefaults() Options {
	if o.Table == nil {
		xterm, _ := capability.Builtin("xterm")
		o.Table = xterm
	}
	if o.Output == nil {
		o.Output = capability.ANSI
	}
	if o.Keymap == nil {
		o.Keymap = DefaultKeymap()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Input.Clock == nil {
		o.Input.Clock = o.Now
	}
	return o
}

// hook runs at a fixed point of the read loop and may return redraw operations.
type hook func(ed *Editor) line.Plan

// RichLine is a line editor bound to one input source and one output.
// Decoder and recognizer state persist across Read calls. Not safe for
// concurrent reads.
type RichLine struct {
	stream *input.Stream
	w      io.Writer
	out    line.Output
	table  capability.Table
	now    func() time.Time
	width  atomic.Int64
	cursor PositionQuerier

	mu     sync.Mutex
	keymap Keymap

	// layers sit inside the per-call handlers, just around the default handler.
	layers []Handler
	start  []hook
	idle   []hook
}

// NewRichLine reads events from src and draws on w.
func NewRichLine(src decode.Source, w io.Writer, opts Options) *RichLine {
	opts = opts.withDefaults()
	l := &RichLine{
		stream: streams.get(src, opts.Encoding, opts.Table, opts.Input),
		w:      w,
		out:    opts.Output,
		table:  opts.Table,
		keymap: opts.Keymap,
		now:    opts.Now,
		cursor: opts.Cursor,
	}
	l.width.Store(int64(opts.Width))
	return l
}

// SetWidth changes the wrap width. Safe to call from a resize callback; the
// read loop redraws between events.
func (l *RichLine) SetWidth(w int) {
	l.width.Store(int64(w))
}

// Keymap returns the keymap used by the default handler.
func (l *RichLine) Keymap() Keymap {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.keymap
}

// SetKeymap replaces the keymap from the next Read on. Safe to call from
// another goroutine, such as a config watcher.
func (l *RichLine) SetKeymap(km Keymap) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keymap = km
}

// Read writes prompt and edits a line until a handler commits, aborts or input
// ends. Handlers wrap the default behaviour; the last one sees each event first.
// At end of input the text typed so far is returned with io.EOF.
func (l *RichLine) Read(ctx context.Context, prompt string, handlers ...Handler) (string, error) {
	start := 0
	if !strings.ContainsAny(width.StripANSI(prompt), "\r\n") {
		if col, ok := l.column(ctx); ok {
			start = col
		}
	}
	if _, err := io.WriteString(l.w, prompt); err != nil {
		return "", fmt.Errorf("writing prompt: %w", err)
	}
	cols := int(l.width.Load())
	origin := start + promptWidth(prompt)
	if cols > 0 && origin > 0 && origin%cols == 0 {
		// The prompt filled its last row; settle the pending wrap.
		if _, err := io.WriteString(l.w, l.out.Newline()); err != nil {
			return "", fmt.Errorf("writing prompt: %w", err)
		}
		origin = 0
	}

	ed := &Editor{
		Buffer: line.NewBuffer(line.Geometry{Width: cols, Origin: origin}),
		Table:  l.table,
		Keymap: l.Keymap(),
		Prompt: prompt,
		Now:    l.now,
	}
	chain := NewChain(l.layers...)
	for _, h := range handlers {
		chain.Use(h)
	}
	for _, h := range l.start {
		if err := l.render(h(ed)); err != nil {
			return "", err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", l.finish(ed, fmt.Errorf("%w: %w", ErrAborted, err))
		}
		if w := int(l.width.Load()); w != ed.Buffer.Geometry().Width {
			if err := l.render(l.resize(ctx, ed, w)); err != nil {
				return "", err
			}
		}

		ev, err := l.stream.Next()
		switch {
		case err == nil:
			res := chain.Run(ed, ev)
			if err := l.render(res.Plan); err != nil {
				return "", err
			}
			switch res.Outcome {
			case Commit:
				return ed.Buffer.Text(), l.finish(ed, nil)
			case EndOfInput:
				return ed.Buffer.Text(), l.finish(ed, io.EOF)
			case Abort:
				return "", l.finish(ed, ErrAborted)
			}
		case errors.Is(err, input.ErrBlocked):
			for _, h := range l.idle {
				if err := l.render(h(ed)); err != nil {
					return "", err
				}
			}
			if err := l.stream.Wait(ctx); err != nil {
				return "", l.finish(ed, fmt.Errorf("%w: %w", ErrAborted, err))
			}
		case errors.Is(err, io.EOF):
			return ed.Buffer.Text(), l.finish(ed, io.EOF)
		default:
			return ed.Buffer.Text(), l.finish(ed, err)
		}
	}
}

// resize moves the line to width w. With a cursor query the terminal's own
// reflow is trusted and the line re-anchored where the cursor now sits.
func (l *RichLine) resize(ctx context.Context, ed *Editor, w int) line.Plan {
	if w > 0 {
		if col, ok := l.column(ctx); ok {
			if origin, ok := line.Anchor(ed.Buffer.Shown(), w, col); ok {
				return ed.Buffer.Reanchor(line.Geometry{Width: w, Origin: origin})
			}
		}
	}
	return ed.Buffer.SetWidth(w)
}

// column asks for the cursor column. A terminal that fails to answer once is
// not asked again.
func (l *RichLine) column(ctx context.Context) (int, bool) {
	if l.cursor == nil {
		return 0, false
	}
	_, col, err := l.cursor.CursorPosition(ctx)
	if err != nil {
		pilog.Debug("cursor position unavailable, assuming column 0: %v", err)
		l.cursor = nil
		return 0, false
	}
	return col, true
}

// finish leaves the cursor on a fresh row and returns err, unless writing fails.
func (l *RichLine) finish(ed *Editor, err error) error {
	if werr := l.render(ed.Buffer.Finish()); werr != nil {
		return errors.Join(err, werr)
	}
	return err
}

func (l *RichLine) render(p line.Plan) error {
	if len(p) == 0 {
		return nil
	}
	if err := p.Render(l.w, l.out); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

// promptWidth returns the column the cursor sits on after prompt is written.
func promptWidth(prompt string) int {
	prompt = width.StripANSI(prompt)
	if i := strings.LastIndexAny(prompt, "\r\n"); i >= 0 {
		prompt = prompt[i+1:]
	}
	return width.String(prompt)
}

// Events exposes the underlying event stream, sharing its state with Read.
func (l *RichLine) Events(ctx context.Context) iter.Seq2[key.Event, error] {
	return l.stream.Events(ctx)
}
