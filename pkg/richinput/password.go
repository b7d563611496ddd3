// ABOUTME: RichPassword masks the edited line on screen while keeping the real text in the buffer.
// ABOUTME: The last typed character shows in clear for a short window; a toggle key switches masking off.

package richinput

import (
	"io"
	"time"

	"github.com/mauromedda/richinput/pkg/richinput/decode"
	"github.com/mauromedda/richinput/pkg/richinput/key"
	"github.com/mauromedda/richinput/pkg/richinput/line"
)

const (
	DefaultMask   = '*'
	DefaultReveal = time.Second
)

// PasswordOptions tunes masking. A negative Reveal disables the reveal window.
type PasswordOptions struct {
	Mask     rune
	Reveal   time.Duration
	Toggle   key.Name
	Unmasked bool
}

func (o PasswordOptions) withDefaults() PasswordOptions {
	if o.Mask == 0 {
		o.Mask = DefaultMask
	}
	if o.Reveal == 0 {
		o.Reveal = DefaultReveal
	}
	if o.Toggle == key.NameUnknown {
		o.Toggle = key.Function(1)
	}
	return o
}

// RichPassword is a RichLine whose display is masked.
type RichPassword struct {
	*RichLine
	opts PasswordOptions

	masked      bool
	revealAt    int // buffer index shown in clear, -1 for none
	revealUntil time.Time
}

// NewRichPassword returns a masked line reader.
func NewRichPassword(src decode.Source, w io.Writer, opts Options, popts PasswordOptions) *RichPassword {
	p := &RichPassword{
		RichLine: NewRichLine(src, w, opts),
		opts:     popts.withDefaults(),
		revealAt: -1,
	}
	p.masked = !p.opts.Unmasked
	p.layers = append(p.layers, p.handle)
	p.start = append(p.start, func(ed *Editor) line.Plan {
		p.revealAt = -1
		return ed.Buffer.SetView(p.view)
	})
	p.idle = append(p.idle, p.tick)
	return p
}

// Masked reports whether masking is on.
func (p *RichPassword) Masked() bool { return p.masked }

// SetMasked switches masking for subsequent redraws.
func (p *RichPassword) SetMasked(on bool) { p.masked = on }

func (p *RichPassword) handle(ed *Editor, ev key.Event, next Next) Result {
	if ev.Is(p.opts.Toggle) {
		p.masked = !p.masked
		p.revealAt = -1
		return Result{Plan: ed.Buffer.Refresh()}
	}

	if ev.Kind != key.KindPrintable || p.opts.Reveal < 0 {
		var pre line.Plan
		if p.revealAt >= 0 {
			p.revealAt = -1
			pre = ed.Buffer.Refresh()
		}
		res := next(ev)
		res.Plan = pre.Then(res.Plan)
		return res
	}

	n := ed.Buffer.Len()
	p.revealAt = ed.Buffer.Cursor()
	p.revealUntil = ed.Now().Add(p.opts.Reveal)
	res := next(ev)
	if ed.Buffer.Len() <= n || res.Outcome != Continue {
		p.revealAt = -1
		res.Plan = res.Plan.Then(ed.Buffer.Refresh())
	}
	return res
}

// tick masks the revealed character once its window has passed.
func (p *RichPassword) tick(ed *Editor) line.Plan {
	if p.revealAt < 0 || ed.Now().Before(p.revealUntil) {
		return nil
	}
	p.revealAt = -1
	return ed.Buffer.Refresh()
}

func (p *RichPassword) view(text []rune) []rune {
	if !p.masked {
		return text
	}
	reveal := p.revealAt >= 0 && p.now().Before(p.revealUntil)
	for i := range text {
		if reveal && i == p.revealAt {
			continue
		}
		text[i] = p.opts.Mask
	}
	return text
}
