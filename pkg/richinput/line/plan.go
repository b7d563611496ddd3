// ABOUTME: Redraw plans: ordered terminal operations that bring the screen from one line state to another.
// ABOUTME: Plans are rendered through an Output that supplies the escape sequences for each operation.

package line

import (
	"fmt"
	"io"
	"strings"
)

// OpKind enumerates redraw operations.
type OpKind int

const (
	OpUp          OpKind = iota // cursor up N rows
	OpDown                      // cursor down N rows
	OpLeft                      // cursor left N columns
	OpRight                     // cursor right N columns
	OpWrite                     // literal text
	OpNewline                   // carriage return plus line feed
	OpClearLine                 // clear from cursor to end of line
	OpClearScreen               // clear from cursor to end of screen
	OpRaw                       // preformatted escape codes, passed through
)

var opNames = map[OpKind]string{
	OpUp:          "up",
	OpDown:        "down",
	OpLeft:        "left",
	OpRight:       "right",
	OpWrite:       "write",
	OpNewline:     "newline",
	OpClearLine:   "clearline",
	OpClearScreen: "clearscreen",
	OpRaw:         "raw",
}

func (k OpKind) String() string {
	if s, ok := opNames[k]; ok {
		return s
	}
	return fmt.Sprintf("op(%d)", int(k))
}

// Op is a single redraw operation. N is used by moves, Text by writes.
type Op struct {
	Kind OpKind
	N    int
	Text string
}

func (o Op) String() string {
	switch o.Kind {
	case OpUp, OpDown, OpLeft, OpRight:
		return fmt.Sprintf("%s(%d)", o.Kind, o.N)
	case OpWrite, OpRaw:
		return fmt.Sprintf("%s(%q)", o.Kind, o.Text)
	default:
		return o.Kind.String()
	}
}

// Plan is an ordered list of redraw operations.
type Plan []Op

// Output supplies the terminal encoding of each operation.
type Output interface {
	CursorUp(n int) string
	CursorDown(n int) string
	CursorLeft(n int) string
	CursorRight(n int) string
	ClearToEOL() string
	ClearToEOS() string
	Newline() string
}

// Then appends q to p.
func (p Plan) Then(q Plan) Plan {
	return append(p, q...)
}

// Count returns how many operations of kind k the plan holds.
func (p Plan) Count(k OpKind) int {
	n := 0
	for _, op := range p {
		if op.Kind == k {
			n++
		}
	}
	return n
}

// Encode renders the plan to a string of terminal output.
func (p Plan) Encode(out Output) string {
	var b strings.Builder
	for _, op := range p {
		switch op.Kind {
		case OpUp:
			b.WriteString(out.CursorUp(op.N))
		case OpDown:
			b.WriteString(out.CursorDown(op.N))
		case OpLeft:
			b.WriteString(out.CursorLeft(op.N))
		case OpRight:
			b.WriteString(out.CursorRight(op.N))
		case OpWrite, OpRaw:
			b.WriteString(op.Text)
		case OpNewline:
			b.WriteString(out.Newline())
		case OpClearLine:
			b.WriteString(out.ClearToEOL())
		case OpClearScreen:
			b.WriteString(out.ClearToEOS())
		}
	}
	return b.String()
}

// Render writes the encoded plan to w in one call.
func (p Plan) Render(w io.Writer, out Output) error {
	if len(p) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, p.Encode(out)); err != nil {
		return fmt.Errorf("writing redraw plan: %w", err)
	}
	return nil
}

func (p Plan) String() string {
	parts := make([]string, len(p))
	for i, op := range p {
		parts[i] = op.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// planner accumulates operations, dropping empty moves and writes.
type planner struct {
	plan Plan
}

func (p *planner) add(op Op) {
	p.plan = append(p.plan, op)
}

func (p *planner) move(from, to Pos) {
	switch {
	case to.Row < from.Row:
		p.add(Op{Kind: OpUp, N: from.Row - to.Row})
	case to.Row > from.Row:
		p.add(Op{Kind: OpDown, N: to.Row - from.Row})
	}
	switch {
	case to.Col < from.Col:
		p.add(Op{Kind: OpLeft, N: from.Col - to.Col})
	case to.Col > from.Col:
		p.add(Op{Kind: OpRight, N: to.Col - from.Col})
	}
}

func (p *planner) write(s string) {
	if s != "" {
		p.add(Op{Kind: OpWrite, Text: s})
	}
}
