// ABOUTME: Maps buffer indexes to terminal cells for a line that wraps at the terminal width.
// ABOUTME: Wide runes that would straddle the last column start on the next row, as terminals do.

package line

import (
	"math"

	"github.com/mauromedda/richinput/pkg/richinput/width"
)

// State is what the terminal shows: the displayed runes and the cursor index.
type State struct {
	Text   []rune
	Cursor int
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	return State{Text: append([]rune(nil), s.Text...), Cursor: s.Cursor}
}

// Geometry describes where the line sits on screen.
type Geometry struct {
	Width  int // terminal columns; zero or less disables wrapping
	Origin int // column where the first rune is drawn, usually the prompt width
}

// Pos is a cell relative to the row the prompt starts on.
type Pos struct {
	Row, Col int
}

// Before reports whether p comes earlier than q in reading order.
func (p Pos) Before(q Pos) bool {
	return p.Row < q.Row || (p.Row == q.Row && p.Col < q.Col)
}

type layout struct {
	width  int
	origin Pos
	starts []Pos // cell where rune i is drawn
	pads   []int // blank cells skipped before rune i
	end    Pos   // cell after the last rune; Col may equal width
}

func (g Geometry) columns() int {
	if g.Width <= 0 {
		return math.MaxInt32
	}
	return g.Width
}

func computeLayout(text []rune, geo Geometry) layout {
	w := geo.columns()
	l := layout{
		width:  w,
		origin: Pos{Row: geo.Origin / w, Col: geo.Origin % w},
		starts: make([]Pos, len(text)),
		pads:   make([]int, len(text)),
	}
	cur := l.origin
	for i, r := range text {
		rw := width.RuneWidth(r)
		if rw > 0 {
			switch {
			case cur.Col >= w:
				cur = Pos{Row: cur.Row + 1}
			case cur.Col+rw > w:
				l.pads[i] = w - cur.Col
				cur = Pos{Row: cur.Row + 1}
			}
		}
		l.starts[i] = cur
		cur.Col += rw
	}
	l.end = cur
	return l
}

// norm moves a position sitting past the last column to the start of the next row.
func (l layout) norm(p Pos) Pos {
	if p.Col >= l.width {
		return Pos{Row: p.Row + 1}
	}
	return p
}

// cursor returns the cell the terminal cursor occupies for index i.
func (l layout) cursor(i int) Pos {
	if i >= len(l.starts) {
		return l.norm(l.end)
	}
	return l.norm(l.starts[i])
}

// after returns the cell right after the first k runes, before any wrap.
func (l layout) after(text []rune, k int) Pos {
	if k == 0 {
		return l.origin
	}
	p := l.starts[k-1]
	p.Col += width.RuneWidth(text[k-1])
	return p
}

// CursorPos returns where the cursor of s is drawn under geo.
func CursorPos(s State, geo Geometry) Pos {
	return computeLayout(s.Text, geo).cursor(s.Cursor)
}

// Rows returns how many screen rows s occupies under geo.
func Rows(s State, geo Geometry) int {
	l := computeLayout(s.Text, geo)
	return l.norm(l.end).Row + 1
}

// Anchor returns the origin under which the cursor of s is drawn in column
// col of a width-column terminal. It reports false when no origin fits.
func Anchor(s State, width, col int) (int, bool) {
	if width <= 0 {
		origin := col - CursorPos(s, Geometry{}).Col
		return origin, origin >= 0
	}
	for origin := range width {
		if CursorPos(s, Geometry{Width: width, Origin: origin}).Col == col {
			return origin, true
		}
	}
	return 0, false
}
