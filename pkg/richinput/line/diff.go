// ABOUTME: Computes the minimal redraw plan between two displayed line states.
// ABOUTME: Rewrites only from the first differing rune and clears only when the line got shorter.

package line

import "strings"

// Diff returns the operations that turn the screen showing prev into one
// showing next. The terminal cursor is assumed to be at prev's cursor.
func Diff(prev, next State, geo Geometry) Plan {
	var p planner
	pl := computeLayout(prev.Text, geo)
	nl := computeLayout(next.Text, geo)
	cur := pl.cursor(prev.Cursor)

	k := commonPrefix(prev.Text, next.Text)
	if k == len(prev.Text) && k == len(next.Text) {
		p.move(cur, nl.cursor(next.Cursor))
		return p.plan
	}

	start := nl.norm(nl.after(next.Text, k))
	p.move(cur, start)

	phys := start
	if k < len(next.Text) {
		var tail strings.Builder
		for i := k; i < len(next.Text); i++ {
			tail.WriteString(strings.Repeat(" ", nl.pads[i]))
			tail.WriteRune(next.Text[i])
		}
		p.write(tail.String())
		if nl.end.Col >= nl.width {
			// Leave the pending-wrap state so relative moves stay exact.
			p.add(Op{Kind: OpNewline})
		}
		phys = nl.norm(nl.end)
	}

	if nl.end.Before(pl.end) {
		if pl.end.Row > phys.Row {
			p.add(Op{Kind: OpClearScreen})
		} else {
			p.add(Op{Kind: OpClearLine})
		}
	}

	p.move(phys, nl.cursor(next.Cursor))
	return p.plan
}

// Draw returns the plan that renders s on a line with nothing drawn yet.
func Draw(s State, geo Geometry) Plan {
	return Diff(State{}, s, geo)
}

func commonPrefix(a, b []rune) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
