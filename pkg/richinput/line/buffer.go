// ABOUTME: Editable line buffer with a cursor index; every edit returns the redraw plan for it.
// ABOUTME: Tracks what is currently on screen so plans depend only on the previous and new state.

package line

import (
	"unicode"
)

// View maps the buffer text to what is displayed. It must return exactly
// one rune per input rune; results of another length are ignored.
type View func(text []rune) []rune

// Buffer is a single-line editor. The zero value is not usable; call NewBuffer.
type Buffer struct {
	text   []rune
	cursor int
	geo    Geometry
	view   View
	shown  State
}

// NewBuffer returns an empty buffer laid out with geo.
func NewBuffer(geo Geometry) *Buffer {
	return &Buffer{geo: geo}
}

// Text returns the buffer content.
func (b *Buffer) Text() string { return string(b.text) }

// Runes returns a copy of the buffer content.
func (b *Buffer) Runes() []rune { return append([]rune(nil), b.text...) }

// Len returns the number of runes in the buffer.
func (b *Buffer) Len() int { return len(b.text) }

// Cursor returns the cursor index in [0, Len()].
func (b *Buffer) Cursor() int { return b.cursor }

// Geometry returns the current layout parameters.
func (b *Buffer) Geometry() Geometry { return b.geo }

// Shown returns a copy of the state last rendered.
func (b *Buffer) Shown() State { return b.shown.Clone() }

// Insert adds r at the cursor and advances the cursor.
func (b *Buffer) Insert(r rune) Plan {
	b.text = append(b.text, 0)
	copy(b.text[b.cursor+1:], b.text[b.cursor:])
	b.text[b.cursor] = r
	b.cursor++
	return b.render()
}

// InsertString inserts every rune of s at the cursor.
func (b *Buffer) InsertString(s string) Plan {
	rs := []rune(s)
	if len(rs) == 0 {
		return nil
	}
	tail := append(rs, b.text[b.cursor:]...)
	b.text = append(b.text[:b.cursor], tail...)
	b.cursor += len(rs)
	return b.render()
}

// DeleteBackward removes the rune left of the cursor, if any.
func (b *Buffer) DeleteBackward() Plan {
	if b.cursor == 0 {
		return nil
	}
	b.text = append(b.text[:b.cursor-1], b.text[b.cursor:]...)
	b.cursor--
	return b.render()
}

// DeleteForward removes the rune at the cursor, if any.
func (b *Buffer) DeleteForward() Plan {
	if b.cursor >= len(b.text) {
		return nil
	}
	b.text = append(b.text[:b.cursor], b.text[b.cursor+1:]...)
	return b.render()
}

// Move shifts the cursor by delta, clamped to the text bounds.
func (b *Buffer) Move(delta int) Plan {
	return b.moveTo(b.cursor + delta)
}

// MoveToStart places the cursor before the first rune.
func (b *Buffer) MoveToStart() Plan {
	return b.moveTo(0)
}

// MoveToEnd places the cursor after the last rune.
func (b *Buffer) MoveToEnd() Plan {
	return b.moveTo(len(b.text))
}

// MoveWord jumps one word forward (dir > 0) or backward (dir < 0).
func (b *Buffer) MoveWord(dir int) Plan {
	switch {
	case dir > 0:
		return b.moveTo(b.wordEnd())
	case dir < 0:
		return b.moveTo(b.wordStart())
	}
	return nil
}

// DeleteWordBackward removes the word before the cursor.
func (b *Buffer) DeleteWordBackward() Plan {
	return b.deleteRange(b.wordStart(), b.cursor)
}

// KillToEnd removes everything from the cursor to the end.
func (b *Buffer) KillToEnd() Plan {
	return b.deleteRange(b.cursor, len(b.text))
}

// KillToStart removes everything before the cursor.
func (b *Buffer) KillToStart() Plan {
	return b.deleteRange(0, b.cursor)
}

// ReplaceBefore swaps the n runes before the cursor for s and leaves the
// cursor after the inserted text.
func (b *Buffer) ReplaceBefore(n int, s string) Plan {
	n = max(0, min(n, b.cursor))
	ins := []rune(s)
	text := make([]rune, 0, len(b.text)-n+len(ins))
	text = append(text, b.text[:b.cursor-n]...)
	text = append(text, ins...)
	text = append(text, b.text[b.cursor:]...)
	b.text = text
	b.cursor = b.cursor - n + len(ins)
	return b.render()
}

// SetText replaces the content and puts the cursor at the end.
func (b *Buffer) SetText(s string) Plan {
	b.text = []rune(s)
	b.cursor = len(b.text)
	return b.render()
}

// SetView installs a display transform and redraws through it. nil shows the text as is.
func (b *Buffer) SetView(v View) Plan {
	b.view = v
	return b.render()
}

// Refresh redraws after the view's output changed without an edit.
func (b *Buffer) Refresh() Plan {
	return b.render()
}

// SetWidth changes the wrap width and redraws the whole line from its origin.
func (b *Buffer) SetWidth(w int) Plan {
	if w == b.geo.Width {
		return nil
	}
	old := computeLayout(b.shown.Text, b.geo)
	var p planner
	p.move(old.cursor(b.shown.Cursor), old.norm(old.origin))
	p.add(Op{Kind: OpClearScreen})

	b.geo.Width = w
	b.shown = State{}
	return p.plan.Then(b.render())
}

// Reanchor adopts geo after the terminal reflowed the line itself, as it does
// on resize. The cursor is taken to sit where geo places it, so the redraw
// starts from geo's origin.
func (b *Buffer) Reanchor(geo Geometry) Plan {
	if geo == b.geo {
		return nil
	}
	b.geo = geo
	l := computeLayout(b.shown.Text, b.geo)
	var p planner
	p.move(l.cursor(b.shown.Cursor), l.norm(l.origin))
	p.add(Op{Kind: OpClearScreen})

	b.shown = State{}
	return p.plan.Then(b.render())
}

// Finish moves the cursor past the end of the text and onto a fresh row,
// ready for output that follows the edited line.
func (b *Buffer) Finish() Plan {
	p := b.MoveToEnd()
	if pos := CursorPos(b.shown, b.geo); pos.Col == 0 && pos.Row > 0 {
		// The line ended exactly on a row boundary and already wrapped.
		return p
	}
	return append(p, Op{Kind: OpNewline})
}

func (b *Buffer) moveTo(i int) Plan {
	i = max(0, min(i, len(b.text)))
	if i == b.cursor {
		return nil
	}
	b.cursor = i
	return b.render()
}

func (b *Buffer) deleteRange(from, to int) Plan {
	if from >= to {
		return nil
	}
	b.text = append(b.text[:from], b.text[to:]...)
	b.cursor = from
	return b.render()
}

// wordEnd skips non-space then space runes forward from the cursor.
func (b *Buffer) wordEnd() int {
	i := b.cursor
	for i < len(b.text) && !unicode.IsSpace(b.text[i]) {
		i++
	}
	for i < len(b.text) && unicode.IsSpace(b.text[i]) {
		i++
	}
	return i
}

// wordStart skips space then non-space runes backward from the cursor.
func (b *Buffer) wordStart() int {
	i := b.cursor
	for i > 0 && unicode.IsSpace(b.text[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(b.text[i-1]) {
		i--
	}
	return i
}

func (b *Buffer) display() State {
	shown := append([]rune(nil), b.text...)
	if b.view != nil {
		if v := b.view(shown); len(v) == len(b.text) {
			shown = v
		}
	}
	return State{Text: shown, Cursor: b.cursor}
}

func (b *Buffer) render() Plan {
	next := b.display()
	plan := Diff(b.shown, next, b.geo)
	b.shown = next
	return plan
}
