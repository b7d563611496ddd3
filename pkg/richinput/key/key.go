// ABOUTME: Defines the Event tagged union produced by the rich input stream.
// ABOUTME: Printable characters, control keys, and recognized escape sequences with their raw bytes.

package key

import (
	"fmt"
	"unicode"
)

// Kind discriminates the three event variants.
type Kind int

const (
	KindPrintable Kind = iota // Character with a visible glyph
	KindControl               // Unicode category C*, including a lone ESC
	KindSequence              // Escape sequence matched against a capability table
)

func (k Kind) String() string {
	switch k {
	case KindPrintable:
		return "printable"
	case KindControl:
		return "control"
	case KindSequence:
		return "sequence"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is a single logical keystroke.
// Rune is set for printable and control events; Name is set for sequences.
// Raw always holds the exact input that produced the event.
type Event struct {
	Kind Kind
	Rune rune
	Name Name
	Raw  string
}

// Printable returns a printable event for r.
func Printable(r rune) Event {
	return Event{Kind: KindPrintable, Rune: r, Raw: string(r)}
}

// Control returns a control key event for r.
func Control(r rune) Event {
	return Event{Kind: KindControl, Rune: r, Raw: string(r)}
}

// Sequence returns an escape sequence event.
func Sequence(name Name, raw string) Event {
	return Event{Kind: KindSequence, Name: name, Raw: raw}
}

// Classify wraps a decoded character as printable or control.
func Classify(r rune) Event {
	if IsPrintable(r) {
		return Printable(r)
	}
	return Control(r)
}

// IsPrintable reports whether r falls outside the Unicode "other" categories.
// Unassigned code points count as control.
func IsPrintable(r rune) bool {
	return unicode.In(r, unicode.L, unicode.M, unicode.N, unicode.P, unicode.S, unicode.Z)
}

// String renders the event as text. Only printable events have a textual form.
func (e Event) String() string {
	if e.Kind == KindPrintable {
		return string(e.Rune)
	}
	return ""
}

// Is reports whether e is the escape sequence n.
func (e Event) Is(n Name) bool {
	return e.Kind == KindSequence && e.Name == n
}

// GoString is used by %#v and test failure messages.
func (e Event) GoString() string {
	switch e.Kind {
	case KindPrintable:
		return fmt.Sprintf("Printable(%q)", e.Rune)
	case KindControl:
		return fmt.Sprintf("Control(%U)", e.Rune)
	default:
		return fmt.Sprintf("Sequence(%s, %q)", e.Name, e.Raw)
	}
}
