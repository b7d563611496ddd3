// ABOUTME: Converts events to and from the binding strings used in keymap configuration.
// ABOUTME: Examples: "a", "space", "ctrl+a", "enter", "backspace", "escape", "left", "f1".

package key

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

var controlNames = map[rune]string{
	0x00: "ctrl+@",
	0x09: "tab",
	0x0d: "enter",
	0x1b: "escape",
	0x1c: `ctrl+\`,
	0x1d: "ctrl+]",
	0x1e: "ctrl+^",
	0x1f: "ctrl+_",
	0x7f: "backspace",
	0x9b: "csi",
}

var controlByName = func() map[string]rune {
	m := make(map[string]rune, len(controlNames)+26)
	for r, s := range controlNames {
		m[s] = r
	}
	for r := rune(1); r <= 26; r++ {
		if _, ok := controlNames[r]; !ok {
			m["ctrl+"+string('a'+r-1)] = r
		}
	}
	m["esc"] = 0x1b
	m["return"] = 0x0d
	return m
}()

// Binding renders e in keymap form.
func (e Event) Binding() string {
	switch e.Kind {
	case KindPrintable:
		if e.Rune == ' ' {
			return "space"
		}
		return string(e.Rune)
	case KindControl:
		if s, ok := controlNames[e.Rune]; ok {
			return s
		}
		if e.Rune >= 1 && e.Rune <= 26 {
			return "ctrl+" + string('a'+e.Rune-1)
		}
		return fmt.Sprintf("U+%04X", e.Rune)
	default:
		return e.Name.String()
	}
}

// ParseBinding turns a keymap string back into an event template.
// The returned event carries no Raw bytes.
func ParseBinding(s string) (Event, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if norm == "" {
		return Event{}, fmt.Errorf("empty key binding")
	}
	if r, ok := controlByName[norm]; ok {
		return Event{Kind: KindControl, Rune: r}, nil
	}
	if n, ok := ParseName(norm); ok && n != NameUnknown {
		return Event{Kind: KindSequence, Name: n}, nil
	}
	if norm == "space" {
		return Event{Kind: KindPrintable, Rune: ' '}, nil
	}
	// Single characters keep their case: "A" and "a" are distinct bindings.
	if r, size := utf8.DecodeRuneInString(strings.TrimSpace(s)); size == len(strings.TrimSpace(s)) && IsPrintable(r) {
		return Event{Kind: KindPrintable, Rune: r}, nil
	}
	return Event{}, fmt.Errorf("unknown key binding %q", s)
}
