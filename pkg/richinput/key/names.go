// ABOUTME: Semantic key names reported for recognized escape sequences.
// ABOUTME: Cursor and editing keys plus function keys F1 through F63.

package key

import (
	"strconv"
	"strings"
)

// Name identifies a recognized escape sequence independent of its byte encoding.
type Name int

const (
	NameUnknown Name = iota // Well-formed sequence with no table entry
	NameArrowLeft
	NameArrowRight
	NameArrowUp
	NameArrowDown
	NameHome
	NameEnd
	NameDelete
	NameInsert
	NamePageUp
	NamePageDown
	NameBackTab
	NameWordLeft
	NameWordRight

	nameF1 // first function key; F2..F63 follow
)

// MaxFunction is the highest function key number with a Name.
const MaxFunction = 63

var names = map[Name]string{
	NameUnknown:    "unknown",
	NameArrowLeft:  "left",
	NameArrowRight: "right",
	NameArrowUp:    "up",
	NameArrowDown:  "down",
	NameHome:       "home",
	NameEnd:        "end",
	NameDelete:     "delete",
	NameInsert:     "insert",
	NamePageUp:     "pgup",
	NamePageDown:   "pgdown",
	NameBackTab:    "backtab",
	NameWordLeft:   "ctrl+left",
	NameWordRight:  "ctrl+right",
}

var byString = func() map[string]Name {
	m := make(map[string]Name, len(names))
	for n, s := range names {
		m[s] = n
	}
	return m
}()

// Function returns the name of function key Fn, or NameUnknown when n is out of range.
func Function(n int) Name {
	if n < 1 || n > MaxFunction {
		return NameUnknown
	}
	return nameF1 + Name(n-1)
}

// FunctionNumber returns n for Fn.
func (n Name) FunctionNumber() (int, bool) {
	if n < nameF1 || n > nameF1+MaxFunction-1 {
		return 0, false
	}
	return int(n-nameF1) + 1, true
}

func (n Name) String() string {
	if f, ok := n.FunctionNumber(); ok {
		return "f" + strconv.Itoa(f)
	}
	if s, ok := names[n]; ok {
		return s
	}
	return "name(" + strconv.Itoa(int(n)) + ")"
}

// ParseName is the inverse of String.
func ParseName(s string) (Name, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, ok := byString[s]; ok {
		return n, true
	}
	if rest, ok := strings.CutPrefix(s, "f"); ok {
		if f, err := strconv.Atoi(rest); err == nil {
			if n := Function(f); n != NameUnknown {
				return n, true
			}
		}
	}
	return NameUnknown, false
}
