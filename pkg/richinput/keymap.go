// ABOUTME: Keymap binds key strings to editing actions, and DefaultHandler applies them to the buffer.
// ABOUTME: Bindings use the key package's textual form, e.g. "ctrl+a", "left", "backspace".

package richinput

import (
	"fmt"
	"maps"
	"slices"

	"github.com/mauromedda/richinput/pkg/richinput/key"
)

// Action names an editing operation.
type Action string

const (
	ActionLeft           Action = "left"
	ActionRight          Action = "right"
	ActionHome           Action = "home"
	ActionEnd            Action = "end"
	ActionWordLeft       Action = "wordLeft"
	ActionWordRight      Action = "wordRight"
	ActionDeleteBack     Action = "deleteBack"
	ActionDeleteForward  Action = "deleteForward"
	ActionDeleteWordBack Action = "deleteWordBack"
	ActionKillToEnd      Action = "killToEnd"
	ActionKillToStart    Action = "killToStart"
	ActionAccept         Action = "accept"
	ActionEOF            Action = "eof"
	ActionAbort          Action = "abort"
)

var allActions = []Action{
	ActionLeft, ActionRight, ActionHome, ActionEnd, ActionWordLeft, ActionWordRight,
	ActionDeleteBack, ActionDeleteForward, ActionDeleteWordBack, ActionKillToEnd,
	ActionKillToStart, ActionAccept, ActionEOF, ActionAbort,
}

// Actions lists every action in a stable order.
func Actions() []Action { return slices.Clone(allActions) }

// Valid reports whether a is a known action.
func (a Action) Valid() bool { return slices.Contains(allActions, a) }

// Keymap maps canonical binding strings to actions.
type Keymap map[string]Action

// DefaultKeymap returns the standard bindings. Ctrl-C is deliberately unbound.
func DefaultKeymap() Keymap {
	km := Keymap{}
	for a, keys := range defaultBindings {
		for _, k := range keys {
			if err := km.Bind(k, a); err != nil {
				panic(err)
			}
		}
	}
	return km
}

var defaultBindings = map[Action][]string{
	ActionLeft:           {"left", "ctrl+b"},
	ActionRight:          {"right", "ctrl+f"},
	ActionHome:           {"home", "ctrl+a"},
	ActionEnd:            {"end", "ctrl+e"},
	ActionWordLeft:       {"ctrl+left"},
	ActionWordRight:      {"ctrl+right"},
	ActionDeleteBack:     {"backspace", "ctrl+h"},
	ActionDeleteForward:  {"delete"},
	ActionDeleteWordBack: {"ctrl+w"},
	ActionKillToEnd:      {"ctrl+k"},
	ActionKillToStart:    {"ctrl+u"},
	ActionAccept:         {"enter", "ctrl+j"},
	ActionEOF:            {"ctrl+d"},
}

// DefaultBindings returns the default binding strings for a.
func DefaultBindings(a Action) []string {
	return slices.Clone(defaultBindings[a])
}

// Bind maps binding to a, replacing any previous action for it.
func (km Keymap) Bind(binding string, a Action) error {
	if !a.Valid() {
		return fmt.Errorf("binding %q: unknown action %q", binding, a)
	}
	ev, err := key.ParseBinding(binding)
	if err != nil {
		return fmt.Errorf("binding %q: %w", binding, err)
	}
	km[ev.Binding()] = a
	return nil
}

// Unbind removes every binding of a.
func (km Keymap) Unbind(a Action) {
	maps.DeleteFunc(km, func(_ string, v Action) bool { return v == a })
}

// Lookup returns the action bound to ev.
func (km Keymap) Lookup(ev key.Event) (Action, bool) {
	a, ok := km[ev.Binding()]
	return a, ok
}

// Bindings returns the sorted binding strings for a.
func (km Keymap) Bindings(a Action) []string {
	var out []string
	for k, v := range km {
		if v == a {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy.
func (km Keymap) Clone() Keymap { return maps.Clone(km) }

// DefaultHandler applies the keymap action for ev, or inserts printable characters.
// Unbound control keys and sequences are ignored.
func DefaultHandler(ed *Editor, ev key.Event, _ Next) Result {
	if a, ok := ed.Keymap.Lookup(ev); ok {
		return ed.Apply(a)
	}
	if ev.Kind == key.KindPrintable {
		return Result{Plan: ed.Buffer.Insert(ev.Rune)}
	}
	return Result{}
}

// AbortOn returns a handler that aborts the read on any of the given bindings
// and passes everything else on. Invalid bindings are reported immediately.
func AbortOn(bindings ...string) (Handler, error) {
	set := make(map[string]bool, len(bindings))
	for _, b := range bindings {
		ev, err := key.ParseBinding(b)
		if err != nil {
			return nil, fmt.Errorf("abort binding: %w", err)
		}
		set[ev.Binding()] = true
	}
	return func(_ *Editor, ev key.Event, next Next) Result {
		if set[ev.Binding()] {
			return Result{Outcome: Abort}
		}
		return next(ev)
	}, nil
}
