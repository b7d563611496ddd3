// ABOUTME: Tests for the keymap: default bindings, rebinding, unbinding, and the abort handler.
// ABOUTME: Verifies the default handler applies actions and ignores unbound control keys.

package richinput

import (
	"slices"
	"testing"

	"github.com/mauromedda/richinput/pkg/richinput/key"
)

func TestDefaultKeymap_Lookup(t *testing.T) {
	t.Parallel()

	km := DefaultKeymap()
	tests := []struct {
		name  string
		event key.Event
		want  Action
		found bool
	}{
		{name: "left arrow", event: key.Sequence(key.NameArrowLeft, "\x1b[D"), want: ActionLeft, found: true},
		{name: "ctrl+b", event: key.Control(0x02), want: ActionLeft, found: true},
		{name: "backspace", event: key.Control(0x7f), want: ActionDeleteBack, found: true},
		{name: "ctrl+h", event: key.Control(0x08), want: ActionDeleteBack, found: true},
		{name: "enter", event: key.Control('\r'), want: ActionAccept, found: true},
		{name: "line feed", event: key.Control('\n'), want: ActionAccept, found: true},
		{name: "ctrl+d", event: key.Control(0x04), want: ActionEOF, found: true},
		{name: "ctrl+left", event: key.Sequence(key.NameWordLeft, "\x1b[1;5D"), want: ActionWordLeft, found: true},
		{name: "ctrl+c unbound", event: key.Control(0x03)},
		{name: "escape unbound", event: key.Control(0x1b)},
		{name: "printable unbound", event: key.Printable('a')},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := km.Lookup(tt.event)
			if ok != tt.found || got != tt.want {
				t.Errorf("Lookup(%#v) = %q, %v; want %q, %v", tt.event, got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestKeymap_BindAndUnbind(t *testing.T) {
	t.Parallel()

	km := DefaultKeymap().Clone()
	if err := km.Bind("CTRL+C", ActionAbort); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if a, _ := km.Lookup(key.Control(0x03)); a != ActionAbort {
		t.Errorf("ctrl+c bound to %q", a)
	}
	if err := km.Bind("ctrl+c", "explode"); err == nil {
		t.Error("expected error for unknown action")
	}
	if err := km.Bind("hyper+q", ActionAbort); err == nil {
		t.Error("expected error for unknown key")
	}

	km.Unbind(ActionLeft)
	if got := km.Bindings(ActionLeft); len(got) != 0 {
		t.Errorf("left still bound to %v", got)
	}
	if got := DefaultKeymap().Bindings(ActionLeft); !slices.Equal(got, []string{"ctrl+b", "left"}) {
		t.Errorf("default left bindings = %v", got)
	}
}

func TestActions_AllValid(t *testing.T) {
	t.Parallel()

	for _, a := range Actions() {
		if !a.Valid() {
			t.Errorf("%q not valid", a)
		}
	}
	if Action("nope").Valid() {
		t.Error("unknown action reported valid")
	}
	for a, keys := range defaultBindings {
		if !slices.Equal(DefaultBindings(a), keys) {
			t.Errorf("DefaultBindings(%q) = %v", a, DefaultBindings(a))
		}
	}
}

func TestDefaultHandler_IgnoresUnboundControls(t *testing.T) {
	t.Parallel()

	ed := newTestEditor()
	for _, ev := range []key.Event{key.Control(0x03), key.Control(0x1b), key.Sequence(key.Function(5), "\x1b[15~")} {
		res := DefaultHandler(ed, ev, nil)
		if len(res.Plan) != 0 || res.Outcome != Continue {
			t.Errorf("%#v produced %v", ev, res)
		}
	}
	if ed.Buffer.Len() != 0 {
		t.Errorf("buffer changed: %q", ed.Buffer.Text())
	}
}

func TestAbortOn(t *testing.T) {
	t.Parallel()

	h, err := AbortOn("ctrl+c", "escape")
	if err != nil {
		t.Fatalf("AbortOn: %v", err)
	}
	ed := newTestEditor()
	c := NewChain(h)
	if res := c.Run(ed, key.Control(0x03)); res.Outcome != Abort {
		t.Errorf("ctrl+c outcome = %v", res.Outcome)
	}
	if res := c.Run(ed, key.Printable('a')); res.Outcome != Continue || ed.Buffer.Text() != "a" {
		t.Errorf("printable passed through wrongly: %v %q", res.Outcome, ed.Buffer.Text())
	}
	if _, err := AbortOn("bogus-key"); err == nil {
		t.Error("expected error for invalid binding")
	}
}
