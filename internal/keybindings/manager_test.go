// ABOUTME: Tests for keybindings manager
// ABOUTME: Validates event lookup, conflict detection, file merge, reload, and format

package keybindings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mauromedda/richinput/internal/config"
	"github.com/mauromedda/richinput/pkg/richinput"
	"github.com/mauromedda/richinput/pkg/richinput/key"
)

func writeYAML(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestManager_DefaultBindings(t *testing.T) {
	t.Parallel()
	m := NewFromBindings(config.NewKeybindings())

	tests := []struct {
		event  key.Event
		action richinput.Action
	}{
		{key.Sequence(key.NameArrowLeft, "\x1b[D"), richinput.ActionLeft},
		{key.Control(0x01), richinput.ActionHome},
		{key.Control(0x7f), richinput.ActionDeleteBack},
		{key.Control('\r'), richinput.ActionAccept},
		{key.Control(0x04), richinput.ActionEOF},
		{key.Sequence(key.NameWordRight, "\x1b[1;5C"), richinput.ActionWordRight},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			t.Parallel()
			if got := m.ActionForEvent(tt.event); got != tt.action {
				t.Errorf("ActionForEvent(%#v) = %q; want %q", tt.event, got, tt.action)
			}
		})
	}
	if err := m.Err(); err != nil {
		t.Errorf("default bindings invalid: %v", err)
	}
	if len(m.Conflicts()) != 0 {
		t.Errorf("default bindings conflict: %+v", m.Conflicts())
	}
}

func TestManager_UnboundKey(t *testing.T) {
	t.Parallel()
	m := NewFromBindings(config.NewKeybindings())

	if action := m.ActionForEvent(key.Control(0x03)); action != "" {
		t.Errorf("expected empty action for ctrl+c, got %q", action)
	}
}

func TestManager_Conflicts(t *testing.T) {
	t.Parallel()

	kb := config.NewKeybindings()
	kb.Bindings[richinput.ActionAbort] = []string{"Ctrl+A", "escape"}
	m := NewFromBindings(kb)

	conflicts := m.Conflicts()
	if len(conflicts) != 1 {
		t.Fatalf("conflicts = %+v, want one", conflicts)
	}
	c := conflicts[0]
	if c.Key != "ctrl+a" || len(c.Actions) != 2 || c.Actions[0] != richinput.ActionHome || c.Actions[1] != richinput.ActionAbort {
		t.Errorf("conflict = %+v", c)
	}
	// Later actions win in the keymap.
	if got := m.ActionForEvent(key.Control(0x01)); got != richinput.ActionAbort {
		t.Errorf("ctrl+a resolves to %q", got)
	}
}

func TestManager_FilesMergeAndReload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	global := filepath.Join(dir, "global.yaml")
	local := filepath.Join(dir, "local.yaml")
	writeYAML(t, global, "abort: [ctrl+c]\naccept: [enter]\n")
	writeYAML(t, local, "abort: [escape]\n")

	m := New(global, local)
	if got := m.ActionForEvent(key.Control(0x1b)); got != richinput.ActionAbort {
		t.Errorf("escape = %q, want abort from local file", got)
	}
	if got := m.ActionForEvent(key.Control(0x03)); got != "" {
		t.Errorf("ctrl+c = %q, local file should replace global abort keys", got)
	}
	if got := m.ActionForEvent(key.Control('\n')); got != "" {
		t.Errorf("ctrl+j = %q, global accept list should replace the default", got)
	}

	writeYAML(t, local, "killToEnd: [ctrl+x]\n")
	m.Reload(global, local)
	if got := m.ActionForEvent(key.Control(0x18)); got != richinput.ActionKillToEnd {
		t.Errorf("ctrl+x after reload = %q", got)
	}
	if got := m.ActionForEvent(key.Control(0x03)); got != richinput.ActionAbort {
		t.Errorf("ctrl+c after reload = %q", got)
	}

	missing := New(filepath.Join(dir, "nope.yaml"), "")
	if got := missing.ActionForEvent(key.Control('\r')); got != richinput.ActionAccept {
		t.Errorf("defaults lost with missing files: %q", got)
	}
}

func TestManager_InvalidKeys(t *testing.T) {
	t.Parallel()

	kb := config.NewKeybindings()
	kb.Bindings[richinput.ActionAbort] = []string{"hyper+z", "ctrl+c"}
	m := NewFromBindings(kb)

	if err := m.Err(); err == nil || !strings.Contains(err.Error(), "hyper+z") {
		t.Errorf("Err() = %v", err)
	}
	if got := m.ActionForEvent(key.Control(0x03)); got != richinput.ActionAbort {
		t.Errorf("valid key dropped alongside invalid one: %q", got)
	}
}

func TestManager_KeymapIsCopy(t *testing.T) {
	t.Parallel()

	m := NewFromBindings(config.NewKeybindings())
	km := m.Keymap()
	km.Unbind(richinput.ActionAccept)
	if got := m.ActionForEvent(key.Control('\r')); got != richinput.ActionAccept {
		t.Errorf("mutating Keymap() changed the manager: %q", got)
	}
}

func TestManager_FormatAll(t *testing.T) {
	t.Parallel()
	m := NewFromBindings(config.NewKeybindings())

	out := m.FormatAll()
	for _, want := range []string{"## Navigation", "## Editing", "## Control", "left, ctrl+b", "killToEnd"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatAll missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, " abort\n") {
		t.Error("unbound abort action should be omitted")
	}
}
