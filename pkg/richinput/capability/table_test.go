// ABOUTME: Tests for capability maps and builtin tables: lookups, prefixes, conformance, merging.
// ABOUTME: Every builtin table must be conformant so exact matches never shadow longer sequences.

package capability

import (
	"slices"
	"testing"

	"github.com/mauromedda/richinput/pkg/richinput/key"
)

func TestMap_LookupAndPrefix(t *testing.T) {
	t.Parallel()

	m := NewMap("test", map[string]key.Name{
		"\x1b[A":  key.NameArrowUp,
		"\x1b[3~": key.NameDelete,
		"\x1bOP":  key.Function(1),
	})

	tests := []struct {
		seq        string
		wantName   key.Name
		wantFound  bool
		wantPrefix bool
	}{
		{seq: "\x1b", wantPrefix: true},
		{seq: "\x1b[", wantPrefix: true},
		{seq: "\x1b[3", wantPrefix: true},
		{seq: "\x1b[A", wantName: key.NameArrowUp, wantFound: true},
		{seq: "\x1b[3~", wantName: key.NameDelete, wantFound: true},
		{seq: "\x1bOP", wantName: key.Function(1), wantFound: true},
		{seq: "\x1bx"},
		{seq: "\x1b[3~x"},
		{seq: ""},
	}

	for _, tt := range tests {
		t.Run(tt.seq, func(t *testing.T) {
			t.Parallel()
			name, ok := m.Lookup(tt.seq)
			if ok != tt.wantFound || name != tt.wantName {
				t.Errorf("Lookup(%q) = %v, %v; want %v, %v", tt.seq, name, ok, tt.wantName, tt.wantFound)
			}
			if got := m.IsPrefix(tt.seq); got != tt.wantPrefix {
				t.Errorf("IsPrefix(%q) = %v, want %v", tt.seq, got, tt.wantPrefix)
			}
		})
	}
}

func TestMap_NormalizesAndFilters(t *testing.T) {
	t.Parallel()

	m := NewMap("t", map[string]key.Name{
		"\u009bD": key.NameArrowLeft,
		"\x08":    key.NameArrowLeft, // not introducer-led
		"\x1b":    key.NameUnknown,   // too short
	})
	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}
	if name, ok := m.Lookup("\x1b[D"); !ok || name != key.NameArrowLeft {
		t.Errorf("8-bit CSI entry not normalized: %v, %v", name, ok)
	}
}

func TestMap_Conformance(t *testing.T) {
	t.Parallel()

	good := NewMap("good", map[string]key.Name{"\x1b[A": key.NameArrowUp, "\x1b[1;5D": key.NameWordLeft})
	if !good.Conformant() {
		t.Error("expected conformant table")
	}
	bad := NewMap("bad", map[string]key.Name{"\x1b[1": key.NameHome, "\x1b[1~": key.NameHome})
	if bad.Conformant() {
		t.Error("expected non-conformant table")
	}
	if name, ok := bad.Lookup("\x1b[1"); !ok || name != key.NameHome {
		t.Error("shorter sequence must still be found")
	}
}

func TestMap_AllAndWith(t *testing.T) {
	t.Parallel()

	m := NewMap("t", map[string]key.Name{"\x1b[B": key.NameArrowDown, "\x1b[A": key.NameArrowUp})
	var seqs []string
	for seq := range m.All() {
		seqs = append(seqs, seq)
	}
	if !slices.Equal(seqs, []string{"\x1b[A", "\x1b[B"}) {
		t.Errorf("All() order = %q", seqs)
	}

	merged := m.With(map[string]key.Name{"\x1b[A": key.NameHome, "\x1b[H": key.NameHome})
	if name, _ := merged.Lookup("\x1b[A"); name != key.NameArrowUp {
		t.Error("With must not override existing entries")
	}
	if _, ok := merged.Lookup("\x1b[H"); !ok {
		t.Error("With must add new entries")
	}
	if _, ok := m.Lookup("\x1b[H"); ok {
		t.Error("With must not mutate the receiver")
	}
	if got := merged.Sequences(key.NameHome); !slices.Equal(got, []string{"\x1b[H"}) {
		t.Errorf("Sequences(home) = %q", got)
	}
}

func TestBuiltinTables(t *testing.T) {
	t.Parallel()

	for _, name := range BuiltinNames() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			m, ok := Builtin(name)
			if !ok {
				t.Fatalf("Builtin(%q) missing", name)
			}
			if !m.Conformant() {
				t.Errorf("builtin table %s is not conformant", name)
			}
			for _, seq := range []string{"\x1b[A", "\x1b[B", "\x1b[C", "\x1b[D"} {
				if _, ok := m.Lookup(seq); !ok {
					t.Errorf("%s lacks cursor key %q", name, seq)
				}
			}
		})
	}

	if m, ok := Builtin("xterm-256color"); !ok || m.Name() != "xterm-256color" {
		t.Error("alias xterm-256color should resolve to the xterm table")
	}
	if _, ok := Builtin("teletype-33"); ok {
		t.Error("unknown terminal should have no builtin table")
	}
}

func TestBuiltinXtermKeys(t *testing.T) {
	t.Parallel()

	m, _ := Builtin("xterm")
	tests := map[string]key.Name{
		"\x1b[H":    key.NameHome,
		"\x1bOF":    key.NameEnd,
		"\x1b[3~":   key.NameDelete,
		"\x1bOP":    key.Function(1),
		"\x1b[24~":  key.Function(12),
		"\x1b[1;5C": key.NameWordRight,
		"\x1b[Z":    key.NameBackTab,
	}
	for seq, want := range tests {
		if got, ok := m.Lookup(seq); !ok || got != want {
			t.Errorf("Lookup(%q) = %v, %v; want %v", seq, got, ok, want)
		}
	}
}
