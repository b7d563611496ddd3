// ABOUTME: Capability tables mapping escape sequences to semantic key names.
// ABOUTME: Map precomputes strict prefixes so the recognizer can decide "wait" vs "degrade" in O(1).

package capability

import (
	"iter"
	"maps"
	"slices"
	"strings"

	pilog "github.com/mauromedda/richinput/internal/log"
	"github.com/mauromedda/richinput/pkg/richinput/key"
)

const (
	csi8   = "\u009b"
	csi7   = "\x1b["
	escRun = '\x1b'
)

// Table answers the two questions the recognizer asks about a pending sequence.
type Table interface {
	// Lookup reports the key named by an exact sequence.
	Lookup(seq string) (key.Name, bool)
	// IsPrefix reports whether seq is a strict prefix of some sequence in the table.
	IsPrefix(seq string) bool
}

// Map is an immutable Table built from a sequence-to-name mapping.
type Map struct {
	name       string
	seqs       map[string]key.Name
	prefixes   map[string]struct{}
	conformant bool
}

// NewMap builds a table. Sequences must start with ESC; a leading 8-bit CSI is
// rewritten to ESC [ so both forms of the introducer share one entry.
// Entries that cannot be introduced are dropped.
func NewMap(name string, seqs map[string]key.Name) *Map {
	m := &Map{
		name:       name,
		seqs:       make(map[string]key.Name, len(seqs)),
		prefixes:   make(map[string]struct{}),
		conformant: true,
	}
	for seq, n := range seqs {
		seq = Normalize(seq)
		if len(seq) < 2 || seq[0] != escRun {
			pilog.Debug("capability table %s: ignoring sequence %q", name, seq)
			continue
		}
		m.seqs[seq] = n
	}
	for seq := range m.seqs {
		for i := range seq {
			if i > 0 {
				m.prefixes[seq[:i]] = struct{}{}
			}
		}
	}
	for seq := range m.seqs {
		if _, ok := m.prefixes[seq]; ok {
			m.conformant = false
			pilog.Warn("capability table %s: %q is a prefix of a longer sequence; shortest match wins", name, seq)
		}
	}
	return m
}

// Normalize rewrites an 8-bit CSI introducer to its 7-bit form.
func Normalize(seq string) string {
	if rest, ok := strings.CutPrefix(seq, csi8); ok {
		return csi7 + rest
	}
	return seq
}

// Name returns the terminal name the table was built for.
func (m *Map) Name() string { return m.name }

// Len returns the number of sequences.
func (m *Map) Len() int { return len(m.seqs) }

// Conformant reports whether no sequence is a strict prefix of another.
func (m *Map) Conformant() bool { return m.conformant }

// Lookup implements Table.
func (m *Map) Lookup(seq string) (key.Name, bool) {
	n, ok := m.seqs[seq]
	return n, ok
}

// IsPrefix implements Table.
func (m *Map) IsPrefix(seq string) bool {
	_, ok := m.prefixes[seq]
	return ok
}

// All yields every sequence in lexical order.
func (m *Map) All() iter.Seq2[string, key.Name] {
	return func(yield func(string, key.Name) bool) {
		for _, seq := range slices.Sorted(maps.Keys(m.seqs)) {
			if !yield(seq, m.seqs[seq]) {
				return
			}
		}
	}
}

// Sequences returns every sequence bound to n, in lexical order.
func (m *Map) Sequences(n key.Name) []string {
	var out []string
	for seq, name := range m.All() {
		if name == n {
			out = append(out, seq)
		}
	}
	return out
}

// With returns a copy of m with extra sequences added. Existing entries win.
func (m *Map) With(extra map[string]key.Name) *Map {
	merged := maps.Clone(extra)
	if merged == nil {
		merged = make(map[string]key.Name, len(m.seqs))
	}
	maps.Copy(merged, m.seqs)
	return NewMap(m.name, merged)
}
