// ABOUTME: Keybindings manager: merges config files over the default keymap for the line editor
// ABOUTME: Canonicalizes key strings, detects conflicts and invalid keys, and formats a listing

package keybindings

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/mauromedda/richinput/internal/config"
	pilog "github.com/mauromedda/richinput/internal/log"
	"github.com/mauromedda/richinput/pkg/richinput"
	"github.com/mauromedda/richinput/pkg/richinput/key"
)

// ConflictInfo describes a binding conflict where multiple actions share a key.
type ConflictInfo struct {
	Key     string
	Actions []richinput.Action
}

// Manager resolves keys to editing actions from merged keybindings.
type Manager struct {
	bindings *config.Keybindings
	keymap   richinput.Keymap
	invalid  []error
}

// New creates a Manager from global and local keybinding files.
// Local bindings override global ones per action. Missing files are ignored.
func New(globalPath, localPath string) *Manager {
	m := &Manager{}
	m.Reload(globalPath, localPath)
	return m
}

// NewFromBindings creates a Manager from an existing Keybindings instance.
func NewFromBindings(kb *config.Keybindings) *Manager {
	m := &Manager{bindings: kb}
	m.buildKeymap()
	return m
}

// Reload re-reads keybinding files and rebuilds the keymap.
func (m *Manager) Reload(globalPath, localPath string) {
	kb := config.NewKeybindings()
	for _, path := range []string{globalPath, localPath} {
		if path == "" {
			continue
		}
		override, err := config.LoadKeybindings(path)
		if err != nil {
			pilog.Debug("keybindings %s not loaded: %v", path, err)
			continue
		}
		maps.Copy(kb.Bindings, override.Bindings)
	}
	m.bindings = kb
	m.buildKeymap()
}

// Keymap returns a copy of the resolved keymap.
func (m *Manager) Keymap() richinput.Keymap {
	return m.keymap.Clone()
}

// ActionForEvent returns the action bound to ev, or "" if unbound.
func (m *Manager) ActionForEvent(ev key.Event) richinput.Action {
	a, _ := m.keymap.Lookup(ev)
	return a
}

// Err reports every binding that could not be parsed.
func (m *Manager) Err() error {
	return errors.Join(m.invalid...)
}

// Conflicts detects keys bound to multiple actions. Keys are compared in
// canonical form, so "Enter" and "enter" collide.
func (m *Manager) Conflicts() []ConflictInfo {
	keyActions := make(map[string][]richinput.Action)
	for _, action := range richinput.Actions() {
		for _, k := range m.bindings.GetBindings(action) {
			ev, err := key.ParseBinding(k)
			if err != nil {
				continue
			}
			canon := ev.Binding()
			if !slices.Contains(keyActions[canon], action) {
				keyActions[canon] = append(keyActions[canon], action)
			}
		}
	}

	var conflicts []ConflictInfo
	for _, k := range slices.Sorted(maps.Keys(keyActions)) {
		if actions := keyActions[k]; len(actions) > 1 {
			conflicts = append(conflicts, ConflictInfo{Key: k, Actions: actions})
		}
	}
	return conflicts
}

// FormatAll returns a formatted table of all keybindings.
func (m *Manager) FormatAll() string {
	var b strings.Builder
	b.WriteString("Keybindings:\n\n")

	categories := []struct {
		name    string
		actions []richinput.Action
	}{
		{"Navigation", []richinput.Action{
			richinput.ActionLeft, richinput.ActionRight,
			richinput.ActionHome, richinput.ActionEnd,
			richinput.ActionWordLeft, richinput.ActionWordRight,
		}},
		{"Editing", []richinput.Action{
			richinput.ActionDeleteBack, richinput.ActionDeleteForward,
			richinput.ActionDeleteWordBack, richinput.ActionKillToEnd,
			richinput.ActionKillToStart,
		}},
		{"Control", []richinput.Action{
			richinput.ActionAccept, richinput.ActionEOF, richinput.ActionAbort,
		}},
	}

	for _, cat := range categories {
		fmt.Fprintf(&b, "## %s\n", cat.name)
		for _, action := range cat.actions {
			keys := m.bindings.GetBindings(action)
			if len(keys) == 0 {
				continue
			}
			fmt.Fprintf(&b, "  %-20s %s\n", strings.Join(keys, ", "), action)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// buildKeymap binds actions in Actions() order; on conflict the later action wins.
func (m *Manager) buildKeymap() {
	m.keymap = richinput.Keymap{}
	m.invalid = nil
	for _, action := range richinput.Actions() {
		for _, k := range m.bindings.GetBindings(action) {
			if err := m.keymap.Bind(k, action); err != nil {
				pilog.Warn("keybindings: %v", err)
				m.invalid = append(m.invalid, err)
			}
		}
	}
}
