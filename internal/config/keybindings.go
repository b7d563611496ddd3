// ABOUTME: Keybindings file format: action names mapped to lists of key binding strings
// ABOUTME: Stored as YAML in ~/.richinput/keybindings.yaml and .richinput/keybindings.yaml

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	pilog "github.com/mauromedda/richinput/internal/log"
	"github.com/mauromedda/richinput/pkg/richinput"
)

// Keybindings maps each action to the keys that trigger it.
type Keybindings struct {
	Bindings map[richinput.Action][]string
}

// RawKeybindings is the on-disk form.
type RawKeybindings map[string][]string

// NewKeybindings returns the default bindings.
func NewKeybindings() *Keybindings {
	kb := &Keybindings{Bindings: make(map[richinput.Action][]string)}
	for _, a := range richinput.Actions() {
		kb.Bindings[a] = richinput.DefaultBindings(a)
	}
	return kb
}

// LoadKeybindings reads a keybindings file. Only the actions it names are
// set; unknown actions are logged and skipped.
func LoadKeybindings(path string) (*Keybindings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw RawKeybindings
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	kb := &Keybindings{Bindings: make(map[richinput.Action][]string, len(raw))}
	for name, keys := range raw {
		action := richinput.Action(name)
		if !action.Valid() {
			pilog.Warn("keybindings %s: unknown action %q ignored", path, name)
			continue
		}
		kb.Bindings[action] = keys
	}
	return kb, nil
}

// Save writes the bindings to path.
func (kb *Keybindings) Save(path string) error {
	data, err := kb.marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// GetBindings returns the bindings for an action.
func (kb *Keybindings) GetBindings(action richinput.Action) []string {
	if kb == nil {
		return nil
	}
	return kb.Bindings[action]
}

// ExportTemplate renders the bindings as a YAML document.
func (kb *Keybindings) ExportTemplate() (string, error) {
	data, err := kb.marshal()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (kb *Keybindings) marshal() ([]byte, error) {
	raw := make(RawKeybindings, len(kb.Bindings))
	for action, keys := range kb.Bindings {
		raw[string(action)] = keys
	}
	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding keybindings: %w", err)
	}
	return data, nil
}
