// ABOUTME: Settings loading with global + project config merge
// ABOUTME: YAML files via gopkg.in/yaml.v3; unknown keys are logged and ignored

package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	pilog "github.com/mauromedda/richinput/internal/log"
	"github.com/mauromedda/richinput/pkg/richinput"
	"github.com/mauromedda/richinput/pkg/richinput/decode"
	"github.com/mauromedda/richinput/pkg/richinput/input"
	"github.com/mauromedda/richinput/pkg/richinput/key"
)

// Settings holds the merged configuration.
type Settings struct {
	Terminal            string        `yaml:"terminal,omitempty"`
	Encoding            string        `yaml:"encoding,omitempty"`
	EscapeTimeout       time.Duration `yaml:"escape_timeout,omitempty"`
	PollInterval        time.Duration `yaml:"poll_interval,omitempty"`
	RecognizeUnknownCSI *bool         `yaml:"recognize_unknown_csi,omitempty"`
	Mask                string        `yaml:"mask,omitempty"`
	Reveal              time.Duration `yaml:"reveal,omitempty"`
	ToggleKey           string        `yaml:"toggle_key,omitempty"`
	LogLevel            string        `yaml:"log_level,omitempty"`
}

var knownKeys = []string{
	"terminal", "encoding", "escape_timeout", "poll_interval", "recognize_unknown_csi",
	"mask", "reveal", "toggle_key", "log_level",
}

// Load reads and merges global and project-local settings.
// Project settings override global settings.
func Load(projectRoot string) (*Settings, error) {
	return LoadFiles(GlobalConfigFile(), ProjectConfigFile(projectRoot))
}

// LoadFiles merges the settings files in order; later files win. Missing
// files are skipped.
func LoadFiles(paths ...string) (*Settings, error) {
	merged := &Settings{}
	for _, path := range paths {
		s, err := loadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		merged = merge(merged, s)
	}
	ResolveEnvVars(merged)
	return merged, nil
}

// loadFile reads Settings from a YAML file.
func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Settings{}, err
	}
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for k := range raw {
		if !slices.Contains(knownKeys, k) {
			pilog.Warn("config %s: unknown key %q ignored", path, k)
		}
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// merge overlays project settings onto global settings.
// Non-zero project values override global values.
func merge(global, project *Settings) *Settings {
	if global == nil {
		global = &Settings{}
	}
	if project == nil {
		return global
	}

	result := *global
	if project.Terminal != "" {
		result.Terminal = project.Terminal
	}
	if project.Encoding != "" {
		result.Encoding = project.Encoding
	}
	if project.EscapeTimeout != 0 {
		result.EscapeTimeout = project.EscapeTimeout
	}
	if project.PollInterval != 0 {
		result.PollInterval = project.PollInterval
	}
	if project.RecognizeUnknownCSI != nil {
		v := *project.RecognizeUnknownCSI
		result.RecognizeUnknownCSI = &v
	}
	if project.Mask != "" {
		result.Mask = project.Mask
	}
	if project.Reveal != 0 {
		result.Reveal = project.Reveal
	}
	if project.ToggleKey != "" {
		result.ToggleKey = project.ToggleKey
	}
	if project.LogLevel != "" {
		result.LogLevel = project.LogLevel
	}
	return &result
}

// Validate reports the first setting that cannot be applied.
func (s *Settings) Validate() error {
	if s.EscapeTimeout < 0 {
		return fmt.Errorf("escape_timeout must not be negative, got %v", s.EscapeTimeout)
	}
	if s.PollInterval < 0 {
		return fmt.Errorf("poll_interval must not be negative, got %v", s.PollInterval)
	}
	if s.Mask != "" && utf8.RuneCountInString(s.Mask) != 1 {
		return fmt.Errorf("mask must be a single character, got %q", s.Mask)
	}
	if _, err := decode.Lookup(s.Encoding); err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	if _, err := s.toggle(); err != nil {
		return err
	}
	if _, err := pilog.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// InputOptions returns the recognizer settings.
func (s *Settings) InputOptions() input.Options {
	opts := input.Options{Timeout: s.EscapeTimeout, PollInterval: s.PollInterval}
	if s.RecognizeUnknownCSI != nil {
		opts.RecognizeUnknownCSI = *s.RecognizeUnknownCSI
	}
	return opts
}

// PasswordOptions returns the masking settings.
func (s *Settings) PasswordOptions() (richinput.PasswordOptions, error) {
	var popts richinput.PasswordOptions
	if s.Mask != "" {
		r, _ := utf8.DecodeRuneInString(s.Mask)
		popts.Mask = r
	}
	popts.Reveal = s.Reveal
	toggle, err := s.toggle()
	if err != nil {
		return popts, err
	}
	popts.Toggle = toggle
	return popts, nil
}

func (s *Settings) toggle() (key.Name, error) {
	if s.ToggleKey == "" {
		return key.NameUnknown, nil
	}
	ev, err := key.ParseBinding(s.ToggleKey)
	if err != nil {
		return key.NameUnknown, fmt.Errorf("toggle_key: %w", err)
	}
	if ev.Kind != key.KindSequence {
		return key.NameUnknown, fmt.Errorf("toggle_key: %q is not a special key", s.ToggleKey)
	}
	return ev.Name, nil
}
