// ABOUTME: Human-readable rendering of effective configuration
// ABOUTME: Used by the "config" CLI subcommand to show merged settings and their defaults

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mauromedda/richinput/pkg/richinput"
	"github.com/mauromedda/richinput/pkg/richinput/input"
)

// Explain renders the effective settings, filling unset values with the
// defaults the library applies.
func Explain(s *Settings) string {
	if s == nil {
		s = &Settings{}
	}

	var b strings.Builder
	row := func(name, value string, set bool) {
		origin := "default"
		if set {
			origin = "config"
		}
		fmt.Fprintf(&b, "  %-22s %-12s (%s)\n", name+":", value, origin)
	}
	orDefault := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	dur := func(v, def time.Duration) string {
		if v == 0 {
			return def.String()
		}
		return v.String()
	}

	b.WriteString("=== Input ===\n")
	row("Terminal", orDefault(s.Terminal, "$TERM"), s.Terminal != "")
	row("Encoding", orDefault(s.Encoding, "locale"), s.Encoding != "")
	row("EscapeTimeout", dur(s.EscapeTimeout, input.DefaultTimeout), s.EscapeTimeout != 0)
	row("PollInterval", dur(s.PollInterval, input.DefaultPollInterval), s.PollInterval != 0)
	unknown := s.RecognizeUnknownCSI != nil && *s.RecognizeUnknownCSI
	row("RecognizeUnknownCSI", fmt.Sprint(unknown), s.RecognizeUnknownCSI != nil)
	b.WriteString("\n")

	b.WriteString("=== Password ===\n")
	row("Mask", orDefault(s.Mask, string(richinput.DefaultMask)), s.Mask != "")
	reveal := dur(s.Reveal, richinput.DefaultReveal)
	if s.Reveal < 0 {
		reveal = "off"
	}
	row("Reveal", reveal, s.Reveal != 0)
	row("ToggleKey", orDefault(s.ToggleKey, "f1"), s.ToggleKey != "")
	b.WriteString("\n")

	b.WriteString("=== Logging ===\n")
	row("LogLevel", orDefault(s.LogLevel, "warn"), s.LogLevel != "")

	return b.String()
}
