// ABOUTME: Environment variable expansion in the string settings
// ABOUTME: ${VAR} takes the variable's value, ${VAR:-fallback} uses fallback when VAR is unset or empty

package config

import (
	"os"
	"regexp"
)

var envVarPattern = regexp.MustCompile(`\$\{(\w+)(?::-([^}]*))?\}`)

// ResolveEnvVars expands ${VAR} patterns in string fields of Settings.
func ResolveEnvVars(s *Settings) {
	for _, field := range []*string{&s.Terminal, &s.Encoding, &s.Mask, &s.ToggleKey, &s.LogLevel} {
		*field = expandEnv(*field)
	}
}

func expandEnv(s string) string {
	if s == "" {
		return s
	}
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		if v := os.Getenv(m[1]); v != "" {
			return v
		}
		return m[2]
	})
}
