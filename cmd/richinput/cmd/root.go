// ABOUTME: Root cobra command with persistent flags shared by every subcommand
// ABOUTME: Flags and RICHINPUT_* environment variables are layered over the YAML settings through viper

package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "richinput",
	Short: "Rich line input for terminals",
	Long: `richinput reads keys from a raw terminal without blocking, recognizes
escape sequences through the terminal's capability table, and edits a line
in place with minimal redraws.

The subcommands are small demos and diagnostics:
  line      edit lines, optionally upper-cased, coloured or with Tab completion
  password  read a masked password with a short reveal of each typed character
  keys      print every key event as it is recognized
  caps      dump the key sequences known for the terminal
  bindings  list the editing keymap
  config    show the effective settings`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("terminal", "", "terminal type for key sequences (default is $TERM)")
	pf.String("encoding", "", "input charset, e.g. UTF-8 or ISO-8859-1 (default from locale)")
	pf.Duration("escape-timeout", 0, "how long to wait for the rest of an escape sequence (default 50ms)")
	pf.Bool("unknown-csi", false, "report unlisted CSI sequences as one unknown key")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.Bool("verbose", false, "verbose output (same as --log-level debug)")

	for flag, key := range map[string]string{
		"terminal":       "terminal",
		"encoding":       "encoding",
		"escape-timeout": "escape_timeout",
		"unknown-csi":    "recognize_unknown_csi",
		"log-level":      "log_level",
		"verbose":        "verbose",
	} {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}
}

// initConfig reads ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("RICHINPUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
