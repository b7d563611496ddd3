// ABOUTME: "config" subcommand: show the effective settings after merging files, flags and environment
// ABOUTME: Also prints where the settings and keybinding files are looked up

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mauromedda/richinput/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings, root, err := loadSettings()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprint(w, config.Explain(settings))
		fmt.Fprintln(w, "\n=== Files ===")
		for _, path := range []string{
			config.GlobalConfigFile(),
			config.ProjectConfigFile(root),
			config.GlobalKeybindingsFile(),
			config.ProjectKeybindingsFile(root),
		} {
			fmt.Fprintf(w, "  %s\n", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
