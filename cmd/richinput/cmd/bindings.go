// ABOUTME: "bindings" subcommand: list the effective keymap, report conflicts, export a template
// ABOUTME: Reads the same global and project keybinding files the editor uses

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mauromedda/richinput/internal/config"
	"github.com/mauromedda/richinput/internal/keybindings"
)

var bindingsTemplate bool

var bindingsCmd = &cobra.Command{
	Use:   "bindings",
	Short: "List the editing keybindings",
	Long: `Lists every editing action with its keys after merging
~/.richinput/keybindings.yaml and .richinput/keybindings.yaml over the
defaults. Keys bound to more than one action are reported; the action
listed last wins. With --template, prints the defaults as YAML instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := cmd.OutOrStdout()
		if bindingsTemplate {
			tmpl, err := config.NewKeybindings().ExportTemplate()
			if err != nil {
				return err
			}
			fmt.Fprint(w, tmpl)
			return nil
		}

		root, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		m := keybindings.New(config.GlobalKeybindingsFile(), config.ProjectKeybindingsFile(root))
		fmt.Fprint(w, m.FormatAll())

		if conflicts := m.Conflicts(); len(conflicts) > 0 {
			fmt.Fprintln(w, "Conflicts:")
			for _, c := range conflicts {
				names := make([]string, len(c.Actions))
				for i, a := range c.Actions {
					names[i] = string(a)
				}
				fmt.Fprintf(w, "  %-14s %s\n", c.Key, strings.Join(names, ", "))
			}
		}
		if err := m.Err(); err != nil {
			fmt.Fprintf(w, "Invalid keys:\n  %s\n", strings.ReplaceAll(err.Error(), "\n", "\n  "))
		}
		return nil
	},
}

func init() {
	bindingsCmd.Flags().BoolVar(&bindingsTemplate, "template", false, "print the default bindings as YAML")
	rootCmd.AddCommand(bindingsCmd)
}
