// ABOUTME: "keys" subcommand: print every recognized key event until Ctrl+C or Ctrl+D
// ABOUTME: Shows the event kind, its binding name, and the raw bytes with ESC as \E

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mauromedda/richinput/pkg/richinput"
	"github.com/mauromedda/richinput/pkg/richinput/key"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Print key events as they are recognized",
	Long: `Puts the terminal in raw mode and prints one line per key event:
printable characters, control keys, and escape sequences resolved through
the terminal's capability table. Press Ctrl+C or Ctrl+D to stop.`,
	Args: cobra.NoArgs,
	RunE: runKeys,
}

func init() {
	rootCmd.AddCommand(keysCmd)
}

func runKeys(cmd *cobra.Command, _ []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	opts := s.options()

	return s.run(cmd.Context(), nil, func(ctx context.Context) error {
		events, err := richinput.GetRichChar(ctx, s.term, s.term,
			"Press keys, Ctrl+C or Ctrl+D to stop.\r\n", s.profile.Name, opts)
		if err != nil {
			return err
		}
		for ev, err := range events {
			if err != nil {
				return s.report(err)
			}
			s.println("%s", describeEvent(ev))
			if ev.Kind == key.KindControl && (ev.Rune == 0x03 || ev.Rune == 0x04) {
				return nil
			}
		}
		s.println("EOF")
		return nil
	})
}

// describeEvent renders one line of the keys listing.
func describeEvent(ev key.Event) string {
	return fmt.Sprintf("%-10s %-14s %s", ev.Kind, ev.Binding(), escapeSeq(ev.Raw))
}
