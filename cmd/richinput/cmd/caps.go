// ABOUTME: "caps" subcommand: dump the key sequences and output capabilities of the terminal profile
// ABOUTME: Sequences are printed terminfo-style, with ESC as \E and control bytes as ^X

package cmd

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mauromedda/richinput/pkg/richinput/capability"
	"github.com/mauromedda/richinput/pkg/richinput/key"
)

var capsCmd = &cobra.Command{
	Use:   "caps",
	Short: "Dump the terminal's key sequences",
	Long: `Resolves the terminal type (--terminal or $TERM) through terminfo, falling
back to the builtin tables, and lists every key sequence it defines along
with the cursor movement and clearing sequences used for redraws.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings, _, err := loadSettings()
		if err != nil {
			return err
		}
		p, err := capability.Resolve(settings.Terminal, capability.DefaultFallback)
		if err != nil {
			return fmt.Errorf("resolving terminal: %w", err)
		}
		writeCaps(cmd.OutOrStdout(), p)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(capsCmd)
}

func writeCaps(w io.Writer, p *capability.Profile) {
	fmt.Fprintf(w, "Terminal: %s (%s)\n", p.Name, p.Source)
	if !p.Keys.Conformant() {
		fmt.Fprintln(w, "Note: some sequences are prefixes of longer ones; the shorter key always wins.")
	}

	type entry struct {
		name key.Name
		seq  string
	}
	var entries []entry
	for seq, name := range p.Keys.All() {
		entries = append(entries, entry{name, seq})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		return cmp.Or(cmp.Compare(a.name.String(), b.name.String()), cmp.Compare(a.seq, b.seq))
	})

	fmt.Fprintf(w, "\n=== Keys (%d) ===\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(w, "  %-14s %s\n", e.name, escapeSeq(e.seq))
	}

	fmt.Fprintln(w, "\n=== Output ===")
	out := p.Output
	for _, c := range []struct{ name, seq string }{
		{"cursor_up", out.CursorUp(1)},
		{"cursor_down", out.CursorDown(1)},
		{"cursor_left", out.CursorLeft(1)},
		{"cursor_right", out.CursorRight(1)},
		{"clr_eol", out.ClearToEOL()},
		{"clr_eos", out.ClearToEOS()},
		{"newline", out.Newline()},
	} {
		fmt.Fprintf(w, "  %-14s %s\n", c.name, escapeSeq(c.seq))
	}
}

// escapeSeq renders control bytes visibly: ESC as \E, DEL as ^?, others as ^X.
func escapeSeq(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == 0x1b:
			b.WriteString(`\E`)
		case r == 0x7f:
			b.WriteString("^?")
		case r < 0x20:
			b.WriteByte('^')
			b.WriteRune(r + '@')
		case r >= 0x80 && r < 0xa0:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
