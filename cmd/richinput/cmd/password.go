// ABOUTME: "password" subcommand: read a masked password and report it
// ABOUTME: Mask, reveal window and toggle key come from settings, with flags taking precedence

package cmd

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/mauromedda/richinput/pkg/richinput"
)

var passwordFlags struct {
	prompt string
	show   bool
	mask   string
	reveal string
}

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Read a masked password",
	Long: `Reads a password with masking. Each typed character is shown for a
moment before it is masked; the toggle key (F1 unless configured) turns
masking off and on. Prints the length of the password, or the password
itself with --show.`,
	Args: cobra.NoArgs,
	RunE: runPassword,
}

func init() {
	f := passwordCmd.Flags()
	f.StringVar(&passwordFlags.prompt, "prompt", "Password: ", "prompt shown before the input")
	f.BoolVar(&passwordFlags.show, "show", false, "print the password instead of its length")
	f.StringVar(&passwordFlags.mask, "mask", "", "mask character")
	f.StringVar(&passwordFlags.reveal, "reveal", "", "how long a typed character stays visible, e.g. 500ms or off")
	rootCmd.AddCommand(passwordCmd)
}

func runPassword(cmd *cobra.Command, _ []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	if err := applyPasswordFlags(s); err != nil {
		return err
	}
	popts, err := s.settings.PasswordOptions()
	if err != nil {
		return err
	}

	pw := richinput.NewRichPassword(s.term, s.term, s.options(), popts)
	abort, err := richinput.AbortOn("ctrl+c")
	if err != nil {
		return err
	}
	prompt := promptStyle.Render(passwordFlags.prompt)

	return s.run(cmd.Context(), pw.RichLine, func(ctx context.Context) error {
		secret, err := pw.Read(ctx, prompt, abort)
		if err != nil {
			return s.report(err)
		}
		if passwordFlags.show {
			s.println("Password: %s", secret)
		} else {
			s.println("Got %d characters", utf8.RuneCountInString(secret))
		}
		return nil
	})
}

func applyPasswordFlags(s *session) error {
	if passwordFlags.mask != "" {
		s.settings.Mask = passwordFlags.mask
	}
	switch passwordFlags.reveal {
	case "":
	case "off":
		s.settings.Reveal = -1
	default:
		d, err := time.ParseDuration(passwordFlags.reveal)
		if err != nil {
			return fmt.Errorf("--reveal: %w", err)
		}
		s.settings.Reveal = d
	}
	if err := s.settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}
