// ABOUTME: "line" subcommand: edit lines with optional upper-casing, colouring and Tab completion
// ABOUTME: Each extra behaviour is a handler layered around the default editing keymap

package cmd

import (
	"context"
	"errors"
	"io"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/mauromedda/richinput/internal/complete"
	"github.com/mauromedda/richinput/pkg/richinput"
	"github.com/mauromedda/richinput/pkg/richinput/key"
)

var lineFlags struct {
	prompt   string
	repeat   int
	upper    bool
	color    bool
	complete []string
}

var lineCmd = &cobra.Command{
	Use:   "line",
	Short: "Edit and echo lines",
	Long: `Reads lines with the rich line editor and echoes each one back.

Ctrl+C aborts, Ctrl+D on input ends the session. With --complete, Tab
replaces the word before the cursor with the best fuzzy match from the
given words; pressing Tab again cycles through the other matches.`,
	Args: cobra.NoArgs,
	RunE: runLine,
}

func init() {
	f := lineCmd.Flags()
	f.StringVar(&lineFlags.prompt, "prompt", "> ", "prompt shown before the line")
	f.IntVar(&lineFlags.repeat, "repeat", 1, "number of lines to read; 0 reads until EOF")
	f.BoolVar(&lineFlags.upper, "upper", false, "upper-case typed characters")
	f.BoolVar(&lineFlags.color, "color", false, "paint each typed character")
	f.StringSliceVar(&lineFlags.complete, "complete", nil, "words offered by Tab completion")
	rootCmd.AddCommand(lineCmd)
}

func runLine(cmd *cobra.Command, _ []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	handlers, err := lineHandlers()
	if err != nil {
		return err
	}
	rl := richinput.NewRichLine(s.term, s.term, s.options())
	prompt := promptStyle.Render(lineFlags.prompt)

	return s.run(cmd.Context(), rl, func(ctx context.Context) error {
		for i := 0; lineFlags.repeat <= 0 || i < lineFlags.repeat; i++ {
			text, err := rl.Read(ctx, prompt, handlers...)
			if err != nil {
				if errors.Is(err, io.EOF) && text != "" {
					s.println("You wrote: %s", text)
				}
				return s.report(err)
			}
			s.println("You wrote: %s", text)
		}
		return nil
	})
}

// lineHandlers builds the layers selected by flags, innermost first.
func lineHandlers() ([]richinput.Handler, error) {
	var handlers []richinput.Handler
	if len(lineFlags.complete) > 0 {
		handlers = append(handlers, complete.New(lineFlags.complete).Handle)
	}
	if lineFlags.upper {
		handlers = append(handlers, upperLayer)
	}
	if lineFlags.color {
		handlers = append(handlers, colorLayer)
	}
	abort, err := richinput.AbortOn("ctrl+c")
	if err != nil {
		return nil, err
	}
	return append(handlers, abort), nil
}

// upperLayer substitutes the upper-case form of printable characters.
func upperLayer(_ *richinput.Editor, ev key.Event, next richinput.Next) richinput.Result {
	if ev.Kind == key.KindPrintable {
		return next(key.Printable(unicode.ToUpper(ev.Rune)))
	}
	return next(ev)
}
