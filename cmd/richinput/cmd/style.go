// ABOUTME: Lipgloss styles for prompts and the colouring layer of the line demo
// ABOUTME: Colour is chosen per character so redraws repaint each character the same way

package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/richinput/pkg/richinput"
	"github.com/mauromedda/richinput/pkg/richinput/key"
	"github.com/mauromedda/richinput/pkg/richinput/line"
)

func init() {
	// Keeps lipgloss from querying the background colour with OSC 11, whose
	// reply would arrive as keyboard input.
	lipgloss.SetHasDarkBackground(true)
}

var promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

var palette = func() []lipgloss.Style {
	styles := make([]lipgloss.Style, 0, 6)
	for _, c := range []string{"1", "2", "3", "4", "5", "6"} {
		styles = append(styles, lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c)))
	}
	return styles
}()

// colorize paints every rune of s.
func colorize(s string) string {
	var b strings.Builder
	for _, r := range s {
		b.WriteString(palette[int(r)%len(palette)].Render(string(r)))
	}
	return b.String()
}

// colorLayer paints the text the inner layers write.
func colorLayer(_ *richinput.Editor, ev key.Event, next richinput.Next) richinput.Result {
	res := next(ev)
	if res.Plan.Count(line.OpWrite) == 0 {
		return res
	}
	plan := make(line.Plan, len(res.Plan))
	for i, op := range res.Plan {
		if op.Kind == line.OpWrite {
			op.Text = colorize(op.Text)
		}
		plan[i] = op
	}
	res.Plan = plan
	return res
}
