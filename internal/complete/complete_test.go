// ABOUTME: Tests for fuzzy candidate ranking and the Tab completion handler.
// ABOUTME: The handler runs inside a real richinput chain over a line buffer.

package complete

import (
	"testing"

	"github.com/mauromedda/richinput/pkg/richinput"
	"github.com/mauromedda/richinput/pkg/richinput/key"
	"github.com/mauromedda/richinput/pkg/richinput/line"
)

func TestFind_BasicMatch(t *testing.T) {
	t.Parallel()

	items := []string{"apple", "application", "banana", "apricot"}
	matches := Find("app", items)

	if len(matches) == 0 {
		t.Fatal("expected matches for 'app'")
	}
	for _, m := range matches {
		if m.Str == "banana" {
			t.Errorf("unexpected match %q", m.Str)
		}
	}
}

func TestFind_NoMatch(t *testing.T) {
	t.Parallel()

	if matches := Find("zzz", []string{"cat", "dog", "fish"}); len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}

func TestFind_EmptyPatternListsAll(t *testing.T) {
	t.Parallel()

	matches := Find("", []string{"b", "a"})
	if len(matches) != 2 || matches[0].Str != "b" || matches[1].Index != 1 {
		t.Errorf("matches = %+v, want both items in order", matches)
	}
}

func feed(t *testing.T, chain *richinput.Chain, ed *richinput.Editor, evs ...key.Event) {
	t.Helper()
	for _, ev := range evs {
		chain.Run(ed, ev)
	}
}

func typed(s string) []key.Event {
	evs := make([]key.Event, 0, len(s))
	for _, r := range s {
		evs = append(evs, key.Classify(r))
	}
	return evs
}

func TestCompleter_Handle(t *testing.T) {
	t.Parallel()

	tab := key.Control('\t')
	tests := []struct {
		name       string
		words      []string
		events     []key.Event
		wantText   string
		wantCursor int
	}{
		{
			name:     "completes word before cursor",
			words:    []string{"banana", "cherry"},
			events:   append(typed("eat chr"), tab),
			wantText: "eat cherry", wantCursor: 10,
		},
		{
			name:     "no match leaves text",
			words:    []string{"banana"},
			events:   append(typed("xyz"), tab),
			wantText: "xyz", wantCursor: 3,
		},
		{
			name:     "empty word cycles all words",
			words:    []string{"one", "two"},
			events:   []key.Event{tab, tab},
			wantText: "two", wantCursor: 3,
		},
		{
			name:     "cycle wraps around",
			words:    []string{"one", "two"},
			events:   []key.Event{tab, tab, tab},
			wantText: "one", wantCursor: 3,
		},
		{
			name:     "typing ends the cycle",
			words:    []string{"one", "two"},
			events:   append([]key.Event{tab, key.Printable(' ')}, tab),
			wantText: "one one", wantCursor: 7,
		},
		{
			name:     "completes in the middle of the line",
			words:    []string{"world"},
			events:   append(typed("hi wd!"), key.Sequence(key.NameArrowLeft, "\x1b[D"), tab),
			wantText: "hi world!", wantCursor: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ed := &richinput.Editor{
				Buffer: line.NewBuffer(line.Geometry{Width: 80}),
				Keymap: richinput.DefaultKeymap(),
			}
			chain := richinput.NewChain(New(tt.words).Handle)
			feed(t, chain, ed, tt.events...)

			if got := ed.Buffer.Text(); got != tt.wantText {
				t.Errorf("text = %q, want %q", got, tt.wantText)
			}
			if got := ed.Buffer.Cursor(); got != tt.wantCursor {
				t.Errorf("cursor = %d, want %d", got, tt.wantCursor)
			}
		})
	}
}
