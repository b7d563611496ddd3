// ABOUTME: Tab completion for the line editor, ranking candidates with sahilm/fuzzy.
// ABOUTME: Repeated Tab presses cycle through the matches for the word before the cursor.

package complete

import (
	"unicode"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"github.com/mauromedda/richinput/pkg/richinput"
	"github.com/mauromedda/richinput/pkg/richinput/key"
)

// Match represents a single fuzzy match result.
type Match struct {
	Str            string
	Index          int
	MatchedIndexes []int
	Score          int
}

// Find performs fuzzy matching of pattern against the given items.
// Returns matches sorted by score (best first). An empty pattern matches
// every item in order.
func Find(pattern string, items []string) []Match {
	if pattern == "" {
		matches := make([]Match, len(items))
		for i, s := range items {
			matches[i] = Match{Str: s, Index: i}
		}
		return matches
	}
	results := fuzzy.Find(pattern, items)
	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{
			Str:            r.Str,
			Index:          r.Index,
			MatchedIndexes: r.MatchedIndexes,
			Score:          r.Score,
		}
	}
	return matches
}

// Completer replaces the word before the cursor with candidate words.
// It keeps cycling state between events, so use one Completer per line editor.
type Completer struct {
	words []string

	matches []Match
	next    int
	// replace is the rune count of the text the next Tab overwrites.
	replace int
}

// New returns a completer over words.
func New(words []string) *Completer {
	return &Completer{words: append([]string(nil), words...)}
}

// Handle is a richinput.Handler. Tab completes; any other key ends the cycle
// and passes through.
func (c *Completer) Handle(ed *richinput.Editor, ev key.Event, next richinput.Next) richinput.Result {
	if ev.Kind != key.KindControl || ev.Rune != '\t' {
		c.matches = nil
		return next(ev)
	}
	if c.matches == nil {
		word := wordBefore(ed.Buffer.Runes(), ed.Buffer.Cursor())
		c.matches = Find(word, c.words)
		c.next = 0
		c.replace = utf8.RuneCountInString(word)
	}
	if len(c.matches) == 0 {
		return richinput.Result{}
	}
	m := c.matches[c.next%len(c.matches)]
	c.next++
	plan := ed.Buffer.ReplaceBefore(c.replace, m.Str)
	c.replace = utf8.RuneCountInString(m.Str)
	return richinput.Result{Plan: plan}
}

func wordBefore(text []rune, cursor int) string {
	i := cursor
	for i > 0 && !unicode.IsSpace(text[i-1]) {
		i--
	}
	return string(text[i:cursor])
}
