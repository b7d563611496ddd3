// ABOUTME: Display width of runes and strings for cursor placement on a wrapped terminal line.
// ABOUTME: Grapheme-aware string width with ANSI stripping, cached for non-ASCII prompts.

package width

import (
	"sync"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const cacheSize = 256

var (
	cacheMu sync.Mutex
	cache   = make(map[string]int, cacheSize)
)

// RuneWidth returns how many terminal cells r occupies: 0 for control and
// combining characters, 2 for East Asian wide characters, 1 otherwise.
func RuneWidth(r rune) int {
	if r < 0x20 || r == 0x7f {
		return 0
	}
	if r < 0x7f {
		return 1
	}
	return runewidth.RuneWidth(r)
}

// String returns the display width of s. ANSI escape sequences count as zero.
func String(s string) int {
	if s == "" {
		return 0
	}
	if isPlainASCII(s) {
		return len(s)
	}

	cacheMu.Lock()
	w, ok := cache[s]
	cacheMu.Unlock()
	if ok {
		return w
	}

	w = computeWidth(s)

	cacheMu.Lock()
	if len(cache) >= cacheSize {
		clear(cache)
	}
	cache[s] = w
	cacheMu.Unlock()
	return w
}

// Runes sums RuneWidth over rs.
func Runes(rs []rune) int {
	w := 0
	for _, r := range rs {
		w += RuneWidth(r)
	}
	return w
}

func isPlainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if b := s[i]; b < 0x20 || b > 0x7e {
			return false
		}
	}
	return true
}

// computeWidth measures grapheme clusters so emoji sequences count once.
func computeWidth(s string) int {
	stripped := StripANSI(s)
	w := 0
	state := -1
	for len(stripped) > 0 {
		var cluster string
		cluster, stripped, _, state = uniseg.FirstGraphemeClusterInString(stripped, state)
		r, _ := utf8.DecodeRuneInString(cluster)
		w += RuneWidth(r)
	}
	return w
}
