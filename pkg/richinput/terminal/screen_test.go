// ABOUTME: Tests for the screen model: autowrap, pending wrap, cursor motion, and erase operations.
// ABOUTME: The screen is what line-editor tests assert against, so its rules are pinned here.

package terminal

import (
	"slices"
	"testing"
)

func TestScreen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		width     int
		writes    []string
		wantLines []string
		wantRow   int
		wantCol   int
	}{
		{
			name:      "plain text",
			width:     10,
			writes:    []string{"hello"},
			wantLines: []string{"hello"},
			wantRow:   0, wantCol: 5,
		},
		{
			name:      "pending wrap holds cursor on last column",
			width:     4,
			writes:    []string{"abcd"},
			wantLines: []string{"abcd"},
			wantRow:   0, wantCol: 3,
		},
		{
			name:      "next char after pending wrap goes to next row",
			width:     4,
			writes:    []string{"abcde"},
			wantLines: []string{"abcd", "e"},
			wantRow:   1, wantCol: 1,
		},
		{
			name:      "crlf clears pending wrap",
			width:     4,
			writes:    []string{"abcd", "\r\n", "x"},
			wantLines: []string{"abcd", "x"},
			wantRow:   1, wantCol: 1,
		},
		{
			name:      "cursor moves and overwrite",
			width:     10,
			writes:    []string{"abcdef", "\x1b[3D", "XY"},
			wantLines: []string{"abcXYf"},
			wantRow:   0, wantCol: 5,
		},
		{
			name:      "erase to end of line",
			width:     10,
			writes:    []string{"abcdef", "\x1b[2D", "\x1b[K"},
			wantLines: []string{"abcd"},
			wantRow:   0, wantCol: 4,
		},
		{
			name:      "erase to end of screen",
			width:     3,
			writes:    []string{"abcdefg", "\x1b[1A", "\x1b[J"},
			wantLines: []string{"abc", "d"},
			wantRow:   1, wantCol: 1,
		},
		{
			name:      "wide rune straddling the edge wraps",
			width:     3,
			writes:    []string{"ab世"},
			wantLines: []string{"ab", "世"},
			wantRow:   1, wantCol: 2,
		},
		{
			name:      "sgr ignored and split escape buffered",
			width:     10,
			writes:    []string{"\x1b[1", ";32m>", "\x1b[0m "},
			wantLines: []string{">"},
			wantRow:   0, wantCol: 2,
		},
		{
			name:      "split utf8",
			width:     10,
			writes:    []string{"\xe4\xb8", "\x96"},
			wantLines: []string{"世"},
			wantRow:   0, wantCol: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := NewScreen(tt.width)
			for _, w := range tt.writes {
				_, _ = s.Write([]byte(w))
			}
			if got := s.Lines(); !slices.Equal(got, tt.wantLines) {
				t.Errorf("Lines() = %q, want %q", got, tt.wantLines)
			}
			if row, col := s.Cursor(); row != tt.wantRow || col != tt.wantCol {
				t.Errorf("Cursor() = (%d, %d), want (%d, %d)", row, col, tt.wantRow, tt.wantCol)
			}
		})
	}
}
