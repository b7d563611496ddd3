// ABOUTME: Minimal VT-style screen model that interprets the output the line editor produces.
// ABOUTME: Supports autowrap with pending wrap, CR, LF, BS, CUU/CUD/CUF/CUB, EL and ED; SGR is ignored.

package terminal

import (
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/mauromedda/richinput/pkg/richinput/width"
)

// wideTail marks the second cell of a double-width rune.
const wideTail = -1

// Screen is an unbounded-height grid of cells with a cursor.
type Screen struct {
	mu      sync.Mutex
	width   int
	rows    [][]rune
	row     int
	col     int
	pending bool
	partial []byte
}

// NewScreen returns an empty screen with the given number of columns.
func NewScreen(width int) *Screen {
	if width <= 0 {
		width = 80
	}
	return &Screen{width: width}
}

// SetWidth changes the column count for subsequent output.
func (s *Screen) SetWidth(w int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w > 0 {
		s.width = w
		s.col = min(s.col, w-1)
	}
}

// Reset clears every cell and homes the cursor.
func (s *Screen) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = nil
	s.row, s.col, s.pending = 0, 0, false
	s.partial = nil
}

// Write interprets p as terminal output.
func (s *Screen) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := append(s.partial, p...)
	s.partial = nil
	for len(data) > 0 {
		if data[0] == 0x1b {
			n, ok := s.escape(data)
			if !ok {
				s.partial = append([]byte(nil), data...)
				break
			}
			data = data[n:]
			continue
		}
		if !utf8.FullRune(data) {
			s.partial = append([]byte(nil), data...)
			break
		}
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		s.put(r)
	}
	return len(p), nil
}

func (s *Screen) put(r rune) {
	switch r {
	case '\r':
		s.col, s.pending = 0, false
		return
	case '\n':
		s.row++
		s.pending = false
		return
	case '\b':
		if s.col > 0 {
			s.col--
		}
		s.pending = false
		return
	case '\a':
		return
	}
	w := width.RuneWidth(r)
	if w == 0 {
		return
	}
	if s.pending || s.col+w > s.width {
		s.row++
		s.col = 0
		s.pending = false
	}
	s.set(s.row, s.col, r)
	if w == 2 {
		s.set(s.row, s.col+1, wideTail)
	}
	s.col += w
	if s.col >= s.width {
		s.col = s.width - 1
		s.pending = true
	}
}

func (s *Screen) set(row, col int, r rune) {
	for len(s.rows) <= row {
		s.rows = append(s.rows, nil)
	}
	line := s.rows[row]
	for len(line) <= col {
		line = append(line, ' ')
	}
	line[col] = r
	s.rows[row] = line
}

// escape handles one escape sequence at the start of data and returns its length.
// It reports false when the sequence is incomplete.
func (s *Screen) escape(data []byte) (int, bool) {
	if len(data) < 2 {
		return 0, false
	}
	if data[1] != '[' {
		return 2, true
	}
	i := 2
	for i < len(data) && (data[i] < 0x40 || data[i] > 0x7e) {
		i++
	}
	if i >= len(data) {
		return 0, false
	}
	s.csi(string(data[2:i]), data[i])
	return i + 1, true
}

func (s *Screen) csi(params string, final byte) {
	args := strings.Split(params, ";")
	arg := func(idx, def int) int {
		if idx >= len(args) || args[idx] == "" {
			return def
		}
		n, err := strconv.Atoi(args[idx])
		if err != nil || n == 0 {
			return def
		}
		return n
	}

	switch final {
	case 'A':
		s.row = max(0, s.row-arg(0, 1))
	case 'B':
		s.row += arg(0, 1)
	case 'C':
		s.col = min(s.width-1, s.col+arg(0, 1))
	case 'D':
		s.col = max(0, s.col-arg(0, 1))
	case 'G':
		s.col = min(s.width-1, arg(0, 1)-1)
	case 'K':
		s.clearLine(s.row, s.col)
	case 'J':
		s.clearLine(s.row, s.col)
		if s.row+1 < len(s.rows) {
			s.rows = s.rows[:s.row+1]
		}
	case 'm':
		return
	default:
		return
	}
	s.pending = false
}

func (s *Screen) clearLine(row, col int) {
	if row >= len(s.rows) {
		return
	}
	if line := s.rows[row]; col < len(line) {
		s.rows[row] = line[:col]
	}
}

// Lines returns the visible text of every row, trailing blanks trimmed.
func (s *Screen) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.rows))
	for _, line := range s.rows {
		var b strings.Builder
		for _, r := range line {
			if r != wideTail {
				b.WriteRune(r)
			}
		}
		out = append(out, strings.TrimRight(b.String(), " "))
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// Text joins Lines with newlines.
func (s *Screen) Text() string {
	return strings.Join(s.Lines(), "\n")
}

// Cursor returns the cursor cell.
func (s *Screen) Cursor() (row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.row, s.col
}
