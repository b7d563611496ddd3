// ABOUTME: Cursor position reports: ProcessTerminal sends CPR (ESC [ 6 n) and parses ESC [ row ; col R.
// ABOUTME: Input arriving ahead of the reply is set aside so the next ReadAvailable still sees it.

package terminal

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"time"
)

// CursorReplyTimeout bounds how long CursorPosition waits for the terminal to answer.
const CursorReplyTimeout = 200 * time.Millisecond

// ErrNoCursorReply means the terminal did not answer a cursor position query.
var ErrNoCursorReply = errors.New("terminal: no cursor position reply")

const cursorQuery = "\x1b[6n"

var cprPattern = regexp.MustCompile(`\x1b\[(\d+);(\d+)R`)

// CursorPosition returns the zero-based cursor cell. Only a TTY input is asked.
func (t *ProcessTerminal) CursorPosition(ctx context.Context) (row, col int, err error) {
	if !t.IsTerminal() {
		return 0, 0, ErrNoCursorReply
	}
	if _, err := t.Write([]byte(cursorQuery)); err != nil {
		return 0, 0, err
	}

	var got []byte
	defer func() { t.setAside(got) }()
	buf := make([]byte, 64)
	deadline := time.Now().Add(CursorReplyTimeout)
	for {
		if r, c, rest, ok := parseCursorReply(got); ok {
			got = rest
			return r, c, nil
		}
		left := time.Until(deadline)
		if left <= 0 {
			return 0, 0, ErrNoCursorReply
		}
		if err := t.waitInput(ctx, left); err != nil {
			return 0, 0, err
		}
		n, err := t.readInput(buf)
		got = append(got, buf[:n]...)
		if err != nil {
			return 0, 0, err
		}
	}
}

// setAside queues p behind input set aside earlier.
func (t *ProcessTerminal) setAside(p []byte) {
	if len(p) == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.unread = append(t.unread, p...)
}

// parseCursorReply finds the first report in p and returns the zero-based
// position plus the bytes around it.
func parseCursorReply(p []byte) (row, col int, rest []byte, ok bool) {
	m := cprPattern.FindSubmatchIndex(p)
	if m == nil {
		return 0, 0, p, false
	}
	row, err := strconv.Atoi(string(p[m[2]:m[3]]))
	if err != nil {
		return 0, 0, p, false
	}
	col, err = strconv.Atoi(string(p[m[4]:m[5]]))
	if err != nil {
		return 0, 0, p, false
	}
	rest = append(append([]byte(nil), p[:m[0]]...), p[m[1]:]...)
	return max(row-1, 0), max(col-1, 0), rest, true
}

// CursorPosition reports the screen model's cursor cell.
func (v *VirtualTerminal) CursorPosition(context.Context) (row, col int, err error) {
	row, col = v.screen.Cursor()
	return row, col, nil
}
