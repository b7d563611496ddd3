// ABOUTME: Output sequences that render redraw plans: fixed ANSI codes or terminfo capabilities.
// ABOUTME: The terminfo output falls back to ANSI for capabilities the entry does not define.

package capability

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/xo/terminfo"

	"github.com/mauromedda/richinput/pkg/richinput/line"
)

// ANSI renders plans with ECMA-48 control sequences.
var ANSI line.Output = ansiOutput{}

type ansiOutput struct{}

func csiN(n int, final string) string {
	if n <= 0 {
		return ""
	}
	if n == 1 {
		return "\x1b[" + final
	}
	return "\x1b[" + strconv.Itoa(n) + final
}

func (ansiOutput) CursorUp(n int) string    { return csiN(n, "A") }
func (ansiOutput) CursorDown(n int) string  { return csiN(n, "B") }
func (ansiOutput) CursorRight(n int) string { return csiN(n, "C") }
func (ansiOutput) CursorLeft(n int) string  { return csiN(n, "D") }
func (ansiOutput) ClearToEOL() string       { return "\x1b[K" }
func (ansiOutput) ClearToEOS() string       { return "\x1b[J" }
func (ansiOutput) Newline() string          { return "\r\n" }

// padding matches terminfo delay specifications such as $<2> or $<5*/>.
var padding = regexp.MustCompile(`\$<[0-9.]+[*/]*>`)

// terminfoOutput renders plans with the capabilities of a terminfo entry.
type terminfoOutput struct {
	ti *terminfo.Terminfo
}

// NewTerminfoOutput returns an Output backed by ti.
func NewTerminfoOutput(ti *terminfo.Terminfo) line.Output {
	return terminfoOutput{ti: ti}
}

func (o terminfoOutput) str(capIdx int) (string, bool) {
	b, ok := o.ti.Strings[capIdx]
	if !ok || len(b) == 0 {
		return "", false
	}
	return padding.ReplaceAllString(string(b), ""), true
}

// move prefers the parameterised capability for n > 1, then repeats the single step.
func (o terminfoOutput) move(n, single, parm int, fallback func(int) string) string {
	if n <= 0 {
		return ""
	}
	if n > 1 {
		if _, ok := o.str(parm); ok {
			return padding.ReplaceAllString(o.ti.Printf(parm, n), "")
		}
	}
	if s, ok := o.str(single); ok {
		return strings.Repeat(s, n)
	}
	return fallback(n)
}

func (o terminfoOutput) CursorUp(n int) string {
	return o.move(n, terminfo.CursorUp, terminfo.ParmUpCursor, ANSI.CursorUp)
}

func (o terminfoOutput) CursorDown(n int) string {
	return o.move(n, terminfo.CursorDown, terminfo.ParmDownCursor, ANSI.CursorDown)
}

func (o terminfoOutput) CursorLeft(n int) string {
	return o.move(n, terminfo.CursorLeft, terminfo.ParmLeftCursor, ANSI.CursorLeft)
}

func (o terminfoOutput) CursorRight(n int) string {
	return o.move(n, terminfo.CursorRight, terminfo.ParmRightCursor, ANSI.CursorRight)
}

func (o terminfoOutput) ClearToEOL() string {
	if s, ok := o.str(terminfo.ClrEol); ok {
		return s
	}
	return ANSI.ClearToEOL()
}

func (o terminfoOutput) ClearToEOS() string {
	if s, ok := o.str(terminfo.ClrEos); ok {
		return s
	}
	return ANSI.ClearToEOS()
}

func (o terminfoOutput) Newline() string {
	cr, ok := o.str(terminfo.CarriageReturn)
	if !ok {
		cr = "\r"
	}
	// cud1 is usually a bare line feed; in raw mode that moves down without scrolling issues.
	return cr + "\n"
}
