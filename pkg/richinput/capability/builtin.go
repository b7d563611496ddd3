// ABOUTME: Static capability tables for common terminals, used when no terminfo entry is available.
// ABOUTME: Covers CSI and SS3 cursor keys, editing keys, ctrl+arrow word motion, and F1..F12.

package capability

import (
	"maps"
	"slices"

	"github.com/mauromedda/richinput/pkg/richinput/key"
)

// cursorKeys are the CSI and SS3 encodings shared by every ANSI terminal.
var cursorKeys = map[string]key.Name{
	"\x1b[A": key.NameArrowUp,
	"\x1b[B": key.NameArrowDown,
	"\x1b[C": key.NameArrowRight,
	"\x1b[D": key.NameArrowLeft,
	"\x1bOA": key.NameArrowUp,
	"\x1bOB": key.NameArrowDown,
	"\x1bOC": key.NameArrowRight,
	"\x1bOD": key.NameArrowLeft,
}

// pfKeys are the VT100 keypad function keys PF1..PF4.
var pfKeys = map[string]key.Name{
	"\x1bOP": key.Function(1),
	"\x1bOQ": key.Function(2),
	"\x1bOR": key.Function(3),
	"\x1bOS": key.Function(4),
}

// vtEditKeys are the DEC "tilde" encodings of the editing keypad.
var vtEditKeys = map[string]key.Name{
	"\x1b[1~": key.NameHome,
	"\x1b[2~": key.NameInsert,
	"\x1b[3~": key.NameDelete,
	"\x1b[4~": key.NameEnd,
	"\x1b[5~": key.NamePageUp,
	"\x1b[6~": key.NamePageDown,
}

// vtFunctionKeys are F5..F12 in DEC tilde form; the gaps at 16 and 22 are historical.
var vtFunctionKeys = map[string]key.Name{
	"\x1b[15~": key.Function(5),
	"\x1b[17~": key.Function(6),
	"\x1b[18~": key.Function(7),
	"\x1b[19~": key.Function(8),
	"\x1b[20~": key.Function(9),
	"\x1b[21~": key.Function(10),
	"\x1b[23~": key.Function(11),
	"\x1b[24~": key.Function(12),
}

// wordMotion are the ctrl+arrow forms emitted by xterm-compatible terminals.
var wordMotion = map[string]key.Name{
	"\x1b[1;5D": key.NameWordLeft,
	"\x1b[1;5C": key.NameWordRight,
}

var builtins = map[string]func() map[string]key.Name{
	"vt100": func() map[string]key.Name {
		return merge(cursorKeys, pfKeys)
	},
	"ansi": func() map[string]key.Name {
		return merge(cursorKeys, map[string]key.Name{
			"\x1b[H": key.NameHome,
			"\x1b[L": key.NameInsert,
		})
	},
	"linux": func() map[string]key.Name {
		return merge(cursorKeys, vtEditKeys, vtFunctionKeys, map[string]key.Name{
			"\x1b[[A": key.Function(1),
			"\x1b[[B": key.Function(2),
			"\x1b[[C": key.Function(3),
			"\x1b[[D": key.Function(4),
			"\x1b[[E": key.Function(5),
			"\x1b[Z":  key.NameBackTab,
		})
	},
	"xterm": func() map[string]key.Name {
		return merge(cursorKeys, pfKeys, vtEditKeys, vtFunctionKeys, wordMotion, map[string]key.Name{
			"\x1b[H":  key.NameHome,
			"\x1b[F":  key.NameEnd,
			"\x1bOH":  key.NameHome,
			"\x1bOF":  key.NameEnd,
			"\x1b[7~": key.NameHome,
			"\x1b[8~": key.NameEnd,
			"\x1b[Z":  key.NameBackTab,
		})
	},
}

// builtinAliases maps common TERM values onto a builtin table.
var builtinAliases = map[string]string{
	"xterm-256color":  "xterm",
	"xterm-color":     "xterm",
	"screen":          "xterm",
	"screen-256color": "xterm",
	"tmux":            "xterm",
	"tmux-256color":   "xterm",
	"rxvt":            "xterm",
	"vt102":           "vt100",
	"vt220":           "linux",
}

func merge(parts ...map[string]key.Name) map[string]key.Name {
	out := make(map[string]key.Name)
	for _, p := range parts {
		maps.Copy(out, p)
	}
	return out
}

// Builtin returns the static table for a terminal name or one of its aliases.
func Builtin(term string) (*Map, bool) {
	name := term
	if alias, ok := builtinAliases[term]; ok {
		name = alias
	}
	build, ok := builtins[name]
	if !ok {
		return nil, false
	}
	return NewMap(term, build()), true
}

// BuiltinNames lists the terminals with a static table, aliases excluded.
func BuiltinNames() []string {
	return slices.Sorted(maps.Keys(builtins))
}
