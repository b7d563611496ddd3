// ABOUTME: Tests for terminfo-backed profiles and the ANSI output using hand-built terminfo entries.
// ABOUTME: Database-dependent lookups accept either a terminfo or a builtin source.

package capability

import (
	"errors"
	"testing"

	"github.com/xo/terminfo"

	"github.com/mauromedda/richinput/pkg/richinput/key"
)

func noEnv(string) string { return "" }

func TestTerminalName(t *testing.T) {
	t.Parallel()

	env := func(k string) string {
		if k == "TERM" {
			return "screen"
		}
		return ""
	}
	tests := []struct {
		name     string
		term     string
		fallback string
		getenv   func(string) string
		want     string
		wantErr  error
	}{
		{name: "explicit", term: "linux", getenv: env, want: "linux"},
		{name: "from env", getenv: env, want: "screen"},
		{name: "fallback", fallback: DefaultFallback, getenv: noEnv, want: "vt100"},
		{name: "nothing", getenv: noEnv, wantErr: ErrNoTerminal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := terminalName(tt.term, tt.fallback, tt.getenv)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad_Failures(t *testing.T) {
	t.Parallel()

	if _, err := load("", "", noEnv); !errors.Is(err, ErrNoTerminal) {
		t.Errorf("expected ErrNoTerminal, got %v", err)
	}
	if _, err := load("no-such-terminal-zz9", "", noEnv); !errors.Is(err, ErrUnknownTerminal) {
		t.Errorf("expected ErrUnknownTerminal, got %v", err)
	}
	if _, err := resolve("no-such-terminal-zz9", "", noEnv); !errors.Is(err, ErrUnknownTerminal) {
		t.Errorf("resolve: expected ErrUnknownTerminal, got %v", err)
	}
}

func TestResolve_Xterm(t *testing.T) {
	t.Parallel()

	p, err := resolve("xterm", "", noEnv)
	if err != nil {
		t.Fatalf("resolve(xterm): %v", err)
	}
	if p.Source != "terminfo" && p.Source != "builtin" {
		t.Errorf("Source = %q", p.Source)
	}
	for seq, want := range map[string]key.Name{"\x1b[D": key.NameArrowLeft, "\x1bOP": key.Function(1)} {
		if got, ok := p.Keys.Lookup(seq); !ok || got != want {
			t.Errorf("%s: Lookup(%q) = %v, %v; want %v", p.Source, seq, got, ok, want)
		}
	}
}

func fakeTerminfo() *terminfo.Terminfo {
	return &terminfo.Terminfo{
		Strings: map[int][]byte{
			terminfo.KeyLeft:        []byte("\x1bOD"),
			terminfo.KeyRight:       []byte("\x1bOC"),
			terminfo.KeyHome:        []byte("\x1bOH"),
			terminfo.KeyDc:          []byte("\x1b[3~"),
			terminfo.KeyF1:          []byte("\x1bOP"),
			terminfo.KeyF2:          []byte("\x9bQ"),
			terminfo.CursorLeft:     []byte("\x08"),
			terminfo.CursorRight:    []byte("\x1b[C$<2>"),
			terminfo.ParmLeftCursor: []byte("\x1b[%p1%dD"),
			terminfo.ClrEol:         []byte("\x1b[K$<3>"),
			terminfo.CarriageReturn: []byte("\r"),
		},
	}
}

func TestProfileFromTerminfo(t *testing.T) {
	t.Parallel()

	p := profileFromTerminfo("fake", fakeTerminfo())
	tests := map[string]key.Name{
		"\x1bOD":    key.NameArrowLeft,
		"\x1b[D":    key.NameArrowLeft, // normal-mode variant
		"\x1b[C":    key.NameArrowRight,
		"\x1b[H":    key.NameHome,
		"\x1b[3~":   key.NameDelete,
		"\x1bOP":    key.Function(1),
		"\x1b[Q":    key.Function(2), // 8-bit CSI normalized
		"\x1b[1;5D": key.NameWordLeft,
	}
	for seq, want := range tests {
		if got, ok := p.Keys.Lookup(seq); !ok || got != want {
			t.Errorf("Lookup(%q) = %v, %v; want %v", seq, got, ok, want)
		}
	}
	if p.Source != "terminfo" || p.Name != "fake" {
		t.Errorf("profile = %+v", p)
	}
}

func TestTerminfoOutput(t *testing.T) {
	t.Parallel()

	out := NewTerminfoOutput(fakeTerminfo())
	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "left one uses cub1", got: out.CursorLeft(1), want: "\x08"},
		{name: "left many uses cub", got: out.CursorLeft(4), want: "\x1b[4D"},
		{name: "right repeats cuf1 without padding", got: out.CursorRight(2), want: "\x1b[C\x1b[C"},
		{name: "up falls back to ansi", got: out.CursorUp(2), want: "\x1b[2A"},
		{name: "zero move is empty", got: out.CursorDown(0), want: ""},
		{name: "el without padding", got: out.ClearToEOL(), want: "\x1b[K"},
		{name: "ed falls back to ansi", got: out.ClearToEOS(), want: "\x1b[J"},
		{name: "newline", got: out.Newline(), want: "\r\n"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestANSIOutput(t *testing.T) {
	t.Parallel()

	if got := ANSI.CursorLeft(1); got != "\x1b[D" {
		t.Errorf("CursorLeft(1) = %q", got)
	}
	if got := ANSI.CursorRight(12); got != "\x1b[12C" {
		t.Errorf("CursorRight(12) = %q", got)
	}
	if got := ANSI.CursorUp(-1); got != "" {
		t.Errorf("CursorUp(-1) = %q", got)
	}
}
