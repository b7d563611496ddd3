// ABOUTME: Tests for the GetChar and GetRichChar iterators over virtual terminals.
// ABOUTME: Covers prompt output, charsets, state kept between iterations, cancellation, and lookup failure.

package richinput

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/mauromedda/richinput/pkg/richinput/capability"
	"github.com/mauromedda/richinput/pkg/richinput/decode"
	"github.com/mauromedda/richinput/pkg/richinput/input"
	"github.com/mauromedda/richinput/pkg/richinput/key"
	"github.com/mauromedda/richinput/pkg/richinput/terminal"
)

func TestGetChar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		enc   encoding.Encoding
		want  []decode.Char
	}{
		{
			name:  "utf8",
			input: "a\xc3\xa9",
			want:  []decode.Char{{Rune: 'a', Size: 1}, {Rune: '\u00e9', Size: 2}},
		},
		{
			name:  "latin1",
			input: "a\xe9",
			enc:   charmap.ISO8859_1,
			want:  []decode.Char{{Rune: 'a', Size: 1}, {Rune: '\u00e9', Size: 1}},
		},
		{
			name:  "malformed byte",
			input: "\xffz",
			want:  []decode.Char{{Rune: utf8.RuneError, Size: 1}, {Rune: 'z', Size: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			vt := terminal.NewVirtualTerminal(80, 24)
			vt.Feed(tt.input)
			vt.CloseInput()
			var got []decode.Char
			for c, err := range GetChar(context.Background(), vt, vt, "? ", tt.enc) {
				if err != nil {
					t.Fatalf("GetChar: %v", err)
				}
				got = append(got, c)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if vt.Output() != "? " {
				t.Errorf("output = %q, want the prompt", vt.Output())
			}
		})
	}
}

func TestGetChar_KeepsInputAcrossIterations(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtualTerminal(80, 24)
	vt.Feed("ab\xc3")
	var first string
	for c, err := range GetChar(context.Background(), vt, nil, "", nil) {
		if err != nil {
			t.Fatalf("GetChar: %v", err)
		}
		first = string(c.Rune)
		break
	}

	vt.Feed("\xa9")
	vt.CloseInput()
	var second []rune
	for c, err := range GetChar(context.Background(), vt, nil, "", nil) {
		if err != nil {
			t.Fatalf("GetChar: %v", err)
		}
		second = append(second, c.Rune)
	}
	if first != "a" || string(second) != "b\u00e9" {
		t.Errorf("first=%q second=%q, want \"a\" then \"b\u00e9\"", first, string(second))
	}
}

func TestGetChar_Cancelled(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtualTerminal(80, 24)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var lastErr error
	for _, err := range GetChar(ctx, vt, nil, "", nil) {
		lastErr = err
	}
	if !errors.Is(lastErr, ErrAborted) || !errors.Is(lastErr, context.DeadlineExceeded) {
		t.Errorf("err = %v, want ErrAborted wrapping DeadlineExceeded", lastErr)
	}
}

func TestGetRichChar(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtualTerminal(80, 24)
	vt.Feed("q\x1b[A\x03")
	vt.CloseInput()

	seq, err := GetRichChar(context.Background(), vt, vt, "> ", "xterm", Options{Input: fastInput})
	if err != nil {
		t.Fatalf("GetRichChar: %v", err)
	}
	var got []key.Event
	for ev, err := range seq {
		if err != nil {
			t.Fatalf("iterating: %v", err)
		}
		got = append(got, ev)
	}
	want := []key.Event{key.Printable('q'), key.Sequence(key.NameArrowUp, "\x1b[A"), key.Control(0x03)}
	if !slices.Equal(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
	if vt.Output() != "> " {
		t.Errorf("output = %q", vt.Output())
	}
}

func TestGetRichChar_KeepsPendingSequenceAcrossIterations(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtualTerminal(80, 24)
	opts := Options{Input: input.Options{Timeout: time.Minute, PollInterval: time.Millisecond}}
	vt.Feed("x\x1b[")

	seq, err := GetRichChar(context.Background(), vt, nil, "", "xterm", opts)
	if err != nil {
		t.Fatalf("GetRichChar: %v", err)
	}
	var got []key.Event
	for ev, err := range seq {
		if err != nil {
			t.Fatalf("iterating: %v", err)
		}
		got = append(got, ev)
		break
	}

	vt.Feed("A")
	vt.CloseInput()
	seq, err = GetRichChar(context.Background(), vt, nil, "", "xterm", opts)
	if err != nil {
		t.Fatalf("GetRichChar: %v", err)
	}
	for ev, err := range seq {
		if err != nil {
			t.Fatalf("iterating: %v", err)
		}
		got = append(got, ev)
	}
	want := []key.Event{key.Printable('x'), key.Sequence(key.NameArrowUp, "\x1b[A")}
	if !slices.Equal(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestGetRichChar_UnknownTerminal(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtualTerminal(80, 24)
	_, err := GetRichChar(context.Background(), vt, vt, "", "no-such-terminal-type", Options{})
	if !errors.Is(err, capability.ErrUnknownTerminal) {
		t.Errorf("err = %v, want ErrUnknownTerminal", err)
	}
	if vt.Output() != "" {
		t.Errorf("prompt written before failure: %q", vt.Output())
	}
}

func TestGetRichChar_ExplicitTableSkipsLookup(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtualTerminal(80, 24)
	vt.Feed("\x1b[[A")
	vt.CloseInput()
	linux, _ := capability.Builtin("linux")

	seq, err := GetRichChar(context.Background(), vt, nil, "", "no-such-terminal-type", Options{Table: linux, Input: fastInput})
	if err != nil {
		t.Fatalf("GetRichChar: %v", err)
	}
	var got []key.Event
	for ev, err := range seq {
		if err != nil {
			t.Fatalf("iterating: %v", err)
		}
		got = append(got, ev)
	}
	if want := []key.Event{key.Sequence(key.Function(1), "\x1b[[A")}; !slices.Equal(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}
