// ABOUTME: Loads capability profiles from the terminfo database via github.com/xo/terminfo.
// ABOUTME: Resolve falls back to the builtin tables when no compiled entry exists for the terminal.

package capability

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xo/terminfo"

	pilog "github.com/mauromedda/richinput/internal/log"
	"github.com/mauromedda/richinput/pkg/richinput/key"
	"github.com/mauromedda/richinput/pkg/richinput/line"
)

// DefaultFallback is used when TERM is unset and the caller asked for a fallback.
const DefaultFallback = "vt100"

var (
	// ErrNoTerminal means no terminal type was given and TERM is unset.
	ErrNoTerminal = errors.New("capability: no terminal type configured")
	// ErrUnknownTerminal means neither terminfo nor the builtin tables know the terminal.
	ErrUnknownTerminal = errors.New("capability: unknown terminal type")
)

// Profile bundles the input table and output sequences for one terminal.
type Profile struct {
	Name   string
	Keys   *Map
	Output line.Output
	// Source is "terminfo" or "builtin".
	Source string
}

// keyCaps maps terminfo key capabilities to key names.
var keyCaps = []struct {
	capIdx int
	name   key.Name
}{
	{terminfo.KeyLeft, key.NameArrowLeft},
	{terminfo.KeyRight, key.NameArrowRight},
	{terminfo.KeyUp, key.NameArrowUp},
	{terminfo.KeyDown, key.NameArrowDown},
	{terminfo.KeyHome, key.NameHome},
	{terminfo.KeyEnd, key.NameEnd},
	{terminfo.KeyDc, key.NameDelete},
	{terminfo.KeyIc, key.NameInsert},
	{terminfo.KeyPpage, key.NamePageUp},
	{terminfo.KeyNpage, key.NamePageDown},
	{terminfo.KeyBtab, key.NameBackTab},
	{terminfo.KeyF1, key.Function(1)},
	{terminfo.KeyF2, key.Function(2)},
	{terminfo.KeyF3, key.Function(3)},
	{terminfo.KeyF4, key.Function(4)},
	{terminfo.KeyF5, key.Function(5)},
	{terminfo.KeyF6, key.Function(6)},
	{terminfo.KeyF7, key.Function(7)},
	{terminfo.KeyF8, key.Function(8)},
	{terminfo.KeyF9, key.Function(9)},
	{terminfo.KeyF10, key.Function(10)},
	{terminfo.KeyF11, key.Function(11)},
	{terminfo.KeyF12, key.Function(12)},
	{terminfo.KeyF13, key.Function(13)},
	{terminfo.KeyF14, key.Function(14)},
	{terminfo.KeyF15, key.Function(15)},
	{terminfo.KeyF16, key.Function(16)},
	{terminfo.KeyF17, key.Function(17)},
	{terminfo.KeyF18, key.Function(18)},
	{terminfo.KeyF19, key.Function(19)},
	{terminfo.KeyF20, key.Function(20)},
	{terminfo.KeyF21, key.Function(21)},
	{terminfo.KeyF22, key.Function(22)},
	{terminfo.KeyF23, key.Function(23)},
	{terminfo.KeyF24, key.Function(24)},
}

// Load reads the terminfo entry for term. An empty term means $TERM, and
// fallback is tried when $TERM is unset too.
func Load(term, fallback string) (*Profile, error) {
	return load(term, fallback, os.Getenv)
}

func load(term, fallback string, getenv func(string) string) (*Profile, error) {
	name, err := terminalName(term, fallback, getenv)
	if err != nil {
		return nil, err
	}
	ti, err := terminfo.Load(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownTerminal, name, err)
	}
	return profileFromTerminfo(name, ti), nil
}

func terminalName(term, fallback string, getenv func(string) string) (string, error) {
	if term != "" {
		return term, nil
	}
	if env := getenv("TERM"); env != "" {
		return env, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", ErrNoTerminal
}

func profileFromTerminfo(name string, ti *terminfo.Terminfo) *Profile {
	seqs := make(map[string]key.Name)
	for _, kc := range keyCaps {
		if b := ti.Strings[kc.capIdx]; len(b) > 0 {
			seqs[latin1(b)] = kc.name
		}
	}
	addModeVariants(seqs)
	keys := NewMap(name, seqs).With(wordMotion)
	return &Profile{Name: name, Keys: keys, Output: NewTerminfoOutput(ti), Source: "terminfo"}
}

// addModeVariants adds the normal-mode CSI form of application-mode SS3
// cursor keys. Terminfo describes keypad-transmit mode, which line editors
// do not enable.
func addModeVariants(seqs map[string]key.Name) {
	for seq, name := range seqs {
		if rest, ok := strings.CutPrefix(seq, "\x1bO"); ok && len(rest) == 1 {
			switch name {
			case key.NameArrowLeft, key.NameArrowRight, key.NameArrowUp, key.NameArrowDown,
				key.NameHome, key.NameEnd:
				csi := "\x1b[" + rest
				if _, taken := seqs[csi]; !taken {
					seqs[csi] = name
				}
			}
		}
	}
}

// latin1 maps each byte to the code point of the same value, the way a
// decoded character stream carries 8-bit control bytes.
func latin1(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}

// Resolve loads term from terminfo, then from the builtin tables.
func Resolve(term, fallback string) (*Profile, error) {
	return resolve(term, fallback, os.Getenv)
}

func resolve(term, fallback string, getenv func(string) string) (*Profile, error) {
	p, err := load(term, fallback, getenv)
	if err == nil {
		return p, nil
	}
	if errors.Is(err, ErrNoTerminal) {
		return nil, err
	}
	name, _ := terminalName(term, fallback, getenv)
	if m, ok := Builtin(name); ok {
		pilog.Debug("terminfo unavailable for %s, using builtin table: %v", name, err)
		return &Profile{Name: name, Keys: m, Output: ANSI, Source: "builtin"}, nil
	}
	return nil, err
}
