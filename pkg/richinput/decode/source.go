// ABOUTME: Readiness waiting for nonblocking sources and charset lookup by name or locale.
// ABOUTME: Sources that can block on the OS implement Waiter; others fall back to a timer.

package decode

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// Waiter is implemented by sources that can block until input may be ready.
type Waiter interface {
	WaitReady(ctx context.Context, timeout time.Duration) error
}

// Wait blocks for at most d or until src reports readiness. Spurious wakeups are allowed.
func Wait(ctx context.Context, src Source, d time.Duration) error {
	if w, ok := src.(Waiter); ok {
		return w.WaitReady(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Lookup resolves an IANA charset name such as "UTF-8", "ISO-8859-1" or "Shift_JIS".
func Lookup(name string) (encoding.Encoding, error) {
	if name == "" {
		return unicode.UTF8, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("looking up charset %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("charset %q is not supported", name)
	}
	return enc, nil
}

// LocaleCharset extracts the charset from the first set of LC_ALL, LC_CTYPE, LANG.
// getenv may be nil to read the process environment.
func LocaleCharset(getenv func(string) string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, v := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		loc := getenv(v)
		if loc == "" {
			continue
		}
		loc, _, _ = strings.Cut(loc, "@")
		if _, cs, ok := strings.Cut(loc, "."); ok && cs != "" {
			return cs
		}
		return "UTF-8"
	}
	return "UTF-8"
}

// FromLocale returns the encoding named by the locale, falling back to UTF-8
// when the locale names a charset that cannot be decoded.
func FromLocale(getenv func(string) string) encoding.Encoding {
	enc, err := Lookup(LocaleCharset(getenv))
	if err != nil {
		return unicode.UTF8
	}
	return enc
}
