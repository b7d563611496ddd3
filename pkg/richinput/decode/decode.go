// ABOUTME: Nonblocking decoder turning raw terminal bytes into Unicode characters.
// ABOUTME: Keeps partial multibyte sequences between reads and replaces malformed input with U+FFFD.

package decode

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	readBufSize = 256
	// maxCharBytes bounds how many bytes any supported charset needs for one character.
	maxCharBytes = 8
)

// ErrBlocked is returned by Next when no complete character is available yet.
var ErrBlocked = errors.New("decode: input not ready")

// Source is a nonblocking byte source.
// ReadAvailable returns (0, nil) when nothing is available and io.EOF once closed.
type Source interface {
	ReadAvailable(p []byte) (int, error)
}

// Char is one decoded character and the number of input bytes it consumed.
// When a charset maps one byte sequence to several runes, the first rune
// carries the whole Size and the rest have Size 0, so the sizes of a run of
// chars always add up to the bytes read.
type Char struct {
	Rune rune
	Size int
}

// Decoder pulls bytes from a Source and decodes them one character at a time.
// It is not safe for concurrent use.
type Decoder struct {
	src     Source
	utf8    bool
	dec     *encoding.Decoder
	pending []byte
	queued  []Char
	readBuf []byte
	dstBuf  []byte
	eof     bool
}

// New returns a decoder reading from src in the given encoding. A nil encoding means UTF-8.
func New(src Source, enc encoding.Encoding) *Decoder {
	d := &Decoder{
		src:     src,
		readBuf: make([]byte, readBufSize),
		dstBuf:  make([]byte, 4*maxCharBytes),
	}
	if enc == nil || enc == unicode.UTF8 {
		d.utf8 = true
	} else {
		d.dec = enc.NewDecoder()
	}
	return d
}

// Buffered reports how many undecoded bytes are held back.
func (d *Decoder) Buffered() int {
	return len(d.pending)
}

// Next returns the next character. It never blocks: ErrBlocked means the
// source has nothing more right now, io.EOF means the source is exhausted.
func (d *Decoder) Next() (Char, error) {
	for {
		if c, ok := d.decodeOne(); ok {
			return c, nil
		}
		if d.eof {
			if len(d.pending) > 0 {
				// Truncated sequence at end of stream.
				n := len(d.pending)
				if d.utf8 {
					n = invalidRun(d.pending)
				}
				d.consume(n)
				return Char{Rune: utf8.RuneError, Size: n}, nil
			}
			return Char{}, io.EOF
		}

		n, err := d.src.ReadAvailable(d.readBuf)
		d.pending = append(d.pending, d.readBuf[:n]...)
		switch {
		case errors.Is(err, io.EOF):
			d.eof = true
		case err != nil:
			return Char{}, fmt.Errorf("reading input: %w", err)
		case n == 0:
			return Char{}, ErrBlocked
		}
	}
}

// decodeOne takes one character off pending, if a complete one is there.
func (d *Decoder) decodeOne() (Char, bool) {
	if len(d.queued) > 0 {
		c := d.queued[0]
		d.queued = d.queued[1:]
		return c, true
	}
	if len(d.pending) == 0 {
		return Char{}, false
	}
	if d.utf8 {
		return d.decodeUTF8()
	}
	return d.decodeCharset()
}

func (d *Decoder) decodeUTF8() (Char, bool) {
	if !utf8.FullRune(d.pending) {
		return Char{}, false
	}
	r, size := utf8.DecodeRune(d.pending)
	if r == utf8.RuneError && size == 1 {
		size = invalidRun(d.pending)
	}
	d.consume(size)
	return Char{Rune: r, Size: size}, true
}

// invalidRun returns the length of the maximal subpart at the start of p: the
// longest prefix that could still begin a well-formed UTF-8 sequence, or 1.
// Each such run becomes a single U+FFFD, wherever it falls in the stream.
func invalidRun(p []byte) int {
	need := 0
	lo, hi := byte(0x80), byte(0xbf)
	switch b := p[0]; {
	case b >= 0xc2 && b <= 0xdf:
		need = 2
	case b == 0xe0:
		need, lo = 3, 0xa0
	case b == 0xed:
		need, hi = 3, 0x9f
	case b >= 0xe1 && b <= 0xef:
		need = 3
	case b == 0xf0:
		need, lo = 4, 0x90
	case b == 0xf4:
		need, hi = 4, 0x8f
	case b >= 0xf1 && b <= 0xf3:
		need = 4
	default:
		return 1
	}
	n := 1
	for ; n < need && n < len(p); n++ {
		if p[n] < lo || p[n] > hi {
			break
		}
		lo, hi = 0x80, 0xbf
	}
	return n
}

// decodeCharset feeds growing prefixes of pending to the transformer until it
// produces output. The decoder keeps its shift state across calls, so bytes
// consumed without output (stateful charsets) are dropped from pending.
func (d *Decoder) decodeCharset() (Char, bool) {
	for n := 1; n <= len(d.pending) && n <= maxCharBytes; n++ {
		nDst, nSrc, err := d.dec.Transform(d.dstBuf, d.pending[:n], false)
		if nDst == 0 {
			if nSrc > 0 {
				d.consume(nSrc)
				return d.decodeCharset()
			}
			if err == nil || errors.Is(err, transform.ErrShortSrc) {
				continue
			}
			// Transformer refused the bytes outright.
			d.dec.Reset()
			d.consume(1)
			return Char{Rune: utf8.RuneError, Size: 1}, true
		}

		out := d.dstBuf[:nDst]
		d.consume(nSrc)
		first, size := utf8.DecodeRune(out)
		c := Char{Rune: first, Size: nSrc}
		for out = out[size:]; len(out) > 0; out = out[size:] {
			var r rune
			r, size = utf8.DecodeRune(out)
			d.queued = append(d.queued, Char{Rune: r})
		}
		return c, true
	}
	if len(d.pending) >= maxCharBytes {
		d.dec.Reset()
		d.consume(1)
		return Char{Rune: utf8.RuneError, Size: 1}, true
	}
	return Char{}, false
}

func (d *Decoder) consume(n int) {
	d.pending = append(d.pending[:0], d.pending[n:]...)
}
