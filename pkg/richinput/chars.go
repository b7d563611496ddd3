// ABOUTME: Iterator entry points for reading single characters or rich key events without line editing.
// ABOUTME: GetRichChar resolves the terminal's key table up front so lookup failures surface immediately.

package richinput

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"golang.org/x/text/encoding"

	"github.com/mauromedda/richinput/pkg/richinput/capability"
	"github.com/mauromedda/richinput/pkg/richinput/decode"
	"github.com/mauromedda/richinput/pkg/richinput/input"
	"github.com/mauromedda/richinput/pkg/richinput/key"
)

// GetChar yields decoded characters from src as they arrive. The prompt is
// written when iteration starts. End of input finishes the sequence;
// cancellation yields an error wrapping ErrAborted. The decoder belongs to
// src, so input read ahead of a stopped iteration is yielded by the next one.
func GetChar(ctx context.Context, src decode.Source, w io.Writer, prompt string, enc encoding.Encoding) iter.Seq2[decode.Char, error] {
	return func(yield func(decode.Char, error) bool) {
		if err := writePrompt(w, prompt); err != nil {
			yield(decode.Char{}, err)
			return
		}
		dec := streams.get(src, enc, nil, input.Options{}).Decoder()
		for {
			if err := ctx.Err(); err != nil {
				yield(decode.Char{}, fmt.Errorf("%w: %w", ErrAborted, err))
				return
			}
			c, err := dec.Next()
			switch {
			case err == nil:
				if !yield(c, nil) {
					return
				}
			case errors.Is(err, decode.ErrBlocked):
				if err := decode.Wait(ctx, src, input.DefaultPollInterval); err != nil {
					yield(decode.Char{}, fmt.Errorf("%w: %w", ErrAborted, err))
					return
				}
			case errors.Is(err, io.EOF):
				streams.release(src)
				return
			default:
				yield(decode.Char{}, err)
				return
			}
		}
	}
}

// GetRichChar yields key events from src. An empty term means $TERM. When
// opts carries no Table, the terminal's key table is resolved now and a
// failure is returned before any input is read. Like GetChar, decoder and
// recognizer state stay with src between iterations.
func GetRichChar(ctx context.Context, src decode.Source, w io.Writer, prompt, term string, opts Options) (iter.Seq2[key.Event, error], error) {
	if opts.Table == nil {
		p, err := capability.Resolve(term, "")
		if err != nil {
			return nil, fmt.Errorf("resolving terminal: %w", err)
		}
		opts = opts.WithProfile(p)
	}
	opts = opts.withDefaults()

	return func(yield func(key.Event, error) bool) {
		if err := writePrompt(w, prompt); err != nil {
			yield(key.Event{}, err)
			return
		}
		stream := streams.get(src, opts.Encoding, opts.Table, opts.Input)
		for ev, err := range stream.Events(ctx) {
			if err != nil {
				if ctx.Err() != nil {
					err = fmt.Errorf("%w: %w", ErrAborted, err)
				}
				yield(ev, err)
				return
			}
			if !yield(ev, nil) {
				return
			}
		}
		streams.release(src)
	}, nil
}

func writePrompt(w io.Writer, prompt string) error {
	if prompt == "" || w == nil {
		return nil
	}
	if _, err := io.WriteString(w, prompt); err != nil {
		return fmt.Errorf("writing prompt: %w", err)
	}
	return nil
}
