// ABOUTME: Keeps one input stream per byte source so reads started by separate calls share state.
// ABOUTME: Typed-ahead bytes and half-received characters carry over between GetChar, GetRichChar and RichLine.

package richinput

import (
	"reflect"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	pilog "github.com/mauromedda/richinput/internal/log"
	"github.com/mauromedda/richinput/pkg/richinput/capability"
	"github.com/mauromedda/richinput/pkg/richinput/decode"
	"github.com/mauromedda/richinput/pkg/richinput/input"
)

var streams = streamRegistry{bySource: make(map[decode.Source]*input.Stream)}

type streamRegistry struct {
	mu       sync.Mutex
	bySource map[decode.Source]*input.Stream
}

// get returns the stream bound to src, creating it on first use. A non-nil
// table reconfigures an existing stream; the latest configuration wins. A
// stream decoding another charset is replaced and its buffered bytes dropped.
// Sources that cannot be map keys get a fresh stream every time.
func (r *streamRegistry) get(src decode.Source, enc encoding.Encoding, table capability.Table, opts input.Options) *input.Stream {
	if !reflect.ValueOf(src).Comparable() {
		return input.NewStream(src, enc, table, opts)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.bySource[src]; ok {
		if sameEncoding(s.Encoding(), enc) {
			if table != nil {
				s.Configure(table, opts)
			}
			return s
		}
		pilog.Debug("input charset changed; dropping %d buffered bytes", s.Decoder().Buffered())
	}
	s := input.NewStream(src, enc, table, opts)
	r.bySource[src] = s
	return s
}

// release forgets src after its input ended.
func (r *streamRegistry) release(src decode.Source) {
	if !reflect.ValueOf(src).Comparable() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bySource, src)
}

func sameEncoding(a, b encoding.Encoding) bool {
	if isUTF8(a) || isUTF8(b) {
		return isUTF8(a) && isUTF8(b)
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	return va.Comparable() && vb.Comparable() && va.Equal(vb)
}

func isUTF8(e encoding.Encoding) bool {
	return e == nil || e == unicode.UTF8
}
