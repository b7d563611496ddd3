// ABOUTME: CallbackChain: layered handlers where the last registered layer sees each event first.
// ABOUTME: Each layer decides whether and with which event to call the next one; every layer runs at most once.

package richinput

import (
	pilog "github.com/mauromedda/richinput/internal/log"
	"github.com/mauromedda/richinput/pkg/richinput/key"
)

// Next continues the chain with ev, possibly a substitute for the original.
type Next func(ev key.Event) Result

// Handler is one layer. It may inspect or replace the event, call next zero
// or one times, and post-process next's result.
type Handler func(ed *Editor, ev key.Event, next Next) Result

// Chain runs handlers around the default editing behaviour.
type Chain struct {
	handlers []Handler
	base     Handler
}

// NewChain returns a chain ending in DefaultHandler. Later handlers wrap earlier ones.
func NewChain(handlers ...Handler) *Chain {
	c := &Chain{base: DefaultHandler}
	for _, h := range handlers {
		c.Use(h)
	}
	return c
}

// Use registers h as the new outermost layer. nil is ignored.
func (c *Chain) Use(h Handler) {
	if h != nil {
		c.handlers = append(c.handlers, h)
	}
}

// Len returns the number of registered layers, excluding the default handler.
func (c *Chain) Len() int { return len(c.handlers) }

// Run passes ev through every layer, outermost first.
func (c *Chain) Run(ed *Editor, ev key.Event) Result {
	return c.call(ed, len(c.handlers)-1)(ev)
}

// call builds the continuation that invokes layer i; -1 is the default handler.
func (c *Chain) call(ed *Editor, i int) Next {
	var (
		done bool
		res  Result
	)
	return func(ev key.Event) Result {
		if done {
			pilog.Debug("chain: layer %d continued twice; keeping first result", i+1)
			return res
		}
		done = true
		if i < 0 {
			res = c.base(ed, ev, func(key.Event) Result { return Result{} })
			return res
		}
		res = c.handlers[i](ed, ev, c.call(ed, i-1))
		return res
	}
}
