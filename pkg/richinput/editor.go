// ABOUTME: Editor is the per-read context handed to every handler: the line buffer plus the active tables.
// ABOUTME: Apply performs a keymap action on the buffer and reports the resulting plan and outcome.

package richinput

import (
	"errors"
	"time"

	"github.com/mauromedda/richinput/pkg/richinput/capability"
	"github.com/mauromedda/richinput/pkg/richinput/line"
)

// ErrAborted is returned by Read when a handler aborts or the context is cancelled.
var ErrAborted = errors.New("richinput: read aborted")

// Outcome tells the read loop what to do after an event.
type Outcome int

const (
	Continue   Outcome = iota // keep reading
	Commit                    // return the buffer contents
	EndOfInput                // return the partial text with io.EOF
	Abort                     // return ErrAborted
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case Commit:
		return "commit"
	case EndOfInput:
		return "eof"
	case Abort:
		return "abort"
	}
	return "outcome(?)"
}

// Result is what a handler returns: screen operations to apply and the loop outcome.
type Result struct {
	Plan    line.Plan
	Outcome Outcome
}

// Then appends q's plan to r's and keeps the later outcome unless it is Continue.
func (r Result) Then(q Result) Result {
	out := r.Outcome
	if q.Outcome != Continue {
		out = q.Outcome
	}
	return Result{Plan: r.Plan.Then(q.Plan), Outcome: out}
}

// Editor is shared by all handlers during one read.
type Editor struct {
	Buffer *line.Buffer
	Table  capability.Table
	Keymap Keymap
	Prompt string
	// Now is the clock used by time-dependent handlers.
	Now func() time.Time
}

// Apply performs a keymap action.
func (ed *Editor) Apply(a Action) Result {
	b := ed.Buffer
	switch a {
	case ActionLeft:
		return Result{Plan: b.Move(-1)}
	case ActionRight:
		return Result{Plan: b.Move(1)}
	case ActionHome:
		return Result{Plan: b.MoveToStart()}
	case ActionEnd:
		return Result{Plan: b.MoveToEnd()}
	case ActionWordLeft:
		return Result{Plan: b.MoveWord(-1)}
	case ActionWordRight:
		return Result{Plan: b.MoveWord(1)}
	case ActionDeleteBack:
		return Result{Plan: b.DeleteBackward()}
	case ActionDeleteForward:
		return Result{Plan: b.DeleteForward()}
	case ActionDeleteWordBack:
		return Result{Plan: b.DeleteWordBackward()}
	case ActionKillToEnd:
		return Result{Plan: b.KillToEnd()}
	case ActionKillToStart:
		return Result{Plan: b.KillToStart()}
	case ActionAccept:
		return Result{Outcome: Commit}
	case ActionEOF:
		return Result{Outcome: EndOfInput}
	case ActionAbort:
		return Result{Outcome: Abort}
	}
	return Result{}
}
