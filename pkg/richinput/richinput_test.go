// ABOUTME: Shared helpers for richinput tests: a step-scripted source and a controllable clock.
// ABOUTME: Steps either deliver input bytes or run a callback while the reader is idle.

package richinput

import (
	"io"
	"time"

	"github.com/mauromedda/richinput/pkg/richinput/input"
)

// step is either a chunk of input or an action run while the reader would block.
type step struct {
	input string
	do    func()
}

// stepSource replays steps. An action step runs and reports no data, so the
// read loop goes through one idle cycle before the next step.
type stepSource struct {
	steps []step
}

func (s *stepSource) ReadAvailable(p []byte) (int, error) {
	if len(s.steps) == 0 {
		return 0, io.EOF
	}
	st := s.steps[0]
	s.steps = s.steps[1:]
	if st.do != nil {
		st.do()
		return 0, nil
	}
	return copy(p, st.input), nil
}

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{now: time.Unix(1000, 0)} }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// fastInput keeps idle waits short so scripted tests run quickly.
var fastInput = input.Options{Timeout: 5 * time.Millisecond, PollInterval: time.Millisecond}
