package session

import (
	"image"

	"github.com/scrollshot/scrollshot/internal/cv"
)

// PollState classifies one live poll of the capture region.
type PollState int

const (
	// PollUnchanged means the content matches the previous poll.
	PollUnchanged PollState = iota
	// PollScrolling means the content is actively changing.
	PollScrolling
	// PollCaptured means the content was scrolling and has stabilized,
	// so the current frame should be persisted.
	PollCaptured
)

func (s PollState) String() string {
	switch s {
	case PollUnchanged:
		return "unchanged"
	case PollScrolling:
		return "scrolling"
	case PollCaptured:
		return "captured"
	default:
		return "unknown"
	}
}

// PollResult is the outcome of one poll. Frame is non-nil only when
// State is PollCaptured; the caller owns persisting it.
type PollResult struct {
	State      PollState
	FrameCount int
	Frame      *image.RGBA
}

// Poller watches a scrolling region across polls and decides when the
// content has stabilized enough to capture. One instance per live
// session; the caller serializes Poll calls.
type Poller struct {
	changeScore  float64
	prev         *image.RGBA
	wasScrolling bool
	stableCount  int
	frameCount   int
}

// NewPoller creates a poller using the given change threshold. Pass
// cv.DefaultChangeThreshold unless tuning for tests.
func NewPoller(changeThreshold float64) *Poller {
	if changeThreshold <= 0 {
		changeThreshold = cv.DefaultChangeThreshold
	}
	return &Poller{changeScore: changeThreshold}
}

// Reset reinitializes all poll state. Must be called at session start.
func (p *Poller) Reset() {
	p.prev = nil
	p.wasScrolling = false
	p.stableCount = 0
	p.frameCount = 0
}

// Poll classifies the current frame against the previous poll.
//
// The first poll stores the frame as the baseline and reports it
// captured. Later polls report Scrolling while the difference score
// stays at or above the threshold, and Captured on the first stable
// poll after scrolling. A single noisy frame never produces an error;
// degenerate frames simply score as maximally different.
func (p *Poller) Poll(current *image.RGBA) PollResult {
	if p.prev == nil {
		p.prev = current
		p.frameCount = 1
		return PollResult{State: PollCaptured, FrameCount: 1, Frame: current}
	}

	diff, _ := cv.Difference(p.prev, current)

	switch {
	case diff >= p.changeScore:
		p.wasScrolling = true
		p.stableCount = 0
		p.prev = current
		return PollResult{State: PollScrolling, FrameCount: p.frameCount}

	case p.wasScrolling:
		p.wasScrolling = false
		p.stableCount = 0
		p.prev = current
		p.frameCount++
		return PollResult{State: PollCaptured, FrameCount: p.frameCount, Frame: current}

	default:
		return PollResult{State: PollUnchanged, FrameCount: p.frameCount}
	}
}

// FrameCount returns the number of frames captured so far.
func (p *Poller) FrameCount() int {
	return p.frameCount
}
