// Package session tracks the bounded lifecycle of a scrolling capture:
// how many frames were accepted, how tall the capture has grown, and
// when to auto-stop.
package session

// State is the scroll session lifecycle state.
type State int

const (
	StateReady State = iota
	StateCapturing
	StatePaused
	StateDone
	StateError
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateCapturing:
		return "capturing"
	case StatePaused:
		return "paused"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// terminal reports whether no further field changes are allowed.
func (s State) terminal() bool {
	return s == StateDone || s == StateError
}

// SkipReason explains a rejected append.
type SkipReason int

const (
	SkipDuplicate SkipReason = iota
	SkipTooSmallDelta
	SkipMatchFailed
)

// StopReason explains why a session stopped accumulating frames.
type StopReason int

const (
	StopUser StopReason = iota
	StopTimeout
	StopReachedMaxHeight
	StopNoNewContent
	StopConsecutiveFailures
)

func (r StopReason) String() string {
	switch r {
	case StopUser:
		return "user"
	case StopTimeout:
		return "timeout"
	case StopReachedMaxHeight:
		return "reached_max_height"
	case StopNoNewContent:
		return "no_new_content"
	case StopConsecutiveFailures:
		return "consecutive_failures"
	default:
		return "unknown"
	}
}

// AppendKind tags an AppendResult.
type AppendKind int

const (
	AppendAccepted AppendKind = iota
	AppendSkipped
	AppendAutoStopped
)

// AppendResult is the outcome of feeding one frame into the session.
type AppendResult struct {
	Kind AppendKind
	// Dy and Score are set for accepted appends.
	Dy    int
	Score float64
	// Skip is set when Kind is AppendSkipped.
	Skip SkipReason
	// Stop is set when Kind is AppendAutoStopped.
	Stop StopReason
}

// Config bounds a capture session. All fields are immutable after the
// session is created.
type Config struct {
	MaxHeightPx            int
	MaxFrames              int
	ThrottleMs             int
	MaxConsecutiveFailures int
}

// DefaultConfig mirrors the limits used for interactive capture.
func DefaultConfig() Config {
	return Config{
		MaxHeightPx:            20000,
		MaxFrames:              300,
		ThrottleMs:             100,
		MaxConsecutiveFailures: 3,
	}
}

// Progress is a read-only snapshot of session counters.
type Progress struct {
	Frames           int
	CapturedHeightPx int
	State            State
}

// Session is the capture state machine. It is a single-writer value:
// the caller serializes access, the session performs no locking.
type Session struct {
	state               State
	config              Config
	frames              int
	capturedHeightPx    int
	consecutiveFailures int
	// stopReason records why the session entered a terminal state so
	// appends against a finished session can report it back.
	stopReason StopReason
}

// New creates a session in the Ready state.
func New(config Config) *Session {
	return &Session{state: StateReady, config: config}
}

// MarkCapturing moves Ready or Paused to Capturing. Any other state is
// left untouched.
func (s *Session) MarkCapturing() {
	if s.state == StateReady || s.state == StatePaused {
		s.state = StateCapturing
	}
}

// Pause suspends a capturing session until the next MarkCapturing.
func (s *Session) Pause() {
	if s.state == StateCapturing {
		s.state = StatePaused
	}
}

// AppendAccepted records a successfully matched frame that added the
// given pixel height. The failure streak resets. When the accumulated
// height or frame count reaches its limit the session finishes with
// AutoStopped(ReachedMaxHeight).
func (s *Session) AppendAccepted(addedHeight int, score float64) AppendResult {
	if s.state.terminal() {
		return AppendResult{Kind: AppendAutoStopped, Stop: s.stopReason}
	}

	s.frames++
	s.capturedHeightPx = saturatingAdd(s.capturedHeightPx, addedHeight)
	s.consecutiveFailures = 0

	if s.capturedHeightPx >= s.config.MaxHeightPx || s.frames >= s.config.MaxFrames {
		s.state = StateDone
		s.stopReason = StopReachedMaxHeight
		return AppendResult{Kind: AppendAutoStopped, Stop: StopReachedMaxHeight}
	}

	s.state = StateCapturing
	return AppendResult{Kind: AppendAccepted, Dy: addedHeight, Score: score}
}

// AppendFailed records a frame that could not be matched. The session
// errors out once the failure streak reaches its limit.
func (s *Session) AppendFailed() AppendResult {
	if s.state.terminal() {
		return AppendResult{Kind: AppendAutoStopped, Stop: s.stopReason}
	}

	if s.consecutiveFailures < int(^uint(0)>>1) {
		s.consecutiveFailures++
	}
	if s.consecutiveFailures >= s.config.MaxConsecutiveFailures {
		s.state = StateError
		s.stopReason = StopConsecutiveFailures
		return AppendResult{Kind: AppendAutoStopped, Stop: StopConsecutiveFailures}
	}

	return AppendResult{Kind: AppendSkipped, Skip: SkipMatchFailed}
}

// Cancel finishes the session unconditionally.
func (s *Session) Cancel() {
	if !s.state.terminal() {
		s.stopReason = StopUser
	}
	s.state = StateDone
}

// Progress returns a snapshot without side effects.
func (s *Session) Progress() Progress {
	return Progress{
		Frames:           s.frames,
		CapturedHeightPx: s.capturedHeightPx,
		State:            s.state,
	}
}

// Config returns the immutable session limits.
func (s *Session) Config() Config {
	return s.config
}

func saturatingAdd(a, b int) int {
	const maxInt = int(^uint(0) >> 1)
	if b > 0 && a > maxInt-b {
		return maxInt
	}
	sum := a + b
	if sum < 0 {
		return 0
	}
	return sum
}
