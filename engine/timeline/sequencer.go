package timeline

import "errors"

// ErrBusy is returned when a timeline is started while another is running.
var ErrBusy = errors.New("timeline: sequencer is running")

// State is the sequencer state.
type State int

const (
	// StateIdle means no timeline is running and a new one may start.
	StateIdle State = iota
	// StateRunning means a timeline is in flight.
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Sequencer runs at most one Timeline at a time. It is driven from a single goroutine.
type Sequencer struct {
	state   State
	current *Timeline
	runs    int
}

// NewSequencer creates an idle Sequencer.
//
// Returns:
//   - *Sequencer: the sequencer
func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// State returns the current state.
func (s *Sequencer) State() State {
	return s.state
}

// Runs returns how many timelines have been started.
func (s *Sequencer) Runs() int {
	return s.runs
}

// Start begins tl. It fails with ErrBusy unless the sequencer is idle.
//
// Parameters:
//   - tl: the timeline to run
//
// Returns:
//   - error: ErrBusy if a timeline is already running
func (s *Sequencer) Start(tl *Timeline) error {
	if s.state != StateIdle {
		return ErrBusy
	}
	s.current = tl
	s.state = StateRunning
	s.runs++
	return nil
}

// StartIfIdle builds and starts a timeline in one step when the sequencer is idle.
// build is not called while running.
//
// Parameters:
//   - build: constructs the timeline to run
//
// Returns:
//   - bool: true if a new timeline was started
func (s *Sequencer) StartIfIdle(build func() *Timeline) bool {
	if s.state != StateIdle {
		return false
	}
	return s.Start(build()) == nil
}

// Reset drops the current timeline and returns to idle. Timelines usually schedule it as
// their final event.
func (s *Sequencer) Reset() {
	s.current = nil
	s.state = StateIdle
}

// Advance moves the running timeline forward. When the timeline has fired every event the
// sequencer returns to idle.
//
// Parameters:
//   - dt: seconds to advance
//
// Returns:
//   - int: the number of events fired
func (s *Sequencer) Advance(dt float64) int {
	tl := s.current
	if tl == nil {
		return 0
	}
	fired := tl.Advance(dt)
	if s.current == tl && tl.Done() {
		s.Reset()
	}
	return fired
}
