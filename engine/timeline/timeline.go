package timeline

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Position places a step on a Timeline.
type Position struct {
	kind    positionKind
	seconds float64 // absolute time for positionAt
	percent float64 // fraction of the previous step's duration for positionPrevStart
}

type positionKind int

const (
	positionEnd positionKind = iota
	positionAt
	positionPrevStart
)

// End places a step at the current end of the timeline.
//
// Returns:
//   - Position: the end position
func End() Position {
	return Position{kind: positionEnd}
}

// At places a step at an absolute time in seconds.
//
// Parameters:
//   - seconds: the start time
//
// Returns:
//   - Position: the absolute position
func At(seconds float64) Position {
	return Position{kind: positionAt, seconds: seconds}
}

// PrevStart places a step at the previous step's start plus percent of its duration.
// PrevStart(0.1) is written "<10%". The first step of a timeline starts at 0.
//
// Parameters:
//   - percent: fraction of the previous duration, 0.1 for 10%
//
// Returns:
//   - Position: the relative position
func PrevStart(percent float64) Position {
	return Position{kind: positionPrevStart, percent: percent}
}

// ParsePosition parses "" (end), "<" or "<P%" (previous start plus P percent of its duration)
// and plain seconds ("1.5").
//
// Parameters:
//   - s: the position string
//
// Returns:
//   - Position: the parsed position
//   - error: error if s is not a valid position
func ParsePosition(s string) (Position, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return End(), nil
	case s == "<":
		return PrevStart(0), nil
	case strings.HasPrefix(s, "<") && strings.HasSuffix(s, "%"):
		p, err := strconv.ParseFloat(s[1:len(s)-1], 64)
		if err != nil {
			return Position{}, fmt.Errorf("invalid position %q: %w", s, err)
		}
		return PrevStart(p / 100), nil
	default:
		secs, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Position{}, fmt.Errorf("invalid position %q: %w", s, err)
		}
		return At(secs), nil
	}
}

type event struct {
	at float64
	fn func()
}

// Timeline is an ordered list of callbacks fired as elapsed time passes them. Steps are
// added with Stagger and Call; the timeline is then driven with Advance.
type Timeline struct {
	events []event
	next   int

	elapsed float64
	end     float64

	hasPrev      bool
	prevStart    float64
	prevDuration float64
}

// New creates an empty Timeline.
//
// Returns:
//   - *Timeline: the timeline
func New() *Timeline {
	return &Timeline{}
}

// Stagger adds a step that fires targets[j] at start + j*stagger. The step lasts
// (len(targets)-1)*stagger seconds and starts at pos plus delay.
//
// Parameters:
//   - targets: the callbacks to fire in order
//   - stagger: seconds between consecutive targets
//   - pos: where the step is placed
//   - delay: extra seconds added to the resolved position
//
// Returns:
//   - *Timeline: the timeline, for chaining
func (t *Timeline) Stagger(targets []func(), stagger float64, pos Position, delay float64) *Timeline {
	start := t.resolve(pos) + delay
	duration := 0.0
	if len(targets) > 1 {
		duration = float64(len(targets)-1) * stagger
	}

	for j, fn := range targets {
		t.insert(event{at: start + float64(j)*stagger, fn: fn})
	}

	t.hasPrev = true
	t.prevStart = start
	t.prevDuration = duration
	t.end = max(t.end, start+duration)
	return t
}

// Call adds a single callback step.
//
// Parameters:
//   - fn: the callback
//   - pos: where the step is placed
//   - delay: extra seconds added to the resolved position
//
// Returns:
//   - *Timeline: the timeline, for chaining
func (t *Timeline) Call(fn func(), pos Position, delay float64) *Timeline {
	return t.Stagger([]func(){fn}, 0, pos, delay)
}

func (t *Timeline) resolve(pos Position) float64 {
	switch pos.kind {
	case positionAt:
		return pos.seconds
	case positionPrevStart:
		if !t.hasPrev {
			return 0
		}
		return t.prevStart + pos.percent*t.prevDuration
	default:
		return t.end
	}
}

// insert keeps events sorted by time; events at the same time keep insertion order.
func (t *Timeline) insert(e event) {
	i := sort.Search(len(t.events), func(i int) bool { return t.events[i].at > e.at })
	t.events = append(t.events, event{})
	copy(t.events[i+1:], t.events[i:])
	t.events[i] = e
}

// Advance moves the playhead forward by dt seconds and fires every event whose time has been
// reached, in time order.
//
// Parameters:
//   - dt: seconds to advance; negative values are treated as zero
//
// Returns:
//   - int: the number of events fired
func (t *Timeline) Advance(dt float64) int {
	if dt > 0 {
		t.elapsed += dt
	}
	fired := 0
	for t.next < len(t.events) && t.events[t.next].at <= t.elapsed {
		e := t.events[t.next]
		t.next++
		e.fn()
		fired++
	}
	return fired
}

// Duration returns the time of the last event.
//
// Returns:
//   - float64: the timeline length in seconds
func (t *Timeline) Duration() float64 {
	return t.end
}

// Elapsed returns the playhead position.
//
// Returns:
//   - float64: seconds advanced so far
func (t *Timeline) Elapsed() float64 {
	return t.elapsed
}

// Done reports whether every event has fired.
//
// Returns:
//   - bool: true once the playhead has passed the last event
func (t *Timeline) Done() bool {
	return t.next >= len(t.events)
}

// Len returns the number of events on the timeline.
//
// Returns:
//   - int: the event count
func (t *Timeline) Len() int {
	return len(t.events)
}
