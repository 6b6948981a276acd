package timeline

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

// recorder returns n callbacks that append their index to the log when fired.
func recorder(log *[]int, base, n int) []func() {
	fns := make([]func(), n)
	for i := range n {
		fns[i] = func() { *log = append(*log, base+i) }
	}
	return fns
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in      string
		want    Position
		wantErr bool
	}{
		{"", End(), false},
		{"<", PrevStart(0), false},
		{"<10%", PrevStart(0.1), false},
		{" <5% ", PrevStart(0.05), false},
		{"1.5", At(1.5), false},
		{"<abc%", Position{}, true},
		{"soon", Position{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePosition(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("got nil error, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.kind != tt.want.kind || !near(got.percent, tt.want.percent) || !near(got.seconds, tt.want.seconds) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStaggerPlacement(t *testing.T) {
	tests := []struct {
		name         string
		build        func(tl *Timeline)
		wantDuration float64
	}{
		{
			name: "single step starts at zero",
			build: func(tl *Timeline) {
				tl.Stagger(make([]func(), 5), 0.05, PrevStart(0.1), 0)
			},
			wantDuration: 0.2,
		},
		{
			name: "relative to previous start",
			build: func(tl *Timeline) {
				tl.Stagger(make([]func(), 11), 0.05, PrevStart(0.1), 0) // 0..0.5
				tl.Stagger(make([]func(), 11), 0.05, PrevStart(0.1), 0) // 0.05..0.55
			},
			wantDuration: 0.55,
		},
		{
			name: "delay shifts the start",
			build: func(tl *Timeline) {
				tl.Stagger(make([]func(), 3), 0.05, PrevStart(0.1), 0)
				tl.Stagger(make([]func(), 3), 0.05, PrevStart(0.05), 5) // 5.005..5.105
			},
			wantDuration: 5.105,
		},
		{
			name: "call appended at end with delay",
			build: func(tl *Timeline) {
				tl.Stagger(make([]func(), 3), 0.5, At(0), 0)
				tl.Call(func() {}, End(), 1)
			},
			wantDuration: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := New()
			tt.build(tl)
			if got := tl.Duration(); !near(got, tt.wantDuration) {
				t.Errorf("Duration: got %v, want %v", got, tt.wantDuration)
			}
		})
	}
}

func TestAdvanceFiresInTimeOrder(t *testing.T) {
	var log []int
	tl := New()
	tl.Stagger(recorder(&log, 0, 3), 1, At(2), 0)  // 2, 3, 4
	tl.Stagger(recorder(&log, 10, 2), 1, At(0), 0) // 0, 1
	tl.Call(func() { log = append(log, 99) }, End(), 0)

	steps := []struct {
		dt        float64
		wantFired int
	}{
		{0, 1},   // t=0 fires 10
		{0.5, 0}, // t=0.5
		{2.5, 3}, // t=3 fires 11, 0, 1
		{10, 2},  // t=13 fires 2, 99
		{1, 0},
	}
	for i, s := range steps {
		if got := tl.Advance(s.dt); got != s.wantFired {
			t.Errorf("step %d: fired %d, want %d", i, got, s.wantFired)
		}
	}

	want := []int{10, 11, 0, 1, 2, 99}
	if len(log) != len(want) {
		t.Fatalf("log: got %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("log: got %v, want %v", log, want)
		}
	}
	if !tl.Done() {
		t.Error("Done: got false, want true")
	}
}

func TestAdvanceKeepsInsertionOrderForTies(t *testing.T) {
	var log []int
	tl := New()
	tl.Call(func() { log = append(log, 1) }, At(1), 0)
	tl.Call(func() { log = append(log, 2) }, At(1), 0)
	tl.Call(func() { log = append(log, 0) }, At(0.5), 0)
	tl.Advance(1)

	want := []int{0, 1, 2}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("got %v, want %v", log, want)
		}
	}
}

func TestAdvanceIgnoresNegativeDelta(t *testing.T) {
	tl := New()
	tl.Call(func() {}, At(1), 0)
	tl.Advance(0.5)
	tl.Advance(-10)
	if got := tl.Elapsed(); !near(got, 0.5) {
		t.Errorf("Elapsed: got %v, want 0.5", got)
	}
}

func TestSequencerLifecycle(t *testing.T) {
	s := NewSequencer()
	if s.State() != StateIdle {
		t.Fatalf("initial state: got %v, want idle", s.State())
	}

	tl := New()
	tl.Call(func() {}, At(1), 0)
	if err := s.Start(tl); err != nil {
		t.Fatalf("Start: unexpected error: %v", err)
	}
	if s.State() != StateRunning {
		t.Errorf("state after Start: got %v, want running", s.State())
	}
	if err := s.Start(New()); !errors.Is(err, ErrBusy) {
		t.Errorf("second Start: got %v, want ErrBusy", err)
	}

	s.Advance(0.5)
	if s.State() != StateRunning {
		t.Errorf("state mid-run: got %v, want running", s.State())
	}
	s.Advance(0.5)
	if s.State() != StateIdle {
		t.Errorf("state after last event: got %v, want idle", s.State())
	}
	if s.Runs() != 1 {
		t.Errorf("Runs: got %d, want 1", s.Runs())
	}
}

func TestSequencerResetFromEvent(t *testing.T) {
	s := NewSequencer()
	var after bool
	tl := New()
	tl.Call(s.Reset, At(1), 0)
	tl.Call(func() { after = true }, At(1), 0)

	if err := s.Start(tl); err != nil {
		t.Fatal(err)
	}
	s.Advance(2)
	if s.State() != StateIdle {
		t.Errorf("state: got %v, want idle", s.State())
	}
	if !after {
		t.Error("events at the reset time did not fire")
	}
}

func TestSequencerStartIfIdle(t *testing.T) {
	s := NewSequencer()
	builds := 0
	build := func() *Timeline {
		builds++
		tl := New()
		tl.Call(s.Reset, At(1), 0)
		return tl
	}

	if !s.StartIfIdle(build) {
		t.Fatal("first StartIfIdle: got false, want true")
	}
	if s.StartIfIdle(build) {
		t.Error("StartIfIdle while running: got true, want false")
	}
	if builds != 1 {
		t.Errorf("builds while running: got %d, want 1", builds)
	}

	s.Advance(1)
	if !s.StartIfIdle(build) {
		t.Error("StartIfIdle after reset: got false, want true")
	}
	if s.Runs() != 2 {
		t.Errorf("Runs: got %d, want 2", s.Runs())
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{StateIdle, "idle"},
		{StateRunning, "running"},
		{State(7), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String(): got %q, want %q", int(tt.s), got, tt.want)
		}
	}
}
