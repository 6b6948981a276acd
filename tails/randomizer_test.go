package tails

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/Carmen-Shannon/oxy-tails/engine/game_object"

	"github.com/go-gl/mathgl/mgl32"
)

// scriptedSource replays values, then repeats the last one.
type scriptedSource struct {
	values []float64
	i      int
}

func (s *scriptedSource) Float64() float64 {
	v := s.values[min(s.i, len(s.values)-1)]
	s.i++
	return v
}

func TestRandomizerDraw(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		wantAxis  mgl32.Vec3
		wantAngle float32
	}{
		{
			name:      "plain draw",
			values:    []float64{1, 0.5, 0.5, 0.25}, // axis (1, 0, 0)
			wantAxis:  mgl32.Vec3{1, 0, 0},
			wantAngle: math.Pi / 2,
		},
		{
			name:      "zero axis is redrawn",
			values:    []float64{0.5, 0.5, 0.5, 0.5, 0, 0.5, 0.5},
			wantAxis:  mgl32.Vec3{0, -1, 0},
			wantAngle: math.Pi,
		},
		{
			name:      "always zero falls back to +Y",
			values:    []float64{0.5},
			wantAxis:  mgl32.Vec3{0, 1, 0},
			wantAngle: math.Pi,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			axis, angle := NewRandomizer(&scriptedSource{values: tt.values}).Draw()
			for k := range 3 {
				if !near(axis[k], tt.wantAxis[k]) {
					t.Fatalf("axis: got %v, want %v", axis, tt.wantAxis)
				}
			}
			if !near(angle, tt.wantAngle) {
				t.Errorf("angle: got %v, want %v", angle, tt.wantAngle)
			}
		})
	}
}

func TestRandomizerAxisIsUnit(t *testing.T) {
	r := NewRandomizer(rand.New(rand.NewPCG(1, 2)))
	for i := range 1000 {
		axis, angle := r.Draw()
		if l := axis.Len(); !near(l, 1) {
			t.Fatalf("draw %d: axis length got %v, want 1", i, l)
		}
		if angle < 0 || angle >= 2*math.Pi {
			t.Fatalf("draw %d: angle got %v, want in [0, 2π)", i, angle)
		}
	}
}

func TestRandomizerApplyAccumulates(t *testing.T) {
	// two quarter turns about +X
	src := &scriptedSource{values: []float64{1, 0.5, 0.5, 0.25, 1, 0.5, 0.5, 0.25}}
	r := NewRandomizer(src)
	obj := game_object.NewGameObject()

	r.Apply(obj)
	r.Apply(obj)

	got := obj.Quaternion().Rotate(mgl32.Vec3{0, 1, 0})
	want := mgl32.Vec3{0, -1, 0}
	for k := range 3 {
		if !near(got[k], want[k]) {
			t.Fatalf("rotated +Y: got %v, want %v", got, want)
		}
	}
}

func TestDrawAngleStaysBelowFullTurn(t *testing.T) {
	tests := []struct {
		name string
		u    float64
		want float32
	}{
		{"zero", 0, 0},
		{"half", 0.5, math.Pi},
		{"rounds up to a full turn", 1 - 1e-12, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := drawAngle(tt.u)
			if got < 0 || got >= 2*math.Pi {
				t.Fatalf("drawAngle(%v): got %v, want in [0, 2π)", tt.u, got)
			}
			if !near(got, tt.want) {
				t.Errorf("drawAngle(%v): got %v, want %v", tt.u, got, tt.want)
			}
		})
	}
}
