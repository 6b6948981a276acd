package tails

import (
	"math"

	"github.com/Carmen-Shannon/oxy-tails/engine/game_object"

	"github.com/go-gl/mathgl/mgl32"
)

// maxAxisDraws bounds the retries for a degenerate axis before falling back to +Y.
const maxAxisDraws = 8

// Source supplies uniform values in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Randomizer draws random rotations for the tails.
type Randomizer struct {
	src Source
}

// NewRandomizer creates a Randomizer reading from src.
//
// Parameters:
//   - src: the random source
//
// Returns:
//   - *Randomizer: the randomizer
func NewRandomizer(src Source) *Randomizer {
	return &Randomizer{src: src}
}

// Draw returns a unit axis with components drawn from [-1, 1] and an angle in [0, 2π).
// A zero or non-finite axis is redrawn up to maxAxisDraws times, then replaced by +Y.
//
// Returns:
//   - mgl32.Vec3: the unit axis
//   - float32: the angle in radians
func (r *Randomizer) Draw() (mgl32.Vec3, float32) {
	axis := mgl32.Vec3{0, 1, 0}
	for range maxAxisDraws {
		x := r.src.Float64()*2 - 1
		y := r.src.Float64()*2 - 1
		z := r.src.Float64()*2 - 1
		n := math.Sqrt(x*x + y*y + z*z)
		if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
			continue
		}
		axis = mgl32.Vec3{float32(x / n), float32(y / n), float32(z / n)}
		break
	}
	return axis, drawAngle(r.src.Float64())
}

// drawAngle maps u in [0, 1) to [0, 2π) in float32. Draws that round up to 2π wrap to 0.
func drawAngle(u float64) float32 {
	angle := float32(u * 2 * math.Pi)
	if angle >= 2*math.Pi {
		return 0
	}
	return angle
}

// Apply rotates obj by a fresh draw in its local space. Rotations accumulate.
//
// Parameters:
//   - obj: the tail group to rotate
func (r *Randomizer) Apply(obj game_object.GameObject) {
	axis, angle := r.Draw()
	obj.RotateOnAxis(axis, angle)
}
