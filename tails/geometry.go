// Package tails builds and animates the tail ring: 20 box spirals that pop in segment by
// segment, hold, pop out again and then re-roll their rotation.
package tails

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-tails/config"
	"github.com/Carmen-Shannon/oxy-tails/engine/game_object"
	"github.com/Carmen-Shannon/oxy-tails/engine/model"
	"github.com/Carmen-Shannon/oxy-tails/engine/renderer/material"

	"github.com/go-gl/mathgl/mgl32"
)

// SegmentScale returns the cross-section scale of segment i: 1 at the root, shrinking
// linearly towards the tip.
//
// Parameters:
//   - i: the segment index
//   - amount: the number of segments in the tail
//
// Returns:
//   - float32: 1 - i/amount
func SegmentScale(i, amount int) float32 {
	return 1 - float32(i)/float32(amount)
}

// CalcPosition returns the position of segment i on the decaying spiral. Index -1 is the
// anchor the first segment faces.
//
// Parameters:
//   - i: the segment index, -1 for the anchor
//   - cfg: the tail geometry
//
// Returns:
//   - mgl32.Vec3: the segment position in tail space
func CalcPosition(i int, cfg config.TailConfig) mgl32.Vec3 {
	s := float64(SegmentScale(i, cfg.Amount))
	a := 2 * math.Pi * float64(i) / float64(cfg.Amount)
	return mgl32.Vec3{
		float32(math.Sin(a) * s),
		float32((math.Cos(a) - 1) * s),
		float32(i) * (cfg.Depth + cfg.Gap),
	}
}

// IsReflective reports whether tail n uses the reflective material.
//
// Parameters:
//   - n: the tail index
//   - every: the reflective period, 4 in the stock scene
//
// Returns:
//   - bool: true when n is a multiple of every
func IsReflective(n, every int) bool {
	return every > 0 && n%every == 0
}

// BuildTail creates tail_<n>: a group of cfg.Amount box segments sharing box and mat.
// Segments start hidden and both cast and receive shadows.
//
// Parameters:
//   - n: the tail index
//   - cfg: the tail geometry
//   - box: the shared box model, sized cfg.Width x cfg.Height x cfg.Depth
//   - mat: the material of every segment
//
// Returns:
//   - game_object.GameObject: the tail group
func BuildTail(n int, cfg config.TailConfig, box model.Model, mat material.Material) game_object.GameObject {
	tail := game_object.NewGameObject(game_object.WithName(fmt.Sprintf("tail_%d", n)))

	prev := CalcPosition(-1, cfg)
	for i := range cfg.Amount {
		pos := CalcPosition(i, cfg)
		s := SegmentScale(i, cfg.Amount)

		seg := game_object.NewGameObject(
			game_object.WithName(fmt.Sprintf("tail_%d_%d", n, i)),
			game_object.WithModel(box),
			game_object.WithMaterial(mat),
			game_object.WithShadows(true, true),
			game_object.WithVisible(false),
			game_object.WithPosition(pos.X(), pos.Y(), pos.Z()),
			game_object.WithScale(s, s, 1),
		)
		seg.LookAt(prev)
		prev = pos

		tail.Add(seg)
	}
	return tail
}

// NewSegmentBox creates the box model shared by every segment.
//
// Parameters:
//   - cfg: the tail geometry
//
// Returns:
//   - model.Model: the box model
func NewSegmentBox(cfg config.TailConfig) model.Model {
	return model.NewBox("tail_segment", cfg.Width, cfg.Height, cfg.Depth)
}
