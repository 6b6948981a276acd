package light

import "github.com/Carmen-Shannon/oxy-tails/common"

// DefaultShadowMapResolution is the default width and height in texels of the
// shadow depth texture.
const DefaultShadowMapResolution = 2048

// DefaultShadowBias is the constant depth bias applied to shadow comparisons
// to reduce shadow acne artifacts.
const DefaultShadowBias float32 = 0.002

// DefaultShadowNormalBiasScale is the multiplier applied to the shadow map
// texel world-size to compute the normal-offset bias. Typical values are 2.0–4.0.
const DefaultShadowNormalBiasScale float32 = 2.0

// ShadowCamera describes the orthographic frustum a directional light renders
// its shadow map through. Bounds are in the light's view space.
type ShadowCamera struct {
	Left, Right float32
	Bottom, Top float32
	Near, Far   float32
	// MapSize is the shadow map width and height in texels.
	MapSize int
	// Bias is the constant depth comparison bias.
	Bias float32
}

// DefaultShadowCamera returns a 20x20 unit frustum reaching 30 units from the light.
//
// Returns:
//   - ShadowCamera: the default configuration
func DefaultShadowCamera() ShadowCamera {
	return ShadowCamera{
		Left:    -10,
		Right:   10,
		Bottom:  -10,
		Top:     10,
		Near:    0.1,
		Far:     30,
		MapSize: DefaultShadowMapResolution,
		Bias:    DefaultShadowBias,
	}
}

// Projection builds the WebGPU orthographic projection of the shadow camera.
//
// Returns:
//   - [16]float32: the column-major projection matrix
func (s ShadowCamera) Projection() [16]float32 {
	var proj [16]float32
	common.Ortho(proj[:], s.Left, s.Right, s.Bottom, s.Top, s.Near, s.Far)
	return proj
}

// ViewProj builds the shadow view-projection for a light at eye aiming at target.
// When the light points nearly straight up or down the X axis is used as up.
//
// Parameters:
//   - eye: the light's world position
//   - target: the world point the light aims at
//
// Returns:
//   - [16]float32: the column-major view-projection matrix
func (s ShadowCamera) ViewProj(eye, target [3]float32) [16]float32 {
	dir := normalize3(target[0]-eye[0], target[1]-eye[1], target[2]-eye[2])
	upX, upY, upZ := float32(0), float32(1), float32(0)
	if absF32(dir[1]) > 0.99 {
		upX, upY, upZ = 1, 0, 0
	}

	var view [16]float32
	common.LookAt(view[:],
		eye[0], eye[1], eye[2],
		target[0], target[1], target[2],
		upX, upY, upZ,
	)

	proj := s.Projection()
	var vp [16]float32
	common.Mul4(vp[:], proj[:], view[:])
	return vp
}

// TexelWorldSize is the world-space width of one shadow map texel.
//
// Returns:
//   - float32: texel size in world units
func (s ShadowCamera) TexelWorldSize() float32 {
	if s.MapSize <= 0 {
		return 0
	}
	return (s.Right - s.Left) / float32(s.MapSize)
}

// FrustumCorners unprojects the eight clip-space corners of a view-projection
// matrix back into world space. The first four corners lie on the near plane and
// the last four on the far plane, each in (-x-y, +x-y, +x+y, -x+y) order.
//
// Parameters:
//   - viewProj: the column-major view-projection matrix
//
// Returns:
//   - [8][3]float32: the world-space corners
//   - bool: false if the matrix is singular
func FrustumCorners(viewProj [16]float32) ([8][3]float32, bool) {
	var inv [16]float32
	var corners [8][3]float32
	if !common.Invert4(inv[:], viewProj[:]) {
		return corners, false
	}
	ndc := [8][3]float32{
		{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
	for i, p := range ndc {
		corners[i] = common.TransformPoint(inv[:], p)
	}
	return corners, true
}

// absF32 returns the absolute value of a float32.
func absF32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
