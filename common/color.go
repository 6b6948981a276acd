package common

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseHexColor parses a "#rrggbb" (or "#rgb") hex string into linear RGB
// components suitable for shading. Hex colours are authored in sRGB, so the
// result is converted to linear space before it reaches the GPU.
//
// Parameters:
//   - hex: the colour string
//
// Returns:
//   - [3]float32: the linear RGB colour
//   - error: error if the string is not a valid hex colour
func ParseHexColor(hex string) ([3]float32, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return [3]float32{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.LinearRgb()
	return [3]float32{float32(r), float32(g), float32(b)}, nil
}

// MustParseHexColor is like ParseHexColor but panics on invalid input. It is
// intended for compile-time constant colours.
//
// Parameters:
//   - hex: the colour string
//
// Returns:
//   - [3]float32: the linear RGB colour
func MustParseHexColor(hex string) [3]float32 {
	c, err := ParseHexColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}
