package tails

import "github.com/Carmen-Shannon/oxy-tails/engine/debug"

// ComposerOption is a functional option for configuring a Composer via New.
type ComposerOption func(*Composer)

// WithPanel drives the helper visibility and the stats toggle from a debug panel.
//
// Parameters:
//   - p: the debug panel
//
// Returns:
//   - ComposerOption: a function that applies the option to a composer
func WithPanel(p debug.Panel) ComposerOption {
	return func(c *Composer) {
		c.panel = p
	}
}

// WithRandomSource sets the source of the tail rotations. Use a seeded source for a
// repeatable sequence.
//
// Parameters:
//   - src: the random source
//
// Returns:
//   - ComposerOption: a function that applies the option to a composer
func WithRandomSource(src Source) ComposerOption {
	return func(c *Composer) {
		c.rand = NewRandomizer(src)
	}
}
