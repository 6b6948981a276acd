package loader

import (
	"github.com/Carmen-Shannon/oxy-tails/common"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithMaxWidth sets the widest texture kept after decoding. Wider textures are downscaled
// with bilinear filtering. Values <= 0 disable downscaling.
//
// Parameters:
//   - width: the maximum width in pixels
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithMaxWidth(width int) LoaderBuilderOption {
	return func(l *loader) {
		l.maxWidth = width
	}
}

// WithWorkers sets the number of goroutines LoadAll decodes on.
//
// Parameters:
//   - n: the worker count (minimum 1)
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = max(n, 1)
	}
}

// WithTexture pre-populates the texture cache.
//
// Parameters:
//   - key: the cache key for the texture
//   - tex: the texture to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithTexture(key string, tex *common.TextureStagingData) LoaderBuilderOption {
	return func(l *loader) {
		l.textureCache[key] = tex
	}
}
