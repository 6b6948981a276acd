package loader

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-tails/common"

	"golang.org/x/image/draw"
)

// ErrUnsupportedFormat is returned for files whose extension has no decoder.
var ErrUnsupportedFormat = errors.New("unsupported texture format")

// Format identifies the decoder used for a texture stream.
type Format int

const (
	// FormatHDR selects the Radiance RGBE decoder (.hdr, .pic).
	FormatHDR Format = iota
	// FormatImage selects the PNG/JPEG decoder.
	FormatImage
)

// DefaultMaxWidth is the widest texture the loader keeps before downscaling.
const DefaultMaxWidth = 2048

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	textureCache map[string]*common.TextureStagingData
	backends     map[Format]loaderBackend

	maxWidth int
	workers  int
	pool     worker.DynamicWorkerPool
}

// Loader reads environment maps and other textures from disk and caches the decoded pixels
// by path. Decoding runs on a worker pool so several files can load while the window comes up.
type Loader interface {
	// Load decodes the texture at path, or returns the cached copy.
	// The decoder is chosen from the file extension.
	//
	// Parameters:
	//   - path: the file path of the texture
	//
	// Returns:
	//   - *common.TextureStagingData: the decoded texture
	//   - error: ErrUnsupportedFormat for unknown extensions, or a read/decode error
	Load(path string) (*common.TextureStagingData, error)

	// LoadReader decodes a texture stream and caches it under name.
	//
	// Parameters:
	//   - name: the cache key for the texture
	//   - r: the reader providing the encoded image
	//   - format: the decoder to use
	//
	// Returns:
	//   - *common.TextureStagingData: the decoded texture
	//   - error: error if decoding fails
	LoadReader(name string, r io.Reader, format Format) (*common.TextureStagingData, error)

	// LoadAll loads every path concurrently on the worker pool. It returns when all loads have
	// finished or ctx is done. The first error (in name order) is returned alongside whatever
	// loaded successfully.
	//
	// Parameters:
	//   - ctx: cancels waiting for outstanding loads
	//   - paths: texture names mapped to file paths
	//
	// Returns:
	//   - map[string]*common.TextureStagingData: the decoded textures keyed by name
	//   - error: the first load error, or ctx.Err() if cancelled
	LoadAll(ctx context.Context, paths map[string]string) (map[string]*common.TextureStagingData, error)

	// Get retrieves a cached texture by path or name. Returns nil if not found.
	//
	// Parameters:
	//   - key: the cache key to look up
	//
	// Returns:
	//   - *common.TextureStagingData: the cached texture or nil
	Get(key string) *common.TextureStagingData

	// Textures returns a copy of the texture cache.
	//
	// Returns:
	//   - map[string]*common.TextureStagingData: all cached textures keyed by path or name
	Textures() map[string]*common.TextureStagingData
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the Radiance and PNG/JPEG backends.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		textureCache: make(map[string]*common.TextureStagingData),
		backends: map[Format]loaderBackend{
			FormatHDR:   hdrLoaderBackend{},
			FormatImage: imageLoaderBackend{},
		},
		maxWidth: DefaultMaxWidth,
		workers:  max(runtime.NumCPU()/2, 1),
	}

	for _, option := range options {
		option(l)
	}

	l.pool = worker.NewDynamicWorkerPool(l.workers, 64, 1*time.Second)
	return l
}

// FormatForPath picks the decoder for a file from its extension.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Format: the decoder format
//   - error: ErrUnsupportedFormat if the extension is not recognised
func FormatForPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hdr", ".pic":
		return FormatHDR, nil
	case ".png", ".jpg", ".jpeg":
		return FormatImage, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func (l *loader) Load(path string) (*common.TextureStagingData, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}

	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	tex, err := l.decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.mu.Lock()
	l.textureCache[path] = tex
	l.mu.Unlock()

	log.Printf("[Loader] loaded %s (%dx%d)", path, tex.Width, tex.Height)
	return tex, nil
}

func (l *loader) LoadReader(name string, r io.Reader, format Format) (*common.TextureStagingData, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}

	tex, err := l.decode(r, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	l.mu.Lock()
	l.textureCache[name] = tex
	l.mu.Unlock()
	return tex, nil
}

func (l *loader) LoadAll(ctx context.Context, paths map[string]string) (map[string]*common.TextureStagingData, error) {
	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)

	type result struct {
		tex *common.TextureStagingData
		err error
	}
	results := make([]result, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		path := paths[name]
		l.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				if err := ctx.Err(); err != nil {
					results[i] = result{err: err}
					return nil, err
				}
				tex, err := l.Load(path)
				results[i] = result{tex: tex, err: err}
				return tex, err
			},
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
	}

	out := make(map[string]*common.TextureStagingData, len(names))
	var firstErr error
	for i, name := range names {
		if results[i].err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", name, results[i].err)
			}
			continue
		}
		out[name] = results[i].tex
	}
	return out, firstErr
}

func (l *loader) Get(key string) *common.TextureStagingData {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.textureCache[key]
}

func (l *loader) Textures() map[string]*common.TextureStagingData {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*common.TextureStagingData, len(l.textureCache))
	for k, v := range l.textureCache {
		result[k] = v
	}
	return result
}

func (l *loader) decode(r io.Reader, format Format) (*common.TextureStagingData, error) {
	backend, ok := l.backends[format]
	if !ok {
		return nil, fmt.Errorf("%w: format %d", ErrUnsupportedFormat, format)
	}
	tex, err := backend.Decode(r)
	if err != nil {
		return nil, err
	}
	return downscale(tex, l.maxWidth), nil
}

// downscale resamples tex to maxWidth, preserving the aspect ratio. Textures already within
// the limit are returned unchanged.
func downscale(tex *common.TextureStagingData, maxWidth int) *common.TextureStagingData {
	if maxWidth <= 0 || int(tex.Width) <= maxWidth {
		return tex
	}
	w, h := int(tex.Width), int(tex.Height)
	nh := max(h*maxWidth/w, 1)

	src := &image.RGBA{Pix: tex.Pixels, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return &common.TextureStagingData{
		Pixels: dst.Pix,
		Width:  uint32(maxWidth),
		Height: uint32(nh),
		Format: tex.Format,
	}
}
