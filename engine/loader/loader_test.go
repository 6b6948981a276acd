package loader

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/Carmen-Shannon/oxy-tails/common"

	"github.com/cogentcore/webgpu/wgpu"
)

// writeHDR writes a flat (non run-length) Radiance file of w x h pixels, all set to rgbe.
func writeHDR(t *testing.T, dir, name string, w, h int, rgbe [4]byte) string {
	t.Helper()
	var b bytes.Buffer
	b.WriteString("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n")
	b.WriteString("-Y ")
	b.WriteString(strconv.Itoa(h))
	b.WriteString(" +X ")
	b.WriteString(strconv.Itoa(w))
	b.WriteString("\n")
	for range w * h {
		b.Write(rgbe[:])
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func writePNG(t *testing.T, dir, name string, w, h int, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, c)
		}
	}
	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"images/studio.hdr", FormatHDR, false},
		{"STUDIO.PIC", FormatHDR, false},
		{"a.png", FormatImage, false},
		{"a.JPeG", FormatImage, false},
		{"a.exr", 0, true},
		{"noext", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatForPath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Fatalf("error: got %v, want ErrUnsupportedFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadHDR(t *testing.T) {
	dir := t.TempDir()
	// mantissa 128, exponent 129 decodes to about 1.0, which tone maps to about 0.5
	path := writeHDR(t, dir, "env.hdr", 4, 2, [4]byte{128, 128, 128, 129})

	l := NewLoader()
	tex, err := l.Load(path)
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	if tex.Width != 4 || tex.Height != 2 {
		t.Errorf("size: got %dx%d, want 4x2", tex.Width, tex.Height)
	}
	if tex.Format != wgpu.TextureFormatRGBA8Unorm {
		t.Errorf("format: got %v, want RGBA8Unorm", tex.Format)
	}
	if got := tex.Pixels[0]; got < 127 || got > 129 {
		t.Errorf("tone mapped red: got %d, want about 128", got)
	}
	if tex.Pixels[3] != 255 {
		t.Errorf("alpha: got %d, want 255", tex.Pixels[3])
	}

	again, err := l.Load(path)
	if err != nil {
		t.Fatalf("second Load: unexpected error: %v", err)
	}
	if again != tex {
		t.Error("second Load: got a new texture, want the cached one")
	}
}

func TestLoadPNG(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "env.png", 3, 3, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	tex, err := NewLoader().Load(path)
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	if tex.Format != wgpu.TextureFormatRGBA8UnormSrgb {
		t.Errorf("format: got %v, want RGBA8UnormSrgb", tex.Format)
	}
	if got := tex.Pixels[:4]; !bytes.Equal(got, []byte{10, 20, 30, 255}) {
		t.Errorf("first pixel: got %v, want [10 20 30 255]", got)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.hdr")
	if err := os.WriteFile(bad, []byte("not radiance"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader()
	if _, err := l.Load(filepath.Join(dir, "missing.hdr")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v, want os.ErrNotExist", err)
	}
	if _, err := l.Load(bad); !errors.Is(err, common.ErrInvalidHDR) {
		t.Errorf("malformed hdr: got %v, want ErrInvalidHDR", err)
	}
	if _, err := l.Load(filepath.Join(dir, "env.tga")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("unknown extension: got %v, want ErrUnsupportedFormat", err)
	}
	if l.Get(bad) != nil {
		t.Error("failed load was cached")
	}
}

func TestLoadDownscales(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "wide.png", 64, 32, color.RGBA{R: 200, A: 255})

	tex, err := NewLoader(WithMaxWidth(16)).Load(path)
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	if tex.Width != 16 || tex.Height != 8 {
		t.Errorf("size: got %dx%d, want 16x8", tex.Width, tex.Height)
	}
	if len(tex.Pixels) != 16*8*4 {
		t.Errorf("pixel bytes: got %d, want %d", len(tex.Pixels), 16*8*4)
	}
	if tex.Pixels[0] != 200 {
		t.Errorf("resampled red: got %d, want 200", tex.Pixels[0])
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	paths := map[string]string{
		"env":    writeHDR(t, dir, "env.hdr", 2, 1, [4]byte{128, 128, 128, 129}),
		"albedo": writePNG(t, dir, "albedo.png", 2, 2, color.RGBA{A: 255}),
	}

	got, err := NewLoader(WithWorkers(2)).LoadAll(context.Background(), paths)
	if err != nil {
		t.Fatalf("LoadAll: unexpected error: %v", err)
	}
	if len(got) != 2 || got["env"] == nil || got["albedo"] == nil {
		t.Errorf("LoadAll: got %d textures, want env and albedo", len(got))
	}
}

func TestLoadAllReportsFailure(t *testing.T) {
	dir := t.TempDir()
	paths := map[string]string{
		"env":     writeHDR(t, dir, "env.hdr", 2, 1, [4]byte{128, 128, 128, 129}),
		"missing": filepath.Join(dir, "missing.png"),
	}

	got, err := NewLoader().LoadAll(context.Background(), paths)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("LoadAll error: got %v, want os.ErrNotExist", err)
	}
	if got["env"] == nil {
		t.Error("successful load missing from partial result")
	}
}

func TestLoadAllCancelled(t *testing.T) {
	dir := t.TempDir()
	paths := map[string]string{"env": writeHDR(t, dir, "env.hdr", 2, 1, [4]byte{128, 128, 128, 129})}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewLoader().LoadAll(ctx, paths); !errors.Is(err, context.Canceled) {
		t.Errorf("LoadAll error: got %v, want context.Canceled", err)
	}
}

func TestLoadReaderCaches(t *testing.T) {
	var b bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if err := png.Encode(&b, img); err != nil {
		t.Fatal(err)
	}

	l := NewLoader()
	tex, err := l.LoadReader("inline", &b, FormatImage)
	if err != nil {
		t.Fatalf("LoadReader: unexpected error: %v", err)
	}
	if l.Get("inline") != tex {
		t.Error("Get after LoadReader: got different texture, want cached one")
	}
	if n := len(l.Textures()); n != 1 {
		t.Errorf("Textures: got %d entries, want 1", n)
	}
}
