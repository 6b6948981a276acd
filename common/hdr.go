package common

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
)

// ErrInvalidHDR is returned when a Radiance HDR stream is malformed.
var ErrInvalidHDR = errors.New("invalid radiance hdr")

// HDRImage holds linear floating point RGB pixels decoded from a Radiance
// (.hdr / .pic) file. Pix is row-major with three floats per pixel, starting
// at the top-left corner.
type HDRImage struct {
	Width  int
	Height int
	Pix    []float32
}

// At returns the linear RGB value at (x, y).
func (h *HDRImage) At(x, y int) [3]float32 {
	i := (y*h.Width + x) * 3
	return [3]float32{h.Pix[i], h.Pix[i+1], h.Pix[i+2]}
}

// ToneMappedRGBA converts the image into 8-bit RGBA using the Reinhard operator
// v/(1+v) on each channel. The mapping is invertible (v = t/(1-t)) so shaders can
// recover an approximation of the original radiance from an 8-bit texture.
//
// Returns:
//   - []byte: RGBA pixel data, 4 bytes per pixel
func (h *HDRImage) ToneMappedRGBA() []byte {
	out := make([]byte, h.Width*h.Height*4)
	for p := 0; p < h.Width*h.Height; p++ {
		for c := range 3 {
			v := h.Pix[p*3+c]
			if v < 0 || math.IsNaN(float64(v)) {
				v = 0
			}
			out[p*4+c] = uint8(math.Round(float64(v/(1+v)) * 255))
		}
		out[p*4+3] = 255
	}
	return out
}

// DecodeHDR decodes a Radiance RGBE image with the rgbe codec. Both flat and
// run-length encoded scanlines are supported. XYZE images and any orientation
// other than "-Y height +X width" are rejected.
//
// Parameters:
//   - r: the reader providing the file contents
//
// Returns:
//   - *HDRImage: the decoded image
//   - error: error if the stream is not a valid Radiance RGBE file
func DecodeHDR(r io.Reader) (*HDRImage, error) {
	decoded, err := rgbe.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHDR, err)
	}

	src, ok := decoded.(*hdr.RGB)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported color model %T", ErrInvalidHDR, decoded)
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: bad dimensions %dx%d", ErrInvalidHDR, b.Dx(), b.Dy())
	}

	img := &HDRImage{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    make([]float32, b.Dx()*b.Dy()*3),
	}
	for y := range img.Height {
		row := img.Pix[y*img.Width*3:]
		for x := range img.Width {
			c := src.RGBAt(b.Min.X+x, b.Min.Y+y)
			row[x*3] = float32(c.R)
			row[x*3+1] = float32(c.G)
			row[x*3+2] = float32(c.B)
		}
	}
	return img, nil
}
