package loader

import (
	"fmt"
	"io"

	"github.com/Carmen-Shannon/oxy-tails/common"

	"github.com/cogentcore/webgpu/wgpu"
)

// loaderBackend decodes one image format into texture staging data.
type loaderBackend interface {
	// Decode reads a complete image from r.
	//
	// Parameters:
	//   - r: the reader providing the encoded image
	//
	// Returns:
	//   - *common.TextureStagingData: RGBA8 pixels with the texture format to upload them as
	//   - error: error if the stream cannot be decoded
	Decode(r io.Reader) (*common.TextureStagingData, error)
}

// hdrLoaderBackend decodes Radiance RGBE images. Radiance is tone mapped with v/(1+v) into
// linear 8-bit RGBA so shaders can invert the mapping.
type hdrLoaderBackend struct{}

func (hdrLoaderBackend) Decode(r io.Reader) (*common.TextureStagingData, error) {
	img, err := common.DecodeHDR(r)
	if err != nil {
		return nil, err
	}
	return &common.TextureStagingData{
		Pixels: img.ToneMappedRGBA(),
		Width:  uint32(img.Width),
		Height: uint32(img.Height),
		Format: wgpu.TextureFormatRGBA8Unorm,
	}, nil
}

// imageLoaderBackend decodes PNG and JPEG images as sRGB colour data.
type imageLoaderBackend struct{}

func (imageLoaderBackend) Decode(r io.Reader) (*common.TextureStagingData, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	tex := &common.ImportedTexture{Data: data}
	pixels, width, height, err := tex.Decode()
	if err != nil {
		return nil, err
	}
	return &common.TextureStagingData{
		Pixels: pixels,
		Width:  width,
		Height: height,
		Format: wgpu.TextureFormatRGBA8UnormSrgb,
	}, nil
}
