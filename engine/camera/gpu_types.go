package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
)

// gpuCameraUniformSize is the WGSL size of CameraUniform: a mat4x4 followed by a vec3
// padded out to 16 bytes.
const gpuCameraUniformSize = 80

// GPUCameraUniformSource is the WGSL CameraUniform struct, included by the lit, shadow and
// line shaders as <camera>.
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniform mirrors CameraUniform in GPUCameraUniformSource. The lit pass reads
// CameraPosition for specular highlights and the env map reflection vector.
type GPUCameraUniform struct {
	ViewProj       [16]float32
	CameraPosition [3]float32
}

// Size returns the byte size of the uniform as laid out on the GPU.
//
// Returns:
//   - int: 80
func (g *GPUCameraUniform) Size() int {
	return gpuCameraUniformSize
}

// MarshalTo writes the uniform into buf, which must hold at least Size bytes. The
// trailing padding word is zeroed.
//
// Parameters:
//   - buf: the destination buffer
func (g *GPUCameraUniform) MarshalTo(buf []byte) {
	for i, v := range g.ViewProj {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	for i, v := range g.CameraPosition {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(v))
	}
	binary.LittleEndian.PutUint32(buf[76:], 0)
}

// Marshal returns the uniform as a new GPU upload buffer.
//
// Returns:
//   - []byte: Size bytes
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, gpuCameraUniformSize)
	g.MarshalTo(buf)
	return buf
}
