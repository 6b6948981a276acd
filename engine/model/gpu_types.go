package model

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct for lit mesh pipelines.
// Matches GPUVertex layout exactly (24 bytes).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertex is the GPU-aligned representation of a single lit mesh vertex.
// Matches the WGSL VertexInput struct layout exactly (see GPUVertexSource).
// Size: 24 bytes (two tightly packed vec3<f32> attributes).
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal for lighting (12 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 24-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, 24)
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Position[i]))
		binary.LittleEndian.PutUint32(buf[12+i*4:], math.Float32bits(g.Normal[i]))
	}
	return buf
}

// GPULineVertexSource is the canonical WGSL definition of the LineVertexInput struct for helper pipelines.
// Matches GPULineVertex layout exactly (24 bytes).
//
//go:embed assets/line_vertex.wgsl
var GPULineVertexSource string

// GPULineVertex is a world-space line vertex with a flat colour, used by debug helpers.
// Size: 24 bytes.
type GPULineVertex struct {
	Position [3]float32 // offset  0: world-space position (12 bytes)
	Color    [3]float32 // offset 12: linear RGB colour (12 bytes)
}

// Size returns the size of the GPULineVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPULineVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULineVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 24-byte buffer ready for GPU upload.
func (g *GPULineVertex) Marshal() []byte {
	buf := make([]byte, 24)
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Position[i]))
		binary.LittleEndian.PutUint32(buf[12+i*4:], math.Float32bits(g.Color[i]))
	}
	return buf
}

// GPUInstanceDataSource is the canonical WGSL definition of the InstanceData struct read by the
// lit and shadow vertex shaders. Matches GPUInstanceData layout exactly (144 bytes).
//
//go:embed assets/instance_data.wgsl
var GPUInstanceDataSource string

// GPUInstanceData is the per-instance record uploaded to the instance storage buffer.
// Size: 144 bytes (two mat4x4<f32> plus one vec4<f32>, std430 aligned).
type GPUInstanceData struct {
	Model  [16]float32 // offset   0: model-to-world matrix
	Normal [16]float32 // offset  64: inverse transpose of the model matrix's upper 3x3
	Params [4]float32  // offset 128: x = receives shadows (0 or 1), yzw unused
}

// NewGPUInstanceData builds an instance record from a world matrix.
//
// Parameters:
//   - world: the instance's model-to-world matrix
//   - receiveShadow: true if the instance samples the shadow map
//
// Returns:
//   - GPUInstanceData: the packed instance
func NewGPUInstanceData(world mgl32.Mat4, receiveShadow bool) GPUInstanceData {
	normal := world.Mat3()
	if normal.Det() != 0 {
		normal = normal.Inv().Transpose()
	}
	d := GPUInstanceData{
		Model:  world,
		Normal: normal.Mat4(),
	}
	if receiveShadow {
		d.Params[0] = 1
	}
	return d
}

// Size returns the size of the GPUInstanceData struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUInstanceData) Size() int {
	return int(unsafe.Sizeof(*g))
}

// MarshalTo writes the instance into buf, which must hold at least Size() bytes.
//
// Parameters:
//   - buf: destination buffer
func (g *GPUInstanceData) MarshalTo(buf []byte) {
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Model[i]))
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Normal[i]))
	}
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[128+i*4:], math.Float32bits(g.Params[i]))
	}
}

// Marshal serializes the GPUInstanceData struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 144-byte buffer ready for GPU upload.
func (g *GPUInstanceData) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.MarshalTo(buf)
	return buf
}

// ComputeBoundingRadius calculates the bounding sphere radius from a slice of
// GPUVertex positions. The radius is the maximum distance from the origin
// across all vertices in the slice.
//
// Parameters:
//   - vertices: the vertex data to compute the bounding radius from
//
// Returns:
//   - float32: the maximum distance from the origin
func ComputeBoundingRadius(vertices []GPUVertex) float32 {
	var maxDistSq float32
	for _, v := range vertices {
		p := v.Position
		distSq := p[0]*p[0] + p[1]*p[1] + p[2]*p[2]
		if distSq > maxDistSq {
			maxDistSq = distSq
		}
	}
	return float32(math.Sqrt(float64(maxDistSq)))
}
