package model

import "github.com/Carmen-Shannon/oxy-tails/common"

// boxFaces lists each face of an axis-aligned box as its outward normal and the
// two in-plane axes used to span its four corners, wound counter-clockwise when
// viewed from outside.
var boxFaces = [6]struct {
	normal, u, v [3]float32
}{
	{normal: [3]float32{1, 0, 0}, u: [3]float32{0, 0, -1}, v: [3]float32{0, 1, 0}},
	{normal: [3]float32{-1, 0, 0}, u: [3]float32{0, 0, 1}, v: [3]float32{0, 1, 0}},
	{normal: [3]float32{0, 1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, -1}},
	{normal: [3]float32{0, -1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, 1}},
	{normal: [3]float32{0, 0, 1}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 1, 0}},
	{normal: [3]float32{0, 0, -1}, u: [3]float32{-1, 0, 0}, v: [3]float32{0, 1, 0}},
}

// BoxGeometry generates an axis-aligned box centred on the origin. Each face has
// its own four vertices so normals stay flat.
//
// Parameters:
//   - width: extent along X
//   - height: extent along Y
//   - depth: extent along Z
//
// Returns:
//   - []GPUVertex: 24 vertices
//   - []uint32: 36 triangle list indices
func BoxGeometry(width, height, depth float32) ([]GPUVertex, []uint32) {
	half := [3]float32{width / 2, height / 2, depth / 2}
	vertices := make([]GPUVertex, 0, 24)
	indices := make([]uint32, 0, 36)

	for _, f := range boxFaces {
		base := uint32(len(vertices))
		for _, c := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			var p [3]float32
			for k := range 3 {
				p[k] = (f.normal[k] + c[0]*f.u[k] + c[1]*f.v[k]) * half[k]
			}
			vertices = append(vertices, GPUVertex{Position: p, Normal: f.normal})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return vertices, indices
}

// AxesLines generates three segments from the origin along +X, +Y and +Z,
// coloured red, green and blue.
//
// Parameters:
//   - size: the length of each axis
//
// Returns:
//   - []GPULineVertex: six vertices, two per axis
func AxesLines(size float32) []GPULineVertex {
	return []GPULineVertex{
		{Position: [3]float32{0, 0, 0}, Color: [3]float32{1, 0, 0}},
		{Position: [3]float32{size, 0, 0}, Color: [3]float32{1, 0, 0}},
		{Position: [3]float32{0, 0, 0}, Color: [3]float32{0, 1, 0}},
		{Position: [3]float32{0, size, 0}, Color: [3]float32{0, 1, 0}},
		{Position: [3]float32{0, 0, 0}, Color: [3]float32{0, 0, 1}},
		{Position: [3]float32{0, 0, size}, Color: [3]float32{0, 0, 1}},
	}
}

// frustumEdges indexes the twelve edges of a frustum whose first four corners
// form the near quad and last four the far quad.
var frustumEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// FrustumLines generates the twelve edges of a frustum as a line list.
//
// Parameters:
//   - corners: near quad followed by far quad, both wound the same way
//   - color: the line colour in linear RGB
//
// Returns:
//   - []GPULineVertex: 24 vertices
func FrustumLines(corners [8][3]float32, color [3]float32) []GPULineVertex {
	out := make([]GPULineVertex, 0, len(frustumEdges)*2)
	for _, e := range frustumEdges {
		out = append(out,
			GPULineVertex{Position: corners[e[0]], Color: color},
			GPULineVertex{Position: corners[e[1]], Color: color},
		)
	}
	return out
}

// NewBox creates a triangle Model holding a box of the given size.
//
// Parameters:
//   - name: the model identifier
//   - width, height, depth: the box extents
//
// Returns:
//   - Model: the box model
func NewBox(name string, width, height, depth float32) Model {
	vertices, indices := BoxGeometry(width, height, depth)
	return NewModel(WithName(name), WithMesh(vertices, indices))
}

// NewAxes creates a line Model holding an axes helper.
//
// Parameters:
//   - size: the length of each axis
//
// Returns:
//   - Model: the axes model
func NewAxes(size float32) Model {
	return NewModel(WithName("axes_helper"), WithLines(AxesLines(size)))
}

// NewFrustumHelper creates a dynamic line Model holding a frustum wireframe.
// Call UpdateFrustumHelper to move it.
//
// Parameters:
//   - name: the model identifier
//   - corners: initial frustum corners
//   - color: the line colour in linear RGB
//
// Returns:
//   - Model: the frustum model
func NewFrustumHelper(name string, corners [8][3]float32, color [3]float32) Model {
	return NewModel(WithName(name), WithDynamic(true), WithLines(FrustumLines(corners, color)))
}

// UpdateFrustumHelper rewrites the vertex data of a frustum helper created by NewFrustumHelper.
// The new data is uploaded by the scene on its next Prepare.
//
// Parameters:
//   - m: the frustum helper model
//   - corners: the new frustum corners
//   - color: the line colour in linear RGB
func UpdateFrustumHelper(m Model, corners [8][3]float32, color [3]float32) {
	m.SetVertexData(common.SliceToBytes(FrustumLines(corners, color)))
}
