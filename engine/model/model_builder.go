package model

import "github.com/Carmen-Shannon/oxy-tails/common"

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithTopology is an option builder that sets the primitive topology of the Model.
//
// Parameters:
//   - topology: TopologyTriangles or TopologyLines
//
// Returns:
//   - ModelBuilderOption: a function that applies the topology option to a model
func WithTopology(topology Topology) ModelBuilderOption {
	return func(m *model) {
		m.topology = topology
	}
}

// WithDynamic marks the Model's vertex data as rewritable after upload.
//
// Parameters:
//   - dynamic: true if the vertex data changes at runtime
//
// Returns:
//   - ModelBuilderOption: a function that applies the dynamic option to a model
func WithDynamic(dynamic bool) ModelBuilderOption {
	return func(m *model) {
		m.dynamic = dynamic
	}
}

// WithMesh is an option builder that sets the triangle mesh of the Model from
// typed vertices and indices. The bounding radius is computed from the vertices.
//
// Parameters:
//   - vertices: the lit mesh vertices
//   - indices: triangle list indices into vertices
//
// Returns:
//   - ModelBuilderOption: a function that applies the mesh option to a model
func WithMesh(vertices []GPUVertex, indices []uint32) ModelBuilderOption {
	return func(m *model) {
		m.topology = TopologyTriangles
		m.vertexData = common.SliceToBytes(vertices)
		m.indexData = common.SliceToBytes(indices)
		m.indexCount = len(indices)
		m.boundingRadius = ComputeBoundingRadius(vertices)
	}
}

// WithLines is an option builder that sets a line list of the Model. Each pair
// of vertices forms one segment; indices are generated sequentially.
//
// Parameters:
//   - vertices: the line vertices, two per segment
//
// Returns:
//   - ModelBuilderOption: a function that applies the lines option to a model
func WithLines(vertices []GPULineVertex) ModelBuilderOption {
	return func(m *model) {
		indices := make([]uint32, len(vertices))
		for i := range indices {
			indices[i] = uint32(i)
		}
		m.topology = TopologyLines
		m.vertexData = common.SliceToBytes(vertices)
		m.indexData = common.SliceToBytes(indices)
		m.indexCount = len(indices)
	}
}
