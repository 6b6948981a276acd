package model

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-tails/engine/renderer/bind_group_provider"
)

// Topology describes how a Model's indices are assembled into primitives.
type Topology int

const (
	// TopologyTriangles draws lit, shaded triangles.
	TopologyTriangles Topology = iota
	// TopologyLines draws unlit, vertex coloured line segments.
	TopologyLines
)

// model is the implementation of the Model interface.
type model struct {
	mu *sync.Mutex

	name                  string
	topology              Topology
	dynamic               bool
	dirty                 bool
	meshProvider          bind_group_provider.BindGroupProvider
	boundingRadius        float32
	vertexData, indexData []byte
	indexCount            int
}

// Model defines the interface for a GPU-ready mesh.
// A Model owns its raw vertex and index bytes and, once uploaded, the
// BindGroupProvider holding the GPU vertex and index buffers.
// Models are shared: many scene objects may reference the same Model.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Topology reports whether the model holds triangles or line segments.
	//
	// Returns:
	//   - Topology: the primitive topology
	Topology() Topology

	// Dynamic reports whether the vertex data is rewritten after upload.
	// Dynamic models are re-uploaded whenever they are marked dirty.
	//
	// Returns:
	//   - bool: true if the vertex data changes at runtime
	Dynamic() bool

	// MeshProvider retrieves the BindGroupProvider holding GPU mesh resources.
	// It is nil until the scene uploads the model.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider

	// SetMeshProvider assigns the BindGroupProvider holding GPU mesh resources.
	//
	// Parameters:
	//   - provider: the mesh provider
	SetMeshProvider(provider bind_group_provider.BindGroupProvider)

	// VertexData returns the raw vertex data for this model's mesh.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the raw index data for this model's mesh.
	//
	// Returns:
	//   - []byte: the index data
	IndexData() []byte

	// IndexCount returns the number of indices in the model's mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// BoundingRadius returns the bounding sphere radius for this model, measured as
	// the maximum vertex distance from the origin.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// SetVertexData replaces the raw vertex data. The byte length must not grow
	// past the length the model was uploaded with. The model is marked dirty.
	//
	// Parameters:
	//   - data: the vertex data to set
	SetVertexData(data []byte)

	// TakeDirty reports whether the vertex data changed since the last call and
	// clears the flag.
	//
	// Returns:
	//   - []byte: the vertex data to upload, or nil if unchanged
	TakeDirty() []byte
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{
		mu: &sync.Mutex{},
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Topology() Topology {
	return m.topology
}

func (m *model) Dynamic() bool {
	return m.dynamic
}

func (m *model) MeshProvider() bind_group_provider.BindGroupProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.meshProvider
}

func (m *model) SetMeshProvider(provider bind_group_provider.BindGroupProvider) {
	m.mu.Lock()
	m.meshProvider = provider
	m.mu.Unlock()
}

func (m *model) VertexData() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vertexData
}

func (m *model) IndexData() []byte {
	return m.indexData
}

func (m *model) IndexCount() int {
	return m.indexCount
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) SetVertexData(data []byte) {
	m.mu.Lock()
	m.vertexData = data
	m.dirty = true
	m.mu.Unlock()
}

func (m *model) TakeDirty() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.dirty {
		return nil
	}
	m.dirty = false
	return m.vertexData
}
