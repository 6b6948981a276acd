package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestGPUTypeSizes(t *testing.T) {
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"GPUVertex", (&GPUVertex{}).Size(), 24},
		{"GPULineVertex", (&GPULineVertex{}).Size(), 24},
		{"GPUInstanceData", (&GPUInstanceData{}).Size(), 144},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("Size(): got %d, want %d", tt.got, tt.want)
			}
		})
	}
}

func TestBoxGeometry(t *testing.T) {
	vertices, indices := BoxGeometry(1, 2, 0.3)
	if len(vertices) != 24 {
		t.Fatalf("vertex count: got %d, want 24", len(vertices))
	}
	if len(indices) != 36 {
		t.Fatalf("index count: got %d, want 36", len(indices))
	}

	half := [3]float32{0.5, 1, 0.15}
	for i, v := range vertices {
		for k := range 3 {
			if math.Abs(math.Abs(float64(v.Position[k]))-float64(half[k])) > 1e-6 {
				t.Fatalf("vertex %d axis %d: got %g, want ±%g", i, k, v.Position[k], half[k])
			}
		}
		// each vertex sits on the face its normal points out of
		for k := range 3 {
			if v.Normal[k] != 0 && v.Position[k]*v.Normal[k] <= 0 {
				t.Errorf("vertex %d lies behind its normal %v", i, v.Normal)
			}
		}
	}

	// triangles wind counter-clockwise seen from outside
	for tri := 0; tri < len(indices); tri += 3 {
		a := mgl32.Vec3(vertices[indices[tri]].Position)
		b := mgl32.Vec3(vertices[indices[tri+1]].Position)
		c := mgl32.Vec3(vertices[indices[tri+2]].Position)
		n := mgl32.Vec3(vertices[indices[tri]].Normal)
		if b.Sub(a).Cross(c.Sub(a)).Dot(n) <= 0 {
			t.Errorf("triangle %d winds clockwise", tri/3)
		}
	}
}

func TestNewBoxBoundingRadius(t *testing.T) {
	m := NewBox("box", 2, 2, 2)
	want := float32(math.Sqrt(3))
	if math.Abs(float64(m.BoundingRadius()-want)) > 1e-5 {
		t.Errorf("BoundingRadius(): got %g, want %g", m.BoundingRadius(), want)
	}
	if m.IndexCount() != 36 {
		t.Errorf("IndexCount(): got %d, want 36", m.IndexCount())
	}
	if len(m.VertexData()) != 24*24 {
		t.Errorf("len(VertexData()): got %d, want %d", len(m.VertexData()), 24*24)
	}
	if m.Topology() != TopologyTriangles {
		t.Errorf("Topology(): got %d, want TopologyTriangles", m.Topology())
	}
}

func TestAxesLines(t *testing.T) {
	lines := AxesLines(5)
	if len(lines) != 6 {
		t.Fatalf("vertex count: got %d, want 6", len(lines))
	}
	for axis := range 3 {
		end := lines[axis*2+1]
		if end.Position[axis] != 5 {
			t.Errorf("axis %d end: got %v, want length 5", axis, end.Position)
		}
		if end.Color[axis] != 1 {
			t.Errorf("axis %d colour: got %v", axis, end.Color)
		}
	}

	m := NewAxes(5)
	if m.Topology() != TopologyLines || m.IndexCount() != 6 {
		t.Errorf("NewAxes: got topology %d count %d, want lines 6", m.Topology(), m.IndexCount())
	}
}

func TestFrustumHelperDirty(t *testing.T) {
	var corners [8][3]float32
	m := NewFrustumHelper("frustum", corners, [3]float32{1, 1, 0})
	if m.IndexCount() != 24 {
		t.Fatalf("IndexCount(): got %d, want 24", m.IndexCount())
	}
	if m.TakeDirty() != nil {
		t.Error("TakeDirty() on fresh model: got data, want nil")
	}

	data := (&GPULineVertex{}).Size() * 24
	m.SetVertexData(make([]byte, data))
	if got := m.TakeDirty(); len(got) != data {
		t.Errorf("TakeDirty(): got %d bytes, want %d", len(got), data)
	}
	if m.TakeDirty() != nil {
		t.Error("second TakeDirty(): got data, want nil")
	}
}

func TestInstanceDataNormalMatrix(t *testing.T) {
	world := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.Scale3D(2, 4, 1))
	d := NewGPUInstanceData(world, true)
	if d.Params[0] != 1 {
		t.Errorf("Params[0]: got %g, want 1", d.Params[0])
	}

	// the normal matrix of a non-uniform scale is its inverse
	n := mgl32.Mat4(d.Normal)
	if math.Abs(float64(n.At(0, 0)-0.5)) > 1e-6 || math.Abs(float64(n.At(1, 1)-0.25)) > 1e-6 {
		t.Errorf("normal diagonal: got (%g, %g), want (0.5, 0.25)", n.At(0, 0), n.At(1, 1))
	}

	buf := d.Marshal()
	if len(buf) != 144 {
		t.Fatalf("len(Marshal()): got %d, want 144", len(buf))
	}
	tx := math.Float32frombits(binary.LittleEndian.Uint32(buf[12*4:]))
	if tx != 1 {
		t.Errorf("translation x in buffer: got %g, want 1", tx)
	}
	shadow := math.Float32frombits(binary.LittleEndian.Uint32(buf[128:]))
	if shadow != 1 {
		t.Errorf("receive shadow flag in buffer: got %g, want 1", shadow)
	}
}
