package material

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-tails/common"
)

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial()
	if m.Color() != [3]float32{1, 1, 1} {
		t.Errorf("Color(): got %v, want white", m.Color())
	}
	if m.Metalness() != 0 || m.Roughness() != 1 {
		t.Errorf("Metalness/Roughness: got %g/%g, want 0/1", m.Metalness(), m.Roughness())
	}
	if m.EnvMap() != nil {
		t.Error("EnvMap(): got non-nil, want nil")
	}
}

func TestOptionsClamp(t *testing.T) {
	tests := []struct {
		name      string
		metalness float32
		roughness float32
		wantM     float32
		wantR     float32
	}{
		{"in range", 0.4, 0.3, 0.4, 0.3},
		{"above one", 2, 5, 1, 1},
		{"below zero", -1, -0.5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMaterial(WithMetalness(tt.metalness), WithRoughness(tt.roughness))
			if m.Metalness() != tt.wantM {
				t.Errorf("Metalness(): got %g, want %g", m.Metalness(), tt.wantM)
			}
			if m.Roughness() != tt.wantR {
				t.Errorf("Roughness(): got %g, want %g", m.Roughness(), tt.wantR)
			}
		})
	}
}

func TestUniformEnvFlag(t *testing.T) {
	env := &common.TextureStagingData{Pixels: make([]byte, 4), Width: 1, Height: 1}
	m := NewMaterial(
		WithColor([3]float32{0.7, 0.4, 0.02}),
		WithMetalness(1),
		WithRoughness(0.3),
		WithEnvMap(env, 0.03),
	)

	u := m.Uniform()
	if u.HasEnvMap != 1 {
		t.Errorf("HasEnvMap with env: got %d, want 1", u.HasEnvMap)
	}
	if u.EnvIntensity != 0.03 {
		t.Errorf("EnvIntensity: got %g, want 0.03", u.EnvIntensity)
	}

	// a failed load drops the env map and the material falls back to flat shading
	m.SetEnvMap(nil)
	u = m.Uniform()
	if u.HasEnvMap != 0 {
		t.Errorf("HasEnvMap after drop: got %d, want 0", u.HasEnvMap)
	}

	buf := u.Marshal()
	if len(buf) != u.Size() {
		t.Fatalf("len(Marshal()): got %d, want %d", len(buf), u.Size())
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[12:])); got != 1 {
		t.Errorf("metalness in buffer: got %g, want 1", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[16:])); math.Abs(float64(got)-0.3) > 1e-6 {
		t.Errorf("roughness in buffer: got %g, want 0.3", got)
	}
}
