package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-tails/common"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-3
}

func TestDirectionalDirection(t *testing.T) {
	l := NewLight(LightTypeDirectional, WithPosition(10, 10, 10), WithTarget(0, 0, 0))
	d := l.Direction()
	want := float32(-1 / math.Sqrt(3))
	for i := range 3 {
		if !near(d[i], want) {
			t.Fatalf("Direction: got %v, want all %v", d, want)
		}
	}
}

func TestAmbientNeverCastsShadows(t *testing.T) {
	l := NewLight(LightTypeAmbient, WithCastsShadows(true))
	if l.CastsShadows() {
		t.Error("ambient CastsShadows after option: got true, want false")
	}
	l.SetCastsShadows(true)
	if l.CastsShadows() {
		t.Error("ambient CastsShadows after setter: got true, want false")
	}
	if l.Direction() != [3]float32{} {
		t.Errorf("ambient Direction: got %v, want zero", l.Direction())
	}
}

func TestAmbientTerm(t *testing.T) {
	lights := []Light{
		NewLight(LightTypeAmbient, WithColor([3]float32{1, 1, 1}), WithIntensity(0.15)),
		NewLight(LightTypeAmbient, WithColor([3]float32{1, 0, 0}), WithIntensity(0.5)),
		NewLight(LightTypeAmbient, WithIntensity(10), WithEnabled(false)),
		NewLight(LightTypeDirectional, WithIntensity(0.3)),
	}
	got := AmbientTerm(lights)
	want := [3]float32{0.65, 0.15, 0.15}
	for i := range 3 {
		if !near(got[i], want[i]) {
			t.Fatalf("AmbientTerm: got %v, want %v", got, want)
		}
	}
}

func TestMarshalLightBuffer(t *testing.T) {
	lights := []Light{
		NewLight(LightTypeAmbient, WithIntensity(0.15)),
		NewLight(LightTypeDirectional,
			WithPosition(10, 10, 10),
			WithIntensity(0.3),
			WithCastsShadows(true),
		),
	}
	buf := MarshalLightBuffer(lights)

	wantLen := 16 + MaxGPULights*48
	if len(buf) != wantLen {
		t.Fatalf("len: got %d, want %d", len(buf), wantLen)
	}
	if count := binary.LittleEndian.Uint32(buf[12:16]); count != 1 {
		t.Errorf("light count: got %d, want 1", count)
	}
	if amb := math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4])); !near(amb, 0.15) {
		t.Errorf("ambient r: got %v, want 0.15", amb)
	}
	if px := math.Float32frombits(binary.LittleEndian.Uint32(buf[16:20])); px != 10 {
		t.Errorf("light[0].position.x: got %v, want 10", px)
	}
	if intensity := math.Float32frombits(binary.LittleEndian.Uint32(buf[16+28 : 16+32])); !near(intensity, 0.3) {
		t.Errorf("light[0].intensity: got %v, want 0.3", intensity)
	}
	if shadows := binary.LittleEndian.Uint32(buf[16+44 : 16+48]); shadows != 1 {
		t.Errorf("light[0].casts_shadows: got %d, want 1", shadows)
	}
}

func TestGPUStructSizes(t *testing.T) {
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"GPULight", (&GPULight{}).Size(), 48},
		{"GPULightHeader", (&GPULightHeader{}).Size(), 16},
		{"GPUShadowData", (&GPUShadowData{}).Size(), 80},
		{"GPUShadowUniform", (&GPUShadowUniform{}).Size(), 64},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s.Size(): got %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestShadowViewProjCentersTarget(t *testing.T) {
	l := NewLight(LightTypeDirectional,
		WithPosition(10, 10, 10),
		WithShadowCamera(DefaultShadowCamera()),
	)
	vp := l.ShadowViewProj()

	center := common.TransformPoint(vp[:], [3]float32{0, 0, 0})
	if !near(center[0], 0) || !near(center[1], 0) {
		t.Errorf("target clip xy: got (%v, %v), want (0, 0)", center[0], center[1])
	}
	// distance to origin is sqrt(300) ≈ 17.32 inside (0.1, 30)
	wantZ := float32((math.Sqrt(300) - 0.1) / 29.9)
	if !near(center[2], wantZ) {
		t.Errorf("target clip z: got %v, want %v", center[2], wantZ)
	}
}

func TestFrustumCorners(t *testing.T) {
	sc := DefaultShadowCamera()
	vp := sc.ViewProj([3]float32{0, 0, 10}, [3]float32{0, 0, 0})

	corners, ok := FrustumCorners(vp)
	if !ok {
		t.Fatal("FrustumCorners reported a singular matrix")
	}
	// looking down -Z from z=10: near plane at z=9.9, far plane at z=-20
	for i := 0; i < 4; i++ {
		if !near(corners[i][2], 9.9) {
			t.Errorf("near corner %d z: got %v, want 9.9", i, corners[i][2])
		}
		if !near(corners[i+4][2], -20) {
			t.Errorf("far corner %d z: got %v, want -20", i, corners[i+4][2])
		}
	}
	if !near(corners[0][0], -10) || !near(corners[0][1], -10) {
		t.Errorf("corner 0 xy: got %v, want (-10, -10)", corners[0])
	}
	if !near(corners[2][0], 10) || !near(corners[2][1], 10) {
		t.Errorf("corner 2 xy: got %v, want (10, 10)", corners[2])
	}
}

func TestShadowDataFromLight(t *testing.T) {
	l := NewLight(LightTypeDirectional, WithPosition(10, 10, 10), WithCastsShadows(true))
	var sd GPUShadowData
	sd.FromLight(l, DefaultShadowNormalBiasScale)

	if !near(sd.TexelSize[0], 1.0/2048) {
		t.Errorf("TexelSize: got %v, want %v", sd.TexelSize[0], 1.0/2048)
	}
	wantNormal := float32(20.0/2048) * DefaultShadowNormalBiasScale
	if !near(sd.NormalBias, wantNormal) {
		t.Errorf("NormalBias: got %v, want %v", sd.NormalBias, wantNormal)
	}
	if sd.Bias != DefaultShadowBias {
		t.Errorf("Bias: got %v, want %v", sd.Bias, DefaultShadowBias)
	}
}
