package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-3

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < eps
}

func nearVec(a, b mgl32.Vec3) bool {
	return near(a[0], b[0]) && near(a[1], b[1]) && near(a[2], b[2])
}

func TestQuatFacingPointsPositiveZAtTarget(t *testing.T) {
	tests := []struct {
		name   string
		eye    mgl32.Vec3
		target mgl32.Vec3
	}{
		{"along +x", mgl32.Vec3{0, 0, 0}, mgl32.Vec3{5, 0, 0}},
		{"along -z", mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 2, -3}},
		{"diagonal", mgl32.Vec3{0, -1, 0.4}, mgl32.Vec3{0.3, 0.2, -0.1}},
		{"straight up", mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 4, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := QuatFacing(tt.eye, tt.target, mgl32.Vec3{0, 1, 0})
			got := q.Rotate(mgl32.Vec3{0, 0, 1})
			want := tt.target.Sub(tt.eye).Normalize()
			if !nearVec(got, want) {
				t.Errorf("forward: got %v, want %v", got, want)
			}
			if !near(q.Len(), 1) {
				t.Errorf("quaternion length: got %v, want 1", q.Len())
			}
		})
	}
}

func TestQuatFacingSamePointIsIdentityForward(t *testing.T) {
	q := QuatFacing(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{0, 1, 0})
	got := q.Rotate(mgl32.Vec3{0, 0, 1})
	if !nearVec(got, mgl32.Vec3{0, 0, 1}) {
		t.Errorf("forward: got %v, want +Z", got)
	}
}

func TestComposeTRS(t *testing.T) {
	q := mgl32.QuatRotate(float32(math.Pi/2), mgl32.Vec3{0, 1, 0})
	m := ComposeTRS(mgl32.Vec3{1, 2, 3}, q, mgl32.Vec3{2, 2, 1})

	// (1,0,0) scaled to (2,0,0), rotated 90° about Y to (0,0,-2), then translated
	got := TransformPoint(m[:], [3]float32{1, 0, 0})
	want := [3]float32{1, 2, 1}
	for i := range 3 {
		if !near(got[i], want[i]) {
			t.Fatalf("TransformPoint: got %v, want %v", got, want)
		}
	}
}

func TestOrthoMapsDepthToUnitRange(t *testing.T) {
	var m [16]float32
	Ortho(m[:], -10, 10, -10, 10, 0.1, 30)

	nearPt := TransformPoint(m[:], [3]float32{10, -10, -0.1})
	farPt := TransformPoint(m[:], [3]float32{-10, 10, -30})

	if !near(nearPt[2], 0) || !near(farPt[2], 1) {
		t.Errorf("depth range: got near=%v far=%v, want 0 and 1", nearPt[2], farPt[2])
	}
	if !near(nearPt[0], 1) || !near(nearPt[1], -1) {
		t.Errorf("near corner xy: got %v, want (1, -1)", nearPt)
	}
	if !near(farPt[0], -1) || !near(farPt[1], 1) {
		t.Errorf("far corner xy: got %v, want (-1, 1)", farPt)
	}
}

func TestInvert4RoundTrip(t *testing.T) {
	var view, proj, vp, inv, id [16]float32
	LookAt(view[:], 10, 10, 10, 0, 0, 0, 0, 1, 0)
	Ortho(proj[:], -10, 10, -10, 10, 0.1, 30)
	Mul4(vp[:], proj[:], view[:])

	if !Invert4(inv[:], vp[:]) {
		t.Fatal("Invert4 reported a singular matrix")
	}
	Mul4(id[:], vp[:], inv[:])
	for i := range 16 {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		if !near(id[i], want) {
			t.Fatalf("vp * inv(vp) [%d]: got %v, want %v", i, id[i], want)
		}
	}
}

func TestInvert4Singular(t *testing.T) {
	var zero, out [16]float32
	if Invert4(out[:], zero[:]) {
		t.Error("Invert4 of zero matrix: got true, want false")
	}
}
