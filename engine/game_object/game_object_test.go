package game_object

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func vecNear(a, b mgl32.Vec3) bool {
	for k := range 3 {
		if math.Abs(float64(a[k]-b[k])) > 1e-4 {
			return false
		}
	}
	return true
}

func TestNewGameObjectDefaults(t *testing.T) {
	obj := NewGameObject(WithName("node"), WithID(3))

	if !obj.Visible() {
		t.Error("Visible: got false, want true")
	}
	if got := obj.Scale(); got != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("Scale: got %v, want (1, 1, 1)", got)
	}
	if got := obj.Quaternion(); !got.ApproxEqual(mgl32.QuatIdent()) {
		t.Errorf("Quaternion: got %v, want identity", got)
	}
	if obj.Name() != "node" || obj.ID() != 3 {
		t.Errorf("identity: got %q/%d, want node/3", obj.Name(), obj.ID())
	}
	if obj.Parent() != nil {
		t.Error("Parent: got non-nil, want nil")
	}
}

func TestWorldPosition(t *testing.T) {
	tests := []struct {
		name  string
		setup func(parent, child GameObject)
		want  mgl32.Vec3
	}{
		{
			name: "translated parent",
			setup: func(parent, child GameObject) {
				parent.SetPosition(1, 2, 3)
				child.SetPosition(1, 0, 0)
			},
			want: mgl32.Vec3{2, 2, 3},
		},
		{
			name: "scaled parent",
			setup: func(parent, child GameObject) {
				parent.SetScale(2, 2, 2)
				child.SetPosition(0, 1, 0)
			},
			want: mgl32.Vec3{0, 2, 0},
		},
		{
			name: "rotated parent",
			setup: func(parent, child GameObject) {
				parent.SetQuaternion(mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 1, 0}))
				child.SetPosition(1, 0, 0)
			},
			want: mgl32.Vec3{0, 0, -1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent := NewGameObject()
			child := NewGameObject()
			parent.Add(child)
			tt.setup(parent, child)

			if got := child.WorldPosition(); !vecNear(got, tt.want) {
				t.Errorf("WorldPosition: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLookAt(t *testing.T) {
	obj := NewGameObject(WithPosition(1, 1, 1))
	obj.LookAt(mgl32.Vec3{1, 1, 5})

	got := obj.Quaternion().Rotate(mgl32.Vec3{0, 0, 1})
	if want := (mgl32.Vec3{0, 0, 1}); !vecNear(got, want) {
		t.Errorf("forward: got %v, want %v", got, want)
	}

	obj.LookAt(mgl32.Vec3{4, 1, 1})
	got = obj.Quaternion().Rotate(mgl32.Vec3{0, 0, 1})
	if want := (mgl32.Vec3{1, 0, 0}); !vecNear(got, want) {
		t.Errorf("forward: got %v, want %v", got, want)
	}
}

func TestRotateOnAxis(t *testing.T) {
	obj := NewGameObject()
	obj.RotateOnAxis(mgl32.Vec3{0, 0, 2}, math.Pi/2)

	got := obj.Quaternion().Rotate(mgl32.Vec3{1, 0, 0})
	if want := (mgl32.Vec3{0, 1, 0}); !vecNear(got, want) {
		t.Errorf("rotated +X: got %v, want %v", got, want)
	}

	before := obj.Quaternion()
	obj.RotateOnAxis(mgl32.Vec3{}, 1)
	if !obj.Quaternion().ApproxEqual(before) {
		t.Error("zero axis changed the rotation")
	}
}

func TestAddReparents(t *testing.T) {
	a := NewGameObject(WithName("a"))
	b := NewGameObject(WithName("b"))
	child := NewGameObject(WithName("child"))

	a.Add(child)
	b.Add(child)

	if got := len(a.Children()); got != 0 {
		t.Errorf("old parent children: got %d, want 0", got)
	}
	if got := len(b.Children()); got != 1 {
		t.Errorf("new parent children: got %d, want 1", got)
	}
	if p := child.Parent(); p == nil || p.Name() != "b" {
		t.Errorf("Parent: got %v, want b", p)
	}

	a.Add(a)
	if got := len(a.Children()); got != 0 {
		t.Errorf("self add children: got %d, want 0", got)
	}

	b.Remove(child)
	if child.Parent() != nil {
		t.Error("Parent after Remove: got non-nil, want nil")
	}
}

func TestTraverseVisibleSkipsHiddenSubtrees(t *testing.T) {
	root := NewGameObject(WithName("root"))
	shown := NewGameObject(WithName("shown"), WithPosition(0, 1, 0))
	hidden := NewGameObject(WithName("hidden"), WithVisible(false))
	under := NewGameObject(WithName("under"))
	leaf := NewGameObject(WithName("leaf"), WithPosition(0, 1, 0))
	root.Add(shown, hidden)
	hidden.Add(under)
	shown.Add(leaf)

	var all []string
	root.Traverse(func(obj GameObject) { all = append(all, obj.Name()) })
	if len(all) != 5 {
		t.Errorf("Traverse: got %v, want 5 nodes", all)
	}

	worlds := map[string]mgl32.Mat4{}
	root.TraverseVisible(func(obj GameObject, world mgl32.Mat4) {
		worlds[obj.Name()] = world
	})
	if _, ok := worlds["under"]; ok {
		t.Error("TraverseVisible visited a child of a hidden node")
	}
	if len(worlds) != 3 {
		t.Errorf("TraverseVisible: got %d nodes, want 3", len(worlds))
	}
	if got, want := worlds["leaf"].Col(3).Vec3(), (mgl32.Vec3{0, 2, 0}); !vecNear(got, want) {
		t.Errorf("leaf world position: got %v, want %v", got, want)
	}
}
