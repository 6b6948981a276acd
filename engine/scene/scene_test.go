package scene

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-tails/engine/game_object"
	"github.com/Carmen-Shannon/oxy-tails/engine/light"
	"github.com/Carmen-Shannon/oxy-tails/engine/model"
	"github.com/Carmen-Shannon/oxy-tails/engine/renderer/material"

	"github.com/go-gl/mathgl/mgl32"
)

func TestGatherDrawsBatchesByModelAndMaterial(t *testing.T) {
	box := model.NewBox("box", 1, 1, 1)
	red := material.NewMaterial(material.WithName("red"))
	blue := material.NewMaterial(material.WithName("blue"))

	root := game_object.NewGameObject(game_object.WithName("root"))
	a := game_object.NewGameObject(game_object.WithModel(box), game_object.WithMaterial(red), game_object.WithShadows(true, true))
	b := game_object.NewGameObject(game_object.WithModel(box), game_object.WithMaterial(blue), game_object.WithShadows(false, true))
	c := game_object.NewGameObject(game_object.WithModel(box), game_object.WithMaterial(red), game_object.WithShadows(true, false))
	root.Add(a, b, c)

	dl := gatherDraws(root)

	if len(dl.order) != 2 {
		t.Fatalf("batch count: got %d, want 2", len(dl.order))
	}
	if dl.order[0].mat != red || dl.order[1].mat != blue {
		t.Errorf("batch order: got [%s %s], want [red blue]", dl.order[0].mat.Name(), dl.order[1].mat.Name())
	}

	redKey := batchKey{mdl: box, mat: red}
	blueKey := batchKey{mdl: box, mat: blue}
	if got := len(dl.lit[redKey]); got != 2 {
		t.Errorf("red instances: got %d, want 2", got)
	}
	if got := len(dl.casters[redKey]); got != 2 {
		t.Errorf("red casters: got %d, want 2", got)
	}
	if got := len(dl.casters[blueKey]); got != 0 {
		t.Errorf("blue casters: got %d, want 0", got)
	}
	if dl.lit[redKey][1].receive {
		t.Error("third object receive flag: got true, want false")
	}
}

func TestGatherDrawsSkipsHiddenSubtrees(t *testing.T) {
	box := model.NewBox("box", 1, 1, 1)
	mat := material.NewMaterial()

	root := game_object.NewGameObject()
	group := game_object.NewGameObject(game_object.WithVisible(false))
	group.Add(game_object.NewGameObject(game_object.WithModel(box), game_object.WithMaterial(mat)))
	root.Add(group, game_object.NewGameObject(game_object.WithModel(box), game_object.WithMaterial(mat)))

	dl := gatherDraws(root)
	if got := len(dl.lit[batchKey{mdl: box, mat: mat}]); got != 1 {
		t.Errorf("visible instances: got %d, want 1", got)
	}
}

func TestGatherDrawsLinesAndMaterialless(t *testing.T) {
	axes := model.NewAxes(5)
	box := model.NewBox("box", 1, 1, 1)

	root := game_object.NewGameObject()
	root.Add(
		game_object.NewGameObject(game_object.WithModel(axes)),
		game_object.NewGameObject(game_object.WithModel(axes)),
		game_object.NewGameObject(game_object.WithModel(box)),
	)

	dl := gatherDraws(root)
	if len(dl.lines) != 1 {
		t.Errorf("line models: got %d, want 1", len(dl.lines))
	}
	if len(dl.order) != 0 {
		t.Errorf("lit batches: got %d, want 0", len(dl.order))
	}
}

func TestGatherDrawsWorldMatrix(t *testing.T) {
	box := model.NewBox("box", 1, 1, 1)
	mat := material.NewMaterial()

	root := game_object.NewGameObject()
	parent := game_object.NewGameObject(game_object.WithPosition(1, 0, 0))
	parent.Add(game_object.NewGameObject(game_object.WithModel(box), game_object.WithMaterial(mat), game_object.WithPosition(0, 2, 0)))
	root.Add(parent)

	dl := gatherDraws(root)
	items := dl.lit[batchKey{mdl: box, mat: mat}]
	if len(items) != 1 {
		t.Fatalf("instances: got %d, want 1", len(items))
	}
	got := items[0].world.Col(3).Vec3()
	if !got.ApproxEqual(mgl32.Vec3{1, 2, 0}) {
		t.Errorf("world translation: got %v, want [1 2 0]", got)
	}
}

func TestMarshalInstances(t *testing.T) {
	items := []drawItem{
		{world: mgl32.Translate3D(1, 2, 3), receive: true},
		{world: mgl32.Ident4(), receive: false},
	}
	buf := marshalInstances(items)
	if len(buf) != 2*int(instanceSize) {
		t.Fatalf("length: got %d, want %d", len(buf), 2*int(instanceSize))
	}
	// column 3 of the first model matrix holds the translation
	tx := math.Float32frombits(binary.LittleEndian.Uint32(buf[48:52]))
	if tx != 1 {
		t.Errorf("first translation x: got %v, want 1", tx)
	}
}

func TestGrowCapacity(t *testing.T) {
	tests := []struct {
		current, n, want int
	}{
		{0, 1, 16},
		{0, 20, 32},
		{16, 16, 16},
		{16, 17, 32},
		{32, 5, 32},
		{64, 300, 512},
	}
	for _, tt := range tests {
		if got := growCapacity(tt.current, tt.n); got != tt.want {
			t.Errorf("growCapacity(%d, %d): got %d, want %d", tt.current, tt.n, got, tt.want)
		}
	}
}

func TestFindShadowLight(t *testing.T) {
	ambient := light.NewLight(light.LightTypeAmbient)
	disabled := light.NewLight(light.LightTypeDirectional, light.WithCastsShadows(true), light.WithEnabled(false))
	plain := light.NewLight(light.LightTypeDirectional)
	caster := light.NewLight(light.LightTypeDirectional, light.WithCastsShadows(true))

	if got := findShadowLight([]light.Light{ambient, disabled, plain, caster}); got != caster {
		t.Errorf("findShadowLight: got %v, want the enabled shadow caster", got)
	}
	if got := findShadowLight([]light.Light{ambient, plain}); got != nil {
		t.Errorf("findShadowLight without caster: got %v, want nil", got)
	}
}

func TestSyncLightPositionsFollowsParentRotation(t *testing.T) {
	l := light.NewLight(light.LightTypeDirectional, light.WithTarget(0, 0, 0))
	rig := game_object.NewGameObject()
	rig.Add(game_object.NewGameObject(game_object.WithLight(l), game_object.WithPosition(10, 10, 10)))
	root := game_object.NewGameObject()
	root.Add(rig)

	rig.SetQuaternion(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}))
	syncLightPositions(root)

	got := mgl32.Vec3(l.Position())
	want := mgl32.Vec3{10, 10, -10}
	if !got.ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("light position: got %v, want %v", got, want)
	}
	if l.Target() != [3]float32{} {
		t.Errorf("light target: got %v, want origin", l.Target())
	}
}
