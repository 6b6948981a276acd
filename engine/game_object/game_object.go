package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-tails/common"
	"github.com/Carmen-Shannon/oxy-tails/engine/light"
	"github.com/Carmen-Shannon/oxy-tails/engine/model"
	"github.com/Carmen-Shannon/oxy-tails/engine/renderer/material"

	"github.com/go-gl/mathgl/mgl32"
)

type gameObject struct {
	mu sync.RWMutex

	id            uint64
	name          string
	visible       atomic.Bool
	mdl           model.Model
	mat           material.Material
	castShadow    bool
	receiveShadow bool
	attachedLight light.Light

	position   mgl32.Vec3
	quaternion mgl32.Quat
	scale      mgl32.Vec3

	parent   *gameObject
	children []*gameObject
}

// GameObject defines the interface for a node in the scene graph. A node carries a
// local transform (position, quaternion, scale) relative to its parent, an optional
// Model and Material that make it drawable, and any number of children. Nodes
// without a Model act as groups.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Name returns the object's name.
	//
	// Returns:
	//   - string: the name, possibly empty
	Name() string

	// Visible reports whether this node is flagged visible. A node is only drawn
	// when it and all of its ancestors are visible.
	//
	// Returns:
	//   - bool: true if visible
	Visible() bool

	// Model returns the Model associated with this object, or nil if not set.
	//
	// Returns:
	//   - model.Model: the associated model or nil
	Model() model.Model

	// Material returns the Material used to draw this object's Model, or nil.
	//
	// Returns:
	//   - material.Material: the material or nil
	Material() material.Material

	// CastShadow reports whether the object is drawn into the shadow map.
	//
	// Returns:
	//   - bool: true if the object casts shadows
	CastShadow() bool

	// ReceiveShadow reports whether the object samples the shadow map when lit.
	//
	// Returns:
	//   - bool: true if the object receives shadows
	ReceiveShadow() bool

	// Position returns the local position relative to the parent.
	//
	// Returns:
	//   - mgl32.Vec3: the local position
	Position() mgl32.Vec3

	// Quaternion returns the local orientation relative to the parent.
	//
	// Returns:
	//   - mgl32.Quat: the local orientation
	Quaternion() mgl32.Quat

	// Scale returns the local scale.
	//
	// Returns:
	//   - mgl32.Vec3: the local scale
	Scale() mgl32.Vec3

	// Parent returns the node this object is attached to, or nil for a root.
	//
	// Returns:
	//   - GameObject: the parent or nil
	Parent() GameObject

	// Children returns a snapshot of this node's direct children.
	//
	// Returns:
	//   - []GameObject: the children in insertion order
	Children() []GameObject

	// LocalMatrix composes the local transform as translate * rotate * scale.
	//
	// Returns:
	//   - mgl32.Mat4: the local matrix
	LocalMatrix() mgl32.Mat4

	// WorldMatrix composes this node's local matrix with every ancestor's.
	//
	// Returns:
	//   - mgl32.Mat4: the world matrix
	WorldMatrix() mgl32.Mat4

	// WorldPosition returns the world-space origin of this node.
	//
	// Returns:
	//   - mgl32.Vec3: the world position
	WorldPosition() mgl32.Vec3

	// Light returns the Light attached to this object, or nil if none is set.
	//
	// Returns:
	//   - light.Light: the attached light or nil
	Light() light.Light

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// SetVisible sets the visibility flag of this node.
	//
	// Parameters:
	//   - visible: true to draw the node (and allow its children to be drawn)
	SetVisible(visible bool)

	// SetModel assigns a Model to this object.
	//
	// Parameters:
	//   - m: the Model to associate
	SetModel(m model.Model)

	// SetMaterial assigns the Material used to draw this object.
	//
	// Parameters:
	//   - m: the Material to associate
	SetMaterial(m material.Material)

	// SetPosition sets the local position.
	//
	// Parameters:
	//   - x, y, z: new position components
	SetPosition(x, y, z float32)

	// SetQuaternion replaces the local orientation.
	//
	// Parameters:
	//   - q: the new orientation
	SetQuaternion(q mgl32.Quat)

	// SetScale sets the local scale.
	//
	// Parameters:
	//   - sx, sy, sz: new scale factors
	SetScale(sx, sy, sz float32)

	// LookAt orients the node so that its local +Z axis points at target. The
	// target is expressed in the parent's coordinate space.
	//
	// Parameters:
	//   - target: the point to face
	LookAt(target mgl32.Vec3)

	// RotateOnAxis post-multiplies the local orientation by a rotation of angle
	// radians about axis, which is given in the node's own local space. Repeated
	// calls accumulate.
	//
	// Parameters:
	//   - axis: the rotation axis; it is normalized before use
	//   - angle: the rotation angle in radians
	RotateOnAxis(axis mgl32.Vec3, angle float32)

	// Add attaches children to this node, detaching them from any previous parent.
	//
	// Parameters:
	//   - children: the nodes to attach
	Add(children ...GameObject)

	// Remove detaches a direct child. It is a no-op if child is not attached here.
	//
	// Parameters:
	//   - child: the node to detach
	Remove(child GameObject)

	// Traverse calls fn for this node and every descendant, depth first.
	//
	// Parameters:
	//   - fn: the visitor
	Traverse(fn func(GameObject))

	// TraverseVisible calls fn with the world matrix of every node that is visible
	// along with all of its ancestors. Hidden subtrees are skipped entirely.
	//
	// Parameters:
	//   - fn: the visitor receiving each visible node and its world matrix
	TraverseVisible(fn func(obj GameObject, world mgl32.Mat4))

	// SetLight attaches a Light to this object. The scene places attached lights
	// at the object's world position every frame. Pass nil to detach.
	//
	// Parameters:
	//   - l: the Light to attach, or nil to detach
	SetLight(l light.Light)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options. The
// object starts visible with an identity transform.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		quaternion: mgl32.QuatIdent(),
		scale:      mgl32.Vec3{1, 1, 1},
	}
	obj.visible.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Visible() bool {
	return g.visible.Load()
}

func (g *gameObject) Model() model.Model {
	return g.mdl
}

func (g *gameObject) Material() material.Material {
	return g.mat
}

func (g *gameObject) CastShadow() bool {
	return g.castShadow
}

func (g *gameObject) ReceiveShadow() bool {
	return g.receiveShadow
}

func (g *gameObject) Position() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.position
}

func (g *gameObject) Quaternion() mgl32.Quat {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.quaternion
}

func (g *gameObject) Scale() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.scale
}

func (g *gameObject) Parent() GameObject {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.parent == nil {
		return nil
	}
	return g.parent
}

func (g *gameObject) Children() []GameObject {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]GameObject, len(g.children))
	for i, c := range g.children {
		out[i] = c
	}
	return out
}

func (g *gameObject) LocalMatrix() mgl32.Mat4 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return common.ComposeTRS(g.position, g.quaternion, g.scale)
}

func (g *gameObject) WorldMatrix() mgl32.Mat4 {
	m := g.LocalMatrix()
	for p := g.parentNode(); p != nil; p = p.parentNode() {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

func (g *gameObject) WorldPosition() mgl32.Vec3 {
	return g.WorldMatrix().Col(3).Vec3()
}

func (g *gameObject) Light() light.Light {
	return g.attachedLight
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) SetVisible(visible bool) {
	g.visible.Store(visible)
}

func (g *gameObject) SetModel(m model.Model) {
	g.mdl = m
}

func (g *gameObject) SetMaterial(m material.Material) {
	g.mat = m
}

func (g *gameObject) SetPosition(x, y, z float32) {
	g.mu.Lock()
	g.position = mgl32.Vec3{x, y, z}
	g.mu.Unlock()
}

func (g *gameObject) SetQuaternion(q mgl32.Quat) {
	g.mu.Lock()
	g.quaternion = q
	g.mu.Unlock()
}

func (g *gameObject) SetScale(sx, sy, sz float32) {
	g.mu.Lock()
	g.scale = mgl32.Vec3{sx, sy, sz}
	g.mu.Unlock()
}

func (g *gameObject) LookAt(target mgl32.Vec3) {
	g.mu.Lock()
	g.quaternion = common.QuatFacing(g.position, target, mgl32.Vec3{0, 1, 0})
	g.mu.Unlock()
}

func (g *gameObject) RotateOnAxis(axis mgl32.Vec3, angle float32) {
	if axis.Len() == 0 {
		return
	}
	q := mgl32.QuatRotate(angle, axis.Normalize())
	g.mu.Lock()
	g.quaternion = g.quaternion.Mul(q).Normalize()
	g.mu.Unlock()
}

func (g *gameObject) Add(children ...GameObject) {
	for _, c := range children {
		child, ok := c.(*gameObject)
		if !ok || child == nil || child == g {
			continue
		}
		if old := child.parentNode(); old != nil {
			old.Remove(child)
		}
		child.mu.Lock()
		child.parent = g
		child.mu.Unlock()

		g.mu.Lock()
		g.children = append(g.children, child)
		g.mu.Unlock()
	}
}

func (g *gameObject) Remove(c GameObject) {
	child, ok := c.(*gameObject)
	if !ok {
		return
	}
	g.mu.Lock()
	for i, existing := range g.children {
		if existing == child {
			g.children = append(g.children[:i], g.children[i+1:]...)
			break
		}
	}
	g.mu.Unlock()

	child.mu.Lock()
	if child.parent == g {
		child.parent = nil
	}
	child.mu.Unlock()
}

func (g *gameObject) Traverse(fn func(GameObject)) {
	fn(g)
	for _, c := range g.Children() {
		c.Traverse(fn)
	}
}

func (g *gameObject) TraverseVisible(fn func(obj GameObject, world mgl32.Mat4)) {
	parentWorld := mgl32.Ident4()
	if p := g.parentNode(); p != nil {
		parentWorld = p.WorldMatrix()
	}
	g.traverseVisible(parentWorld, fn)
}

func (g *gameObject) traverseVisible(parentWorld mgl32.Mat4, fn func(obj GameObject, world mgl32.Mat4)) {
	if !g.Visible() {
		return
	}
	world := parentWorld.Mul4(g.LocalMatrix())
	fn(g, world)

	g.mu.RLock()
	children := append([]*gameObject(nil), g.children...)
	g.mu.RUnlock()
	for _, c := range children {
		c.traverseVisible(world, fn)
	}
}

func (g *gameObject) SetLight(l light.Light) {
	g.attachedLight = l
}

func (g *gameObject) parentNode() *gameObject {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.parent
}
