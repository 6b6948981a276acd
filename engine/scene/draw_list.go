package scene

import (
	"github.com/Carmen-Shannon/oxy-tails/engine/game_object"
	"github.com/Carmen-Shannon/oxy-tails/engine/model"
	"github.com/Carmen-Shannon/oxy-tails/engine/renderer/material"

	"github.com/go-gl/mathgl/mgl32"
)

// batchKey groups drawables that share geometry and material into one instanced draw.
type batchKey struct {
	mdl model.Model
	mat material.Material
}

type drawItem struct {
	world   mgl32.Mat4
	receive bool
}

// drawList is the visible content of the scene graph for one frame.
type drawList struct {
	order   []batchKey
	lit     map[batchKey][]drawItem
	casters map[batchKey][]drawItem
	lines   []model.Model
}

// gatherDraws walks the visible part of the graph under root. Triangle meshes are grouped by
// (model, material) in first-seen order; shadow casters are collected separately. Line models
// are returned once each.
func gatherDraws(root game_object.GameObject) drawList {
	dl := drawList{
		lit:     make(map[batchKey][]drawItem),
		casters: make(map[batchKey][]drawItem),
	}
	seenLines := make(map[model.Model]bool)

	root.TraverseVisible(func(obj game_object.GameObject, world mgl32.Mat4) {
		mdl := obj.Model()
		if mdl == nil {
			return
		}

		if mdl.Topology() == model.TopologyLines {
			if !seenLines[mdl] {
				seenLines[mdl] = true
				dl.lines = append(dl.lines, mdl)
			}
			return
		}

		mat := obj.Material()
		if mat == nil {
			return
		}
		key := batchKey{mdl: mdl, mat: mat}
		if _, ok := dl.lit[key]; !ok {
			dl.order = append(dl.order, key)
		}
		item := drawItem{world: world, receive: obj.ReceiveShadow()}
		dl.lit[key] = append(dl.lit[key], item)
		if obj.CastShadow() {
			dl.casters[key] = append(dl.casters[key], item)
		}
	})

	return dl
}

// marshalInstances packs draw items into the InstanceData storage layout.
func marshalInstances(items []drawItem) []byte {
	stride := int(instanceSize)
	buf := make([]byte, len(items)*stride)
	for i, it := range items {
		inst := model.NewGPUInstanceData(it.world, it.receive)
		inst.MarshalTo(buf[i*stride : (i+1)*stride])
	}
	return buf
}

// growCapacity returns the instance capacity to allocate for n instances.
func growCapacity(current, n int) int {
	if n <= current {
		return current
	}
	c := max(current, 16)
	for c < n {
		c *= 2
	}
	return c
}
