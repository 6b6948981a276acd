package scene

import (
	"fmt"
	"log"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-tails/common"
	"github.com/Carmen-Shannon/oxy-tails/engine/camera"
	"github.com/Carmen-Shannon/oxy-tails/engine/game_object"
	"github.com/Carmen-Shannon/oxy-tails/engine/light"
	"github.com/Carmen-Shannon/oxy-tails/engine/model"
	"github.com/Carmen-Shannon/oxy-tails/engine/renderer"
	"github.com/Carmen-Shannon/oxy-tails/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-tails/engine/renderer/material"

	"github.com/cogentcore/webgpu/wgpu"
)

// batch holds the GPU instance buffers for one (model, material) pair.
type batch struct {
	instances     bind_group_provider.BindGroupProvider
	casters       bind_group_provider.BindGroupProvider
	instanceCap   int
	casterCap     int
	instanceCount int
	casterCount   int
	instanceBytes []byte
	casterBytes   []byte
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.RWMutex

	name   string
	active bool
	cam    camera.Camera
	r      renderer.Renderer
	root   game_object.GameObject
	lights []light.Light
	nextID uint64

	lightsBGP bind_group_provider.BindGroupProvider
	batches   map[batchKey]*batch
	frame     drawList

	// directional shadow state
	shadowLight           light.Light
	shadowMapResolution   int
	shadowNormalBiasScale float32
	shadowView            *wgpu.TextureView
	shadowTexture         *wgpu.Texture
	shadowSampler         *wgpu.Sampler
	shadowUniformBGP      bind_group_provider.BindGroupProvider
	shadowLitBGP          bind_group_provider.BindGroupProvider

	writePool     []bind_group_provider.BufferWrite
	drawGroupPool []bind_group_provider.BindGroupProvider

	prepPool    worker.DynamicWorkerPool
	prepWorkers int
}

// Scene owns a scene graph, the camera that views it and the GPU resources needed to draw it.
// Objects are registered with Add; each frame the host calls Prepare, PrepareShadows and then
// DrawCalls between the renderer's BeginFrame and EndFrame.
type Scene interface {
	// Name returns the scene name.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Active reports whether the scene is rendered by the engine.
	//
	// Returns:
	//   - bool: true if the scene is active
	Active() bool

	// SetActive enables or disables rendering of the scene.
	//
	// Parameters:
	//   - active: whether the scene is rendered
	SetActive(active bool)

	// Camera returns the camera the scene is viewed through.
	//
	// Returns:
	//   - camera.Camera: the scene camera
	Camera() camera.Camera

	// Renderer returns the renderer the scene draws with.
	//
	// Returns:
	//   - renderer.Renderer: the scene renderer
	Renderer() renderer.Renderer

	// Root returns the root node of the scene graph.
	//
	// Returns:
	//   - game_object.GameObject: the root node
	Root() game_object.GameObject

	// Add attaches objects under the root and uploads the models and materials of their
	// subtrees. Lights attached to nodes in the subtrees are registered with the scene.
	//
	// Parameters:
	//   - objs: the objects to add
	//
	// Returns:
	//   - error: an error if a GPU resource could not be created
	Add(objs ...game_object.GameObject) error

	// Remove detaches an object from its parent and unregisters the lights of its subtree.
	// GPU resources of shared models and materials are kept until Release.
	//
	// Parameters:
	//   - obj: the object to remove
	Remove(obj game_object.GameObject)

	// AddLight registers a light that is not attached to a scene node.
	//
	// Parameters:
	//   - l: the light to register
	AddLight(l light.Light)

	// Lights returns a copy of the registered lights in registration order.
	//
	// Returns:
	//   - []light.Light: the registered lights
	Lights() []light.Light

	// Prepare collects the visible objects and writes camera, light, shadow, material and
	// instance data to the GPU. Call it once per frame after the camera has been updated.
	//
	// Returns:
	//   - error: an error if instance buffers could not be resized
	Prepare() error

	// PrepareShadows records and submits the shadow map pass for the frame. It must be called
	// after Prepare and before the renderer's BeginFrame.
	//
	// Returns:
	//   - error: an error if the shadow pass could not be recorded
	PrepareShadows() error

	// DrawCalls encodes the lit and line draws of the frame into the current main pass.
	//
	// Returns:
	//   - error: an error if a draw could not be encoded
	DrawCalls() error

	// Release frees every GPU resource created by the scene. The scene must not be used
	// afterwards.
	Release()
}

var _ Scene = &scene{}

// NewScene creates a Scene and registers the lit, shadow and line pipelines it draws with.
// Both cam and r are required and NewScene panics if either is nil or a GPU resource cannot
// be created.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to view the scene through
//   - r: the renderer to draw with
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, r renderer.Renderer, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}

	s := &scene{
		mu:                    &sync.RWMutex{},
		name:                  name,
		cam:                   cam,
		r:                     r,
		root:                  game_object.NewGameObject(game_object.WithName(name + "_root")),
		batches:               make(map[batchKey]*batch),
		nextID:                1,
		shadowMapResolution:   light.DefaultShadowMapResolution,
		shadowNormalBiasScale: light.DefaultShadowNormalBiasScale,
		prepWorkers:           max(runtime.NumCPU()-1, 1),
		drawGroupPool:         make([]bind_group_provider.BindGroupProvider, 0, 5),
	}
	s.root.SetID(s.allocID())

	for _, option := range options {
		option(s)
	}

	s.prepPool = worker.NewDynamicWorkerPool(s.prepWorkers, 256, 1*time.Second)

	if err := r.RegisterPipelines(newLitPipeline(), newShadowPipeline(), newLinePipeline()); err != nil {
		panic(fmt.Sprintf("scene: failed to register pipelines: %v", err))
	}

	if err := s.initBindGroup(cam.BindGroupProvider(), LitPipelineKey, groupCamera); err != nil {
		panic(fmt.Sprintf("scene: failed to init camera bind group: %v", err))
	}

	s.lightsBGP = bind_group_provider.NewBindGroupProvider(name + "_lights")
	if err := s.initBindGroup(s.lightsBGP, LitPipelineKey, groupLights); err != nil {
		panic(fmt.Sprintf("scene: failed to init light bind group: %v", err))
	}

	if err := s.initShadowMap(); err != nil {
		panic(fmt.Sprintf("scene: failed to init shadow map: %v", err))
	}

	log.Printf("[Scene] %q created (shadow map %dx%d, %d prep workers)", name, s.shadowMapResolution, s.shadowMapResolution, s.prepWorkers)
	return s
}

func (s *scene) initBindGroup(p bind_group_provider.BindGroupProvider, pipelineKey string, group int) error {
	desc, err := s.r.BindGroupLayoutDescriptor(pipelineKey, group)
	if err != nil {
		return err
	}
	return s.r.InitBindGroup(p, desc, nil, nil)
}

// initShadowMap creates the depth texture and comparison sampler shared by the shadow pass
// and the lit pass, plus the bind groups that reference them.
func (s *scene) initShadowMap() error {
	view, tex, err := s.r.CreateShadowDepthTexture(s.shadowMapResolution, s.shadowMapResolution)
	if err != nil {
		return err
	}
	s.shadowView, s.shadowTexture = view, tex

	s.shadowSampler, err = s.r.CreateComparisonSampler()
	if err != nil {
		return err
	}

	s.shadowUniformBGP = bind_group_provider.NewBindGroupProvider(s.name + "_shadow_uniform")
	if err := s.initBindGroup(s.shadowUniformBGP, ShadowPipelineKey, shadowGroupUniform); err != nil {
		return err
	}

	s.shadowLitBGP = bind_group_provider.NewBindGroupProvider(s.name+"_shadow_lit",
		bind_group_provider.WithTextureView(bindingShadowMap, s.shadowView),
		bind_group_provider.WithSampler(bindingShadowSampler, s.shadowSampler),
	)
	return s.initBindGroup(s.shadowLitBGP, LitPipelineKey, groupShadow)
}

func (s *scene) allocID() uint64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	s.active = active
	s.mu.Unlock()
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Renderer() renderer.Renderer {
	return s.r
}

func (s *scene) Root() game_object.GameObject {
	return s.root
}

func (s *scene) Add(objs ...game_object.GameObject) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, obj := range objs {
		if obj == nil {
			continue
		}
		var uploadErr error
		obj.Traverse(func(node game_object.GameObject) {
			if uploadErr != nil {
				return
			}
			if node.ID() == 0 {
				node.SetID(s.allocID())
			}
			if l := node.Light(); l != nil && !slices.Contains(s.lights, l) {
				s.lights = append(s.lights, l)
			}
			if mdl := node.Model(); mdl != nil {
				if err := s.uploadModel(mdl); err != nil {
					uploadErr = fmt.Errorf("upload model %q: %w", mdl.Name(), err)
					return
				}
				if mat := node.Material(); mat != nil && mdl.Topology() == model.TopologyTriangles {
					if err := s.uploadMaterial(mat); err != nil {
						uploadErr = fmt.Errorf("upload material %q: %w", mat.Name(), err)
					}
				}
			}
		})
		if uploadErr != nil {
			return uploadErr
		}
		s.root.Add(obj)
	}
	return nil
}

func (s *scene) Remove(obj game_object.GameObject) {
	if obj == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	obj.Traverse(func(node game_object.GameObject) {
		if l := node.Light(); l != nil {
			s.lights = slices.DeleteFunc(s.lights, func(x light.Light) bool { return x == l })
			if s.shadowLight == l {
				s.shadowLight = nil
			}
		}
	})
	if p := obj.Parent(); p != nil {
		p.Remove(obj)
	}
}

func (s *scene) AddLight(l light.Light) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.lights, l) {
		s.lights = append(s.lights, l)
	}
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lights)
}

// uploadModel creates the vertex and index buffers of mdl once.
func (s *scene) uploadModel(mdl model.Model) error {
	if mdl.MeshProvider() != nil {
		return nil
	}
	p := bind_group_provider.NewBindGroupProvider(mdl.Name() + "_mesh")
	if err := s.r.InitMeshBuffers(p, mdl.VertexData(), mdl.IndexData(), mdl.IndexCount()); err != nil {
		return err
	}
	mdl.SetMeshProvider(p)
	// the initial upload already holds the current vertex data
	mdl.TakeDirty()
	return nil
}

// uploadMaterial creates the material bind group once. Materials without an environment map
// get a 1x1 black placeholder so every lit draw uses the same layout.
func (s *scene) uploadMaterial(mat material.Material) error {
	if mat.BindGroupProvider() != nil {
		return nil
	}
	p := bind_group_provider.NewBindGroupProvider(mat.Name() + "_material")

	env := common.TextureStagingData{Pixels: []byte{0, 0, 0, 255}, Width: 1, Height: 1, Format: wgpu.TextureFormatRGBA8Unorm}
	if e := mat.EnvMap(); e != nil {
		env = *e
	}
	if err := s.r.InitTextureView(p, bindingEnvTexture, env); err != nil {
		return err
	}
	if err := s.r.InitSampler(p, bindingEnvSampler, common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeRepeat,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		MipmapFilter: wgpu.MipmapFilterModeNearest,
		LodMaxClamp:  1,
	}); err != nil {
		return err
	}
	if err := s.initBindGroup(p, LitPipelineKey, groupMaterial); err != nil {
		return err
	}
	mat.SetBindGroupProvider(p)
	return nil
}

// findShadowLight returns the first enabled directional light that casts shadows.
func findShadowLight(lights []light.Light) light.Light {
	for _, l := range lights {
		if l.Type() == light.LightTypeDirectional && l.Enabled() && l.CastsShadows() {
			return l
		}
	}
	return nil
}

// syncLightPositions moves every node-attached light to its node's world position.
func syncLightPositions(root game_object.GameObject) {
	root.Traverse(func(node game_object.GameObject) {
		if l := node.Light(); l != nil {
			p := node.WorldPosition()
			l.SetPosition(p.X(), p.Y(), p.Z())
		}
	})
}

func (s *scene) Prepare() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	writes := s.writePool[:0]

	camU := s.cam.Uniform()
	writes = append(writes, bind_group_provider.Write(s.cam.BindGroupProvider(), 0, camU.Marshal()))

	syncLightPositions(s.root)
	writes = append(writes, bind_group_provider.Write(s.lightsBGP, 0, light.MarshalLightBuffer(s.lights)))

	s.shadowLight = findShadowLight(s.lights)
	if s.shadowLight != nil {
		su := light.GPUShadowUniform{LightVP: s.shadowLight.ShadowViewProj()}
		var sd light.GPUShadowData
		sd.FromLight(s.shadowLight, s.shadowNormalBiasScale)
		writes = append(writes,
			bind_group_provider.Write(s.shadowUniformBGP, 0, su.Marshal()),
			bind_group_provider.Write(s.shadowLitBGP, bindingShadowData, sd.Marshal()),
		)
	}

	s.frame = gatherDraws(s.root)

	// marshal instance data in parallel, one task per batch
	var wg sync.WaitGroup
	for i, key := range s.frame.order {
		b := s.batches[key]
		if b == nil {
			b = &batch{}
			s.batches[key] = b
		}
		lit, casters := s.frame.lit[key], s.frame.casters[key]
		wg.Add(1)
		s.prepPool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				b.instanceBytes = marshalInstances(lit)
				b.instanceCount = len(lit)
				b.casterBytes = marshalInstances(casters)
				b.casterCount = len(casters)
				return nil, nil
			},
		})
	}
	wg.Wait()

	seenMaterials := make(map[material.Material]bool)
	for _, key := range s.frame.order {
		b := s.batches[key]
		if err := s.ensureBatchBuffers(key, b); err != nil {
			return err
		}
		if b.instanceCount > 0 {
			writes = append(writes, bind_group_provider.Write(b.instances, 0, b.instanceBytes))
		}
		if b.casterCount > 0 {
			writes = append(writes, bind_group_provider.Write(b.casters, 0, b.casterBytes))
		}
		if !seenMaterials[key.mat] {
			seenMaterials[key.mat] = true
			u := key.mat.Uniform()
			writes = append(writes, bind_group_provider.Write(key.mat.BindGroupProvider(), bindingMaterialParams, u.Marshal()))
		}
	}

	s.r.WriteBuffers(writes)
	s.writePool = writes

	for _, mdl := range s.frame.lines {
		if data := mdl.TakeDirty(); data != nil && mdl.MeshProvider() != nil {
			s.r.WriteVertexBuffer(mdl.MeshProvider(), data)
		}
	}
	return nil
}

// ensureBatchBuffers grows the storage buffers of b to fit the current instance counts.
func (s *scene) ensureBatchBuffers(key batchKey, b *batch) error {
	label := key.mdl.Name() + "_" + key.mat.Name()

	if c := growCapacity(b.instanceCap, max(b.instanceCount, 1)); c != b.instanceCap || b.instances == nil {
		p, err := s.newStorageGroup(label+"_instances", LitPipelineKey, groupInstances, c)
		if err != nil {
			return fmt.Errorf("instance buffer %q: %w", label, err)
		}
		if b.instances != nil {
			b.instances.Release()
		}
		b.instances, b.instanceCap = p, c
	}
	if c := growCapacity(b.casterCap, max(b.casterCount, 1)); c != b.casterCap || b.casters == nil {
		p, err := s.newStorageGroup(label+"_casters", ShadowPipelineKey, shadowGroupInstances, c)
		if err != nil {
			return fmt.Errorf("caster buffer %q: %w", label, err)
		}
		if b.casters != nil {
			b.casters.Release()
		}
		b.casters, b.casterCap = p, c
	}
	return nil
}

func (s *scene) newStorageGroup(label, pipelineKey string, group, capacity int) (bind_group_provider.BindGroupProvider, error) {
	desc, err := s.r.BindGroupLayoutDescriptor(pipelineKey, group)
	if err != nil {
		return nil, err
	}
	p := bind_group_provider.NewBindGroupProvider(label)
	if err := s.r.InitBindGroup(p, desc, nil, map[int]uint64{0: uint64(capacity) * instanceSize}); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *scene) PrepareShadows() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.shadowView == nil {
		return nil
	}
	if err := s.r.BeginShadowFrame(); err != nil {
		return err
	}
	s.r.BeginShadowPass(s.shadowView)

	var drawErr error
	if s.shadowLight != nil {
		for _, key := range s.frame.order {
			b := s.batches[key]
			if b == nil || b.casterCount == 0 {
				continue
			}
			groups := []bind_group_provider.BindGroupProvider{s.shadowUniformBGP, b.casters}
			if err := s.r.ShadowDrawCall(ShadowPipelineKey, key.mdl.MeshProvider(), uint32(b.casterCount), groups); err != nil {
				drawErr = err
				break
			}
		}
	}

	s.r.EndShadowPass()
	s.r.EndShadowFrame()
	return drawErr
}

func (s *scene) DrawCalls() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	camBGP := s.cam.BindGroupProvider()
	for _, key := range s.frame.order {
		b := s.batches[key]
		if b == nil || b.instanceCount == 0 {
			continue
		}
		groups := append(s.drawGroupPool[:0], camBGP, b.instances, key.mat.BindGroupProvider(), s.lightsBGP, s.shadowLitBGP)
		if err := s.r.DrawCall(LitPipelineKey, key.mdl.MeshProvider(), uint32(b.instanceCount), groups); err != nil {
			return err
		}
		s.drawGroupPool = groups
	}

	for _, mdl := range s.frame.lines {
		groups := append(s.drawGroupPool[:0], camBGP)
		if err := s.r.DrawCall(LinePipelineKey, mdl.MeshProvider(), 1, groups); err != nil {
			return err
		}
		s.drawGroupPool = groups
	}
	return nil
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	releasedModels := make(map[model.Model]bool)
	releasedMaterials := make(map[material.Material]bool)
	s.root.Traverse(func(node game_object.GameObject) {
		if mdl := node.Model(); mdl != nil && !releasedModels[mdl] {
			releasedModels[mdl] = true
			if p := mdl.MeshProvider(); p != nil {
				p.Release()
				mdl.SetMeshProvider(nil)
			}
		}
		if mat := node.Material(); mat != nil && !releasedMaterials[mat] {
			releasedMaterials[mat] = true
			if p := mat.BindGroupProvider(); p != nil {
				p.Release()
				mat.SetBindGroupProvider(nil)
			}
		}
	})

	for key, b := range s.batches {
		if b.instances != nil {
			b.instances.Release()
		}
		if b.casters != nil {
			b.casters.Release()
		}
		delete(s.batches, key)
	}

	for _, p := range []bind_group_provider.BindGroupProvider{s.lightsBGP, s.shadowUniformBGP, s.shadowLitBGP, s.cam.BindGroupProvider()} {
		if p != nil {
			p.Release()
		}
	}
	if s.shadowSampler != nil {
		s.shadowSampler.Release()
		s.shadowSampler = nil
	}
	if s.shadowView != nil {
		s.shadowView.Release()
		s.shadowView = nil
	}
	if s.shadowTexture != nil {
		s.shadowTexture.Release()
		s.shadowTexture = nil
	}
	s.frame = drawList{}
	log.Printf("[Scene] %q released", s.name)
}
