package tails

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"

	"github.com/Carmen-Shannon/oxy-tails/common"
	"github.com/Carmen-Shannon/oxy-tails/config"
	"github.com/Carmen-Shannon/oxy-tails/engine"
	"github.com/Carmen-Shannon/oxy-tails/engine/camera"
	"github.com/Carmen-Shannon/oxy-tails/engine/debug"
	"github.com/Carmen-Shannon/oxy-tails/engine/game_object"
	"github.com/Carmen-Shannon/oxy-tails/engine/light"
	"github.com/Carmen-Shannon/oxy-tails/engine/model"
	"github.com/Carmen-Shannon/oxy-tails/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-tails/engine/scene"
	"github.com/Carmen-Shannon/oxy-tails/engine/timeline"
)

// Timeline shape shared by every cycle.
const (
	stepStagger = 0.05
	showAt      = 0.10 // "<10%"
	hideAt      = 0.05 // "<5%"
	holdDelay   = 5.0  // before the first hide step
	resetDelay  = 1.0  // after the last step

	axesSize = 5

	// SceneKey is the z-index the composer registers its scene under.
	SceneKey = 0
)

var lightHelperColor = common.MustParseHexColor("#ffcc00")

// ErrNoRenderer is returned when the engine has no renderer to build the scene with.
var ErrNoRenderer = errors.New("tails: engine has no renderer")

// statsSwitch is the part of engine.Engine that the stats toggle drives.
type statsSwitch interface {
	EnableProfiler()
	DisableProfiler()
	ProfilerEnabled() bool
}

// Composer owns the tails scene: the camera, the camera-tracking light rig, the tails and
// the debug helpers. It is the engine's FrameTicker, so Tick runs on the render goroutine.
type Composer struct {
	eng   engine.Engine
	scn   scene.Scene
	cam   camera.Camera
	cfg   *config.SceneConfig
	panel debug.Panel
	stats statsSwitch
	rand  *Randomizer
	seq   *timeline.Sequencer

	root        game_object.GameObject
	rig         game_object.GameObject
	sunNode     game_object.GameObject
	sun         light.Light
	tails       []game_object.GameObject
	axes        game_object.GameObject
	lightHelper game_object.GameObject

	disposeOnce sync.Once
}

var _ engine.FrameTicker = &Composer{}

// New builds the tails scene, registers it with eng and installs the composer as the
// engine's frame ticker. env may be nil, in which case the reflective tails render flat.
//
// Parameters:
//   - eng: the engine to render with; it must have a renderer
//   - cfg: the scene configuration
//   - env: the decoded environment map, or nil
//   - options: functional options to further configure the composer
//
// Returns:
//   - *Composer: the composer
//   - error: error if the configuration is invalid or the scene cannot be uploaded
func New(eng engine.Engine, cfg *config.SceneConfig, env *common.TextureStagingData, options ...ComposerOption) (*Composer, error) {
	if eng == nil || eng.Renderer() == nil {
		return nil, ErrNoRenderer
	}

	c, err := compose(cfg, env, options...)
	if err != nil {
		return nil, err
	}
	c.eng = eng
	if c.stats == nil {
		c.stats = eng
	}

	if w := eng.Window(); w != nil && w.Width() > 0 && w.Height() > 0 {
		c.cam.SetAspect(float32(w.Width()) / float32(w.Height()))
	}

	r := eng.Renderer()
	bg, err := common.ParseHexColor(c.cfg.Render.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	r.SetClearColor(bg)

	c.scn = scene.NewScene("tails", c.cam, r,
		scene.WithActive(true),
		scene.WithShadowMapResolution(c.cfg.Shadow.MapSize),
	)
	if err := c.scn.Add(c.root); err != nil {
		c.scn.Release()
		return nil, fmt.Errorf("failed to upload tails scene: %w", err)
	}

	eng.AddScene(SceneKey, c.scn)
	eng.SetFrameTicker(c)

	log.Printf("[Tails] composed %d tails of %d segments", len(c.tails), c.cfg.Tail.Amount)
	return c, nil
}

// compose builds everything that does not need the GPU.
func compose(cfg *config.SceneConfig, env *common.TextureStagingData, options ...ComposerOption) (*Composer, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene config: %w", err)
	}

	c := &Composer{
		cfg: cfg,
		seq: timeline.NewSequencer(),
	}
	for _, option := range options {
		option(c)
	}
	if c.rand == nil {
		c.rand = NewRandomizer(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	}

	ctrl := camera.NewCameraController(
		camera.WithDamping(cfg.Camera.Damping),
		camera.WithPanEnabled(cfg.Camera.Pan),
	)
	ctrl.SetPosition(cfg.Camera.Position[0], cfg.Camera.Position[1], cfg.Camera.Position[2])
	c.cam = camera.NewCamera(
		camera.WithPerspective(cfg.Camera.FovY, cfg.Camera.Near, cfg.Camera.Far),
		camera.WithController(ctrl),
	)

	c.root = game_object.NewGameObject(game_object.WithName("tails_stage"))
	if err := c.buildLights(); err != nil {
		return nil, err
	}
	if err := c.buildTails(env); err != nil {
		return nil, err
	}
	c.buildHelpers()
	return c, nil
}

func (c *Composer) buildLights() error {
	lc := c.cfg.Lights
	ambientColor, err := common.ParseHexColor(lc.AmbientColor)
	if err != nil {
		return fmt.Errorf("ambient light: %w", err)
	}
	sunColor, err := common.ParseHexColor(lc.DirectionalColor)
	if err != nil {
		return fmt.Errorf("directional light: %w", err)
	}

	sc := c.cfg.Shadow
	c.sun = light.NewLight(light.LightTypeDirectional,
		light.WithPosition(lc.DirectionalPosition[0], lc.DirectionalPosition[1], lc.DirectionalPosition[2]),
		light.WithTarget(0, 0, 0),
		light.WithColor(sunColor),
		light.WithIntensity(lc.DirectionalIntensity),
		light.WithCastsShadows(true),
		light.WithShadowCamera(light.ShadowCamera{
			Left: sc.Left, Right: sc.Right,
			Bottom: sc.Bottom, Top: sc.Top,
			Near: sc.Near, Far: sc.Far,
			MapSize: sc.MapSize,
			Bias:    sc.Bias,
		}),
	)
	ambient := light.NewLight(light.LightTypeAmbient,
		light.WithColor(ambientColor),
		light.WithIntensity(lc.AmbientIntensity),
	)

	c.sunNode = game_object.NewGameObject(
		game_object.WithName("directional_light"),
		game_object.WithPosition(lc.DirectionalPosition[0], lc.DirectionalPosition[1], lc.DirectionalPosition[2]),
		game_object.WithLight(c.sun),
	)
	c.rig = game_object.NewGameObject(game_object.WithName("lights"))
	c.rig.Add(
		game_object.NewGameObject(game_object.WithName("ambient_light"), game_object.WithLight(ambient)),
		c.sunNode,
	)
	c.root.Add(c.rig)
	return nil
}

func (c *Composer) buildTails(env *common.TextureStagingData) error {
	pc := c.cfg.Palette
	baseColor, err := common.ParseHexColor(pc.BaseColor)
	if err != nil {
		return fmt.Errorf("base material: %w", err)
	}
	goldColor, err := common.ParseHexColor(pc.ReflectiveColor)
	if err != nil {
		return fmt.Errorf("reflective material: %w", err)
	}

	base := material.NewMaterial(
		material.WithName("tail_base"),
		material.WithColor(baseColor),
		material.WithMetalness(0),
		material.WithRoughness(1),
	)
	goldOpts := []material.MaterialBuilderOption{
		material.WithName("tail_reflective"),
		material.WithColor(goldColor),
		material.WithMetalness(pc.ReflectiveMetalness),
		material.WithRoughness(pc.ReflectiveRoughness),
	}
	if env != nil {
		goldOpts = append(goldOpts, material.WithEnvMap(env, c.cfg.EnvMap.Intensity))
	} else {
		log.Printf("[Tails] no environment map, reflective tails render flat")
	}
	gold := material.NewMaterial(goldOpts...)

	box := NewSegmentBox(c.cfg.Tail)
	c.tails = make([]game_object.GameObject, c.cfg.Tail.Amount)
	for n := range c.tails {
		mat := base
		if IsReflective(n, pc.ReflectiveEvery) {
			mat = gold
		}
		c.tails[n] = BuildTail(n, c.cfg.Tail, box, mat)
		c.rand.Apply(c.tails[n])
		c.root.Add(c.tails[n])
	}
	return nil
}

func (c *Composer) buildHelpers() {
	c.axes = game_object.NewGameObject(
		game_object.WithName("axes_helper"),
		game_object.WithModel(model.NewAxes(axesSize)),
		game_object.WithVisible(false),
	)

	// syncHelpers keeps the helper hidden until the shadow matrix is invertible
	corners, ok := light.FrustumCorners(c.sun.ShadowViewProj())
	if !ok {
		log.Printf("[Tails] light frustum unresolved at startup; helper stays hidden")
	}
	c.lightHelper = game_object.NewGameObject(
		game_object.WithName("light_helper"),
		game_object.WithModel(model.NewFrustumHelper("light_helper", corners, lightHelperColor)),
		game_object.WithVisible(false),
	)
	c.root.Add(c.axes, c.lightHelper)
}

// Camera returns the scene camera, for wiring pointer input.
func (c *Composer) Camera() camera.Camera {
	return c.cam
}

// Scene returns the tails scene, or nil before New has uploaded it.
func (c *Composer) Scene() scene.Scene {
	return c.scn
}

// Tails returns the tail groups in index order.
func (c *Composer) Tails() []game_object.GameObject {
	return c.tails
}

// Sequencer returns the animation sequencer.
func (c *Composer) Sequencer() *timeline.Sequencer {
	return c.seq
}

// Tick advances one frame: the light rig takes the camera's orientation, the camera
// controller applies its damping, a new cycle starts if the previous one finished, the
// timeline advances and the debug helpers follow the panel.
//
// Parameters:
//   - dt: seconds since the previous frame
func (c *Composer) Tick(dt float32) {
	c.rig.SetQuaternion(c.cam.Orientation())
	c.cam.Update()

	c.seq.StartIfIdle(c.newCycle)
	c.seq.Advance(float64(dt))

	c.syncHelpers()
}

// newCycle re-rolls every tail's rotation and schedules one show/hold/hide cycle, ending
// with a return to idle.
func (c *Composer) newCycle() *timeline.Timeline {
	for _, t := range c.tails {
		c.rand.Apply(t)
	}

	tl := timeline.New()
	for _, t := range c.tails {
		tl.Stagger(visibilitySetters(t, true), stepStagger, timeline.PrevStart(showAt), 0)
	}
	for i, t := range c.tails {
		delay := 0.0
		if i == 0 {
			delay = holdDelay
		}
		tl.Stagger(visibilitySetters(t, false), stepStagger, timeline.PrevStart(hideAt), delay)
	}
	tl.Call(c.seq.Reset, timeline.End(), resetDelay)
	return tl
}

func visibilitySetters(tail game_object.GameObject, visible bool) []func() {
	children := tail.Children()
	fns := make([]func(), len(children))
	for i, seg := range children {
		fns[i] = func() { seg.SetVisible(visible) }
	}
	return fns
}

func (c *Composer) syncHelpers() {
	if c.panel == nil {
		return
	}

	c.axes.SetVisible(c.panel.Enabled(debug.ToggleAxes))

	showHelper := c.panel.Enabled(debug.ToggleLightHelper)
	if showHelper {
		p := c.sunNode.WorldPosition()
		c.sun.SetPosition(p.X(), p.Y(), p.Z())
		corners, ok := light.FrustumCorners(c.sun.ShadowViewProj())
		if ok {
			model.UpdateFrustumHelper(c.lightHelper.Model(), corners, lightHelperColor)
		}
		showHelper = ok
	}
	c.lightHelper.SetVisible(showHelper)

	if c.stats != nil {
		if on := c.panel.Enabled(debug.ToggleStats); on != c.stats.ProfilerEnabled() {
			if on {
				c.stats.EnableProfiler()
			} else {
				c.stats.DisableProfiler()
			}
		}
	}
}

// Dispose stops the engine and unregisters the scene, then releases the scene, the
// renderer and the window in that order. It is safe to call more than once. It must not
// be called from the render goroutine.
func (c *Composer) Dispose() {
	c.disposeOnce.Do(func() {
		if c.eng != nil {
			c.eng.Quit()
			c.eng.Wait()
			c.eng.SetFrameTicker(nil)
			c.eng.RemoveScene(SceneKey)
		}
		if c.scn != nil {
			c.scn.Release()
		}
		if c.eng != nil {
			if r := c.eng.Renderer(); r != nil {
				r.Release()
			}
			if w := c.eng.Window(); w != nil {
				if err := w.Close(); err != nil {
					log.Printf("[Tails] failed to close window: %v", err)
				}
			}
		}
		log.Printf("[Tails] disposed")
	})
}
