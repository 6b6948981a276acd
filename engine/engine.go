package engine

import (
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-tails/engine/profiler"
	"github.com/Carmen-Shannon/oxy-tails/engine/renderer"
	"github.com/Carmen-Shannon/oxy-tails/engine/scene"
	"github.com/Carmen-Shannon/oxy-tails/engine/window"
)

// FrameTicker is advanced once per rendered frame on the render goroutine, before the
// active scenes are prepared and drawn.
type FrameTicker interface {
	// Tick advances per-frame state.
	//
	// Parameters:
	//   - dt: seconds since the previous frame
	Tick(dt float32)
}

// FrameTickerFunc adapts a plain function to FrameTicker.
type FrameTickerFunc func(dt float32)

// Tick calls f(dt).
func (f FrameTickerFunc) Tick(dt float32) {
	f(dt)
}

// engine implements the Engine interface.
// Coordinates engine, render, and window threads.
type engine struct {
	mu *sync.RWMutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer renderer.Renderer

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	frameTicker    FrameTicker

	scenes map[int]scene.Scene

	// pendingSize holds a resize from the window thread until the render goroutine applies it.
	pendingSize atomic.Pointer[[2]int]

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point for the engine.
// It orchestrates the engine loop, render loop, and window management.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer that draws into the window, or nil if none was configured.
	//
	// Returns:
	//   - renderer.Renderer: the renderer instance
	Renderer() renderer.Renderer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// ProfilerEnabled reports whether profiling output is on.
	//
	// Returns:
	//   - bool: true if the profiler logs each interval
	ProfilerEnabled() bool

	// SetTickRate sets the engine tick rate in frames per second.
	// The tick callback will be called at this rate.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each fixed-rate engine tick. The callback
	// runs on the engine goroutine, not the render goroutine.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetFrameTicker registers the hook advanced once per rendered frame on the render
	// goroutine. Pass nil to remove it.
	//
	// Parameters:
	//   - t: the FrameTicker to advance
	SetFrameTicker(t FrameTicker)

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddScene registers a scene at the given z-index key.
	// Scenes are rendered in ascending key order during the render loop.
	//
	// Parameters:
	//   - key: the z-index determining render order (lower renders first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key.
	// Returns nil if no scene exists at that key.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// Run starts the engine and render goroutines and runs the window message loop on the
	// calling goroutine. It blocks until the window closes or Quit is called, and returns
	// once the render goroutine has stopped.
	Run()

	// Quit signals all engine goroutines to stop and closes the window loop.
	// Safe to call multiple times and from any goroutine.
	Quit()

	// Wait blocks until the engine goroutines have stopped. It must not be called from a
	// FrameTicker or tick callback.
	Wait()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:              &sync.RWMutex{},
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		scenes:          make(map[int]scene.Scene),
		profiler:        profiler.NewProfiler(),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			e.pendingSize.Store(&[2]int{width, height})
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Run() {
	e.running.Store(true)
	log.Printf("[Engine] running (tick %v, frame limit %v)", e.engineTickRate, e.renderFrameLimit)

	e.handle()
	if e.window != nil {
		e.window.ProcessMessages()
	}
	e.signalQuit()
	e.wg.Wait()

	log.Printf("[Engine] stopped")
}

func (e *engine) Quit() {
	e.signalQuit()
}

func (e *engine) Wait() {
	e.wg.Wait()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running.Store(false)
		close(e.quitChannel)
		if e.window != nil {
			e.window.RequestClose()
		}
	})
}

// handle launches the engine and render goroutines.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleRender()
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			e.mu.RLock()
			cb := e.tickCallback
			e.mu.RUnlock()
			if cb != nil {
				cb(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the render loop in its own goroutine. Each frame it applies a pending
// resize, advances the FrameTicker, prepares every active scene, records the shadow passes
// and then draws all active scenes in ascending z-index order inside one main pass.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		now := time.Now()
		dt := float32(now.Sub(lastRender).Seconds())
		lastRender = now

		e.applyPendingResize()

		e.mu.RLock()
		ft := e.frameTicker
		activeScenes := e.activeScenesLocked()
		e.mu.RUnlock()

		if ft != nil {
			ft.Tick(dt)
		}

		if err := e.renderFrame(activeScenes); err != nil {
			log.Printf("[Engine] frame failed, shutting down: %v", err)
			e.signalQuit()
			return
		}

		if e.profilingEnabled.Load() {
			e.profiler.Tick()
		}

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// activeScenesLocked returns the active scenes sorted by z-index. e.mu must be held.
func (e *engine) activeScenesLocked() []scene.Scene {
	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	active := make([]scene.Scene, 0, len(keys))
	for _, k := range keys {
		if s := e.scenes[k]; s.Active() {
			active = append(active, s)
		}
	}
	return active
}

// renderFrame records one frame for the given scenes. All scenes are drawn with the first
// scene's renderer inside a single main pass so they composite in order.
func (e *engine) renderFrame(activeScenes []scene.Scene) error {
	if len(activeScenes) == 0 {
		return nil
	}
	frameRenderer := activeScenes[0].Renderer()
	if frameRenderer == nil {
		return nil
	}

	for _, s := range activeScenes {
		if err := s.Prepare(); err != nil {
			return err
		}
	}
	for _, s := range activeScenes {
		if err := s.PrepareShadows(); err != nil {
			return err
		}
	}

	// a lost or outdated surface skips the frame; the next resize reconfigures it
	if err := frameRenderer.BeginFrame(); err != nil {
		return nil
	}
	var drawErr error
	for _, s := range activeScenes {
		if drawErr = s.DrawCalls(); drawErr != nil {
			break
		}
	}
	frameRenderer.EndFrame()
	frameRenderer.Present()
	return drawErr
}

// applyPendingResize reconfigures the surface and camera aspects for the latest window size.
func (e *engine) applyPendingResize() {
	size := e.pendingSize.Swap(nil)
	if size == nil {
		return
	}
	width, height := size[0], size[1]
	if width <= 0 || height <= 0 {
		return
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	resized := make(map[renderer.Renderer]bool)
	if e.renderer != nil {
		e.renderer.Resize(width, height)
		resized[e.renderer] = true
	}
	for _, s := range e.scenes {
		if r := s.Renderer(); r != nil && !resized[r] {
			r.Resize(width, height)
			resized[r] = true
		}
		if c := s.Camera(); c != nil {
			c.SetAspect(float32(width) / float32(height))
		}
	}
}

func (e *engine) EnableProfiler() {
	if !e.profilingEnabled.Swap(true) {
		e.profiler.Reset()
		log.Printf("[Engine] profiler enabled")
	}
}

func (e *engine) DisableProfiler() {
	if e.profilingEnabled.Swap(false) {
		log.Printf("[Engine] profiler disabled")
	}
}

func (e *engine) ProfilerEnabled() bool {
	return e.profilingEnabled.Load()
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if !e.running.Load() {
		e.engineTickRate = newRate
		return
	}

	// replace any pending update rather than block
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	e.tickCallback = callback
	e.mu.Unlock()
}

func (e *engine) SetFrameTicker(t FrameTicker) {
	e.mu.Lock()
	e.frameTicker = t
	e.mu.Unlock()
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.mu.Lock()
	e.scenes[key] = s
	e.mu.Unlock()
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	delete(e.scenes, key)
	e.mu.Unlock()
}

func (e *engine) Scene(key int) scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cp := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}
