package main

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/Carmen-Shannon/oxy-tails/common"
	"github.com/Carmen-Shannon/oxy-tails/config"
	"github.com/Carmen-Shannon/oxy-tails/engine"
	"github.com/Carmen-Shannon/oxy-tails/engine/camera"
	"github.com/Carmen-Shannon/oxy-tails/engine/debug"
	"github.com/Carmen-Shannon/oxy-tails/engine/loader"
	"github.com/Carmen-Shannon/oxy-tails/engine/renderer"
	"github.com/Carmen-Shannon/oxy-tails/engine/window"
	"github.com/Carmen-Shannon/oxy-tails/tails"

	"github.com/spf13/cobra"
)

const (
	appName     = "oxy-tails"
	envKey      = "env"
	loadTimeout = 30 * time.Second
)

// flags holds the command line overrides.
type flags struct {
	configPath string
	width      int
	height     int
	vsync      bool
	msaa       int
	software   bool
	profile    bool
	seed       uint64
}

func newRootCommand() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:          "tails",
		Short:        "Render a ring of animated box tails",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, f, cmd.Flags().Changed("seed"))
		},
	}

	bindFlags(cmd, f)
	return cmd
}

func bindFlags(cmd *cobra.Command, f *flags) {
	fs := cmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "", "scene config YAML; defaults reproduce the stock scene")
	fs.IntVar(&f.width, "width", 0, "window width in pixels")
	fs.IntVar(&f.height, "height", 0, "window height in pixels")
	fs.BoolVar(&f.vsync, "vsync", true, "wait for vertical blank when presenting")
	fs.IntVar(&f.msaa, "msaa", 0, "MSAA sample count: 1, 4, 8 or 16")
	fs.BoolVar(&f.software, "software", false, "force the software (fallback) GPU adapter")
	fs.BoolVar(&f.profile, "profile", false, "start with the stats log enabled")
	fs.Uint64Var(&f.seed, "seed", 0, "seed for the tail rotations; random when unset")
}

// resolveConfig loads the config file and applies the flags the user set.
func resolveConfig(cmd *cobra.Command, f *flags) (*config.SceneConfig, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("width") {
		cfg.Window.Width = f.width
	}
	if changed("height") {
		cfg.Window.Height = f.height
	}
	if changed("vsync") {
		cfg.Render.VSync = f.vsync
	}
	if changed("msaa") {
		cfg.Render.MSAA = f.msaa
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.SceneConfig, f *flags, seeded bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)

	presentMode := renderer.PresentModeUncapped
	if cfg.Render.VSync {
		presentMode = renderer.PresentModeVSync
	}
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(renderer.ParseMSAA(cfg.Render.MSAA)),
		renderer.WithForceSoftwareRenderer(f.software),
	)

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithTickRate(float64(cfg.Render.TickRate)),
		engine.WithRenderFrameLimit(float64(cfg.Render.FrameLimit)),
		engine.WithProfiling(f.profile),
	)

	env := loadEnvironment(ctx, cfg)

	panel := debug.NewPanel(debug.WithStore(debug.OpenSettingsStore(appName)))
	if f.profile {
		panel.Set(debug.ToggleStats, true)
	}

	opts := []tails.ComposerOption{tails.WithPanel(panel)}
	if seeded {
		opts = append(opts, tails.WithRandomSource(rand.New(rand.NewPCG(f.seed, f.seed))))
	}
	comp, err := tails.New(eng, cfg, env, opts...)
	if err != nil {
		r.Release()
		_ = win.Close()
		return fmt.Errorf("failed to compose scene: %w", err)
	}
	defer comp.Dispose()

	pointer := camera.NewPointerInput(comp.Camera().Controller())
	win.SetMouseButtonCallback(pointer.MouseButton)
	win.SetMouseMoveCallback(pointer.MouseMove)
	win.SetScrollCallback(pointer.Scroll)
	win.SetKeyDownCallback(func(key uint32) { panel.KeyDown(key) })
	win.SetKeyUpCallback(panel.KeyUp)

	// the tick callback runs on the engine goroutine, away from the frame
	eng.SetTickCallback(func(float32) {
		if err := panel.Flush(); err != nil {
			log.Printf("[Debug] %v", err)
		}
	})

	eng.Run()
	return panel.Flush()
}

// loadEnvironment decodes the environment map before the scene is built. A failed load is
// logged and the scene renders without reflections.
func loadEnvironment(ctx context.Context, cfg *config.SceneConfig) *common.TextureStagingData {
	if cfg.EnvMap.Path == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	ldr := loader.NewLoader(loader.WithMaxWidth(cfg.EnvMap.MaxWidth))
	textures, err := ldr.LoadAll(ctx, map[string]string{envKey: cfg.EnvMap.Path})
	if err != nil {
		log.Printf("[Loader] environment map unavailable: %v", err)
	}
	return textures[envKey]
}
