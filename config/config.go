// Package config holds the on-disk configuration for the tails scene. Every field
// has a default that reproduces the stock scene, so a config file only needs to
// list the values it overrides.
package config

import (
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-tails/common"

	"gopkg.in/yaml.v3"
)

// SceneConfig is the root of the YAML configuration.
type SceneConfig struct {
	Window  WindowConfig  `yaml:"window"`
	Render  RenderConfig  `yaml:"render"`
	Tail    TailConfig    `yaml:"tail"`
	Camera  CameraConfig  `yaml:"camera"`
	Lights  LightsConfig  `yaml:"lights"`
	Shadow  ShadowConfig  `yaml:"shadow"`
	EnvMap  EnvMapConfig  `yaml:"envMap"`
	Palette PaletteConfig `yaml:"palette"`
}

// WindowConfig describes the native window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// RenderConfig controls the engine loop and surface.
type RenderConfig struct {
	// Background is the clear colour as a hex string.
	Background string `yaml:"background"`
	// TickRate is the engine tick frequency in Hz.
	TickRate int `yaml:"tickRate"`
	// VSync selects FIFO presentation; false presents immediately.
	VSync bool `yaml:"vsync"`
	// MSAA is the sample count: 1, 4, 8 or 16.
	MSAA int `yaml:"msaa"`
	// FrameLimit caps the render loop, 0 means uncapped.
	FrameLimit int `yaml:"frameLimit"`
}

// TailConfig describes the geometry of one tail.
type TailConfig struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
	Depth  float32 `yaml:"depth"`
	Gap    float32 `yaml:"gap"`
	// Amount is both the number of segments per tail and the number of tails.
	Amount int `yaml:"amount"`
}

// CameraConfig describes the perspective camera and its orbit controller.
type CameraConfig struct {
	Position [3]float32 `yaml:"position"`
	FovY     float32    `yaml:"fovY"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	Damping  float32    `yaml:"damping"`
	Pan      bool       `yaml:"pan"`
}

// LightsConfig describes the camera-tracking light rig.
type LightsConfig struct {
	AmbientColor         string     `yaml:"ambientColor"`
	AmbientIntensity     float32    `yaml:"ambientIntensity"`
	DirectionalColor     string     `yaml:"directionalColor"`
	DirectionalIntensity float32    `yaml:"directionalIntensity"`
	DirectionalPosition  [3]float32 `yaml:"directionalPosition"`
}

// ShadowConfig describes the directional light's orthographic shadow camera.
type ShadowConfig struct {
	MapSize int     `yaml:"mapSize"`
	Left    float32 `yaml:"left"`
	Right   float32 `yaml:"right"`
	Top     float32 `yaml:"top"`
	Bottom  float32 `yaml:"bottom"`
	Near    float32 `yaml:"near"`
	Far     float32 `yaml:"far"`
	Bias    float32 `yaml:"bias"`
}

// EnvMapConfig points at the environment image used by the reflective material.
type EnvMapConfig struct {
	Path      string  `yaml:"path"`
	Intensity float32 `yaml:"intensity"`
	// MaxWidth downsizes larger images before upload, 0 keeps the source size.
	MaxWidth int `yaml:"maxWidth"`
}

// PaletteConfig describes the two tail materials.
type PaletteConfig struct {
	BaseColor           string  `yaml:"baseColor"`
	ReflectiveColor     string  `yaml:"reflectiveColor"`
	ReflectiveMetalness float32 `yaml:"reflectiveMetalness"`
	ReflectiveRoughness float32 `yaml:"reflectiveRoughness"`
	// ReflectiveEvery selects the reflective material for tails whose index is a
	// multiple of this value.
	ReflectiveEvery int `yaml:"reflectiveEvery"`
}

// Default returns the stock scene configuration.
//
// Returns:
//   - *SceneConfig: a fully populated configuration
func Default() *SceneConfig {
	return &SceneConfig{
		Window: WindowConfig{
			Title:  "Tails",
			Width:  1280,
			Height: 720,
		},
		Render: RenderConfig{
			Background: "#0a0a0a",
			TickRate:   60,
			VSync:      true,
			MSAA:       4,
		},
		Tail: TailConfig{
			Width:  1,
			Height: 1,
			Depth:  0.3,
			Gap:    0.1,
			Amount: 20,
		},
		Camera: CameraConfig{
			Position: [3]float32{0, 0, 15},
			FovY:     45,
			Near:     0.1,
			Far:      100,
			Damping:  0.05,
			Pan:      false,
		},
		Lights: LightsConfig{
			AmbientColor:         "#ffffff",
			AmbientIntensity:     0.15,
			DirectionalColor:     "#ffffff",
			DirectionalIntensity: 0.3,
			DirectionalPosition:  [3]float32{10, 10, 10},
		},
		Shadow: ShadowConfig{
			MapSize: 2048,
			Left:    -10,
			Right:   10,
			Top:     10,
			Bottom:  -10,
			Near:    0.1,
			Far:     30,
			Bias:    0.002,
		},
		EnvMap: EnvMapConfig{
			Path:      "images/blocky_photo_studio_1k.hdr",
			Intensity: 0.03,
			MaxWidth:  1024,
		},
		Palette: PaletteConfig{
			BaseColor:           "#080808",
			ReflectiveColor:     "#dfad23",
			ReflectiveMetalness: 1,
			ReflectiveRoughness: 0.3,
			ReflectiveEvery:     4,
		},
	}
}

// Load reads a YAML configuration file on top of the defaults.
//
// Parameters:
//   - path: the configuration file path; an empty path returns the defaults
//
// Returns:
//   - *SceneConfig: the merged configuration
//   - error: error if the file cannot be read, parsed or validated
func Load(path string) (*SceneConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scene config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration describes a renderable scene.
//
// Returns:
//   - error: the first problem found, or nil
func (c *SceneConfig) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Render.TickRate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %d", c.Render.TickRate)
	}
	switch c.Render.MSAA {
	case 1, 4, 8, 16:
	default:
		return fmt.Errorf("msaa must be 1, 4, 8 or 16, got %d", c.Render.MSAA)
	}
	if c.Render.FrameLimit < 0 {
		return fmt.Errorf("frame limit must not be negative, got %d", c.Render.FrameLimit)
	}

	if c.Tail.Amount < 1 {
		return fmt.Errorf("tail amount must be at least 1, got %d", c.Tail.Amount)
	}
	if c.Tail.Width <= 0 || c.Tail.Height <= 0 || c.Tail.Depth <= 0 {
		return fmt.Errorf("tail dimensions must be positive, got %gx%gx%g", c.Tail.Width, c.Tail.Height, c.Tail.Depth)
	}
	if c.Tail.Gap < 0 {
		return fmt.Errorf("tail gap must not be negative, got %g", c.Tail.Gap)
	}

	if c.Camera.FovY <= 0 || c.Camera.FovY >= 180 {
		return fmt.Errorf("camera fovY must be in (0, 180), got %g", c.Camera.FovY)
	}
	if c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far {
		return fmt.Errorf("camera near/far invalid: near(%g) far(%g)", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.Damping < 0 || c.Camera.Damping > 1 {
		return fmt.Errorf("camera damping must be in [0, 1], got %g", c.Camera.Damping)
	}

	if c.Shadow.MapSize <= 0 {
		return fmt.Errorf("shadow map size must be positive, got %d", c.Shadow.MapSize)
	}
	if c.Shadow.Near >= c.Shadow.Far {
		return fmt.Errorf("shadow near/far invalid: near(%g) far(%g)", c.Shadow.Near, c.Shadow.Far)
	}
	if c.Shadow.Left >= c.Shadow.Right || c.Shadow.Bottom >= c.Shadow.Top {
		return fmt.Errorf("shadow frustum bounds invalid")
	}

	if c.EnvMap.Intensity < 0 {
		return fmt.Errorf("env map intensity must not be negative, got %g", c.EnvMap.Intensity)
	}
	if c.EnvMap.MaxWidth < 0 {
		return fmt.Errorf("env map max width must not be negative, got %d", c.EnvMap.MaxWidth)
	}
	if c.Palette.ReflectiveEvery < 1 {
		return fmt.Errorf("reflectiveEvery must be at least 1, got %d", c.Palette.ReflectiveEvery)
	}

	for name, hex := range map[string]string{
		"render.background":       c.Render.Background,
		"lights.ambientColor":     c.Lights.AmbientColor,
		"lights.directionalColor": c.Lights.DirectionalColor,
		"palette.baseColor":       c.Palette.BaseColor,
		"palette.reflectiveColor": c.Palette.ReflectiveColor,
	} {
		if _, err := common.ParseHexColor(hex); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return nil
}
