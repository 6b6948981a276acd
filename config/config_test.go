package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
	if cfg.Tail.Amount != 20 {
		t.Errorf("Tail.Amount: got %d, want 20", cfg.Tail.Amount)
	}
	if cfg.Tail.Depth+cfg.Tail.Gap < 0.399 || cfg.Tail.Depth+cfg.Tail.Gap > 0.401 {
		t.Errorf("Tail.Depth+Gap: got %g, want 0.4", cfg.Tail.Depth+cfg.Tail.Gap)
	}
	if cfg.Camera.Pan {
		t.Error("Camera.Pan: got true, want false")
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *SceneConfig)
	}{
		{
			name: "partial override keeps defaults",
			yamlContent: `
tail:
  amount: 12
  gap: 0.25
`,
			validate: func(t *testing.T, cfg *SceneConfig) {
				if cfg.Tail.Amount != 12 {
					t.Errorf("Tail.Amount: got %d, want 12", cfg.Tail.Amount)
				}
				if cfg.Tail.Gap != 0.25 {
					t.Errorf("Tail.Gap: got %g, want 0.25", cfg.Tail.Gap)
				}
				if cfg.Tail.Depth != 0.3 {
					t.Errorf("Tail.Depth: got %g, want 0.3 (default)", cfg.Tail.Depth)
				}
				if cfg.Render.Background != "#0a0a0a" {
					t.Errorf("Render.Background: got %s, want #0a0a0a", cfg.Render.Background)
				}
			},
		},
		{
			name: "light and shadow overrides",
			yamlContent: `
lights:
  directionalPosition: [5, 8, 2]
shadow:
  mapSize: 1024
`,
			validate: func(t *testing.T, cfg *SceneConfig) {
				if cfg.Lights.DirectionalPosition != [3]float32{5, 8, 2} {
					t.Errorf("DirectionalPosition: got %v, want [5 8 2]", cfg.Lights.DirectionalPosition)
				}
				if cfg.Shadow.MapSize != 1024 {
					t.Errorf("Shadow.MapSize: got %d, want 1024", cfg.Shadow.MapSize)
				}
			},
		},
		{
			name:        "zero amount rejected",
			yamlContent: "tail:\n  amount: 0\n",
			wantErr:     true,
			errContains: "tail amount",
		},
		{
			name:        "negative gap rejected",
			yamlContent: "tail:\n  gap: -0.5\n",
			wantErr:     true,
			errContains: "tail gap",
		},
		{
			name:        "bad colour rejected",
			yamlContent: "palette:\n  baseColor: \"not-a-color\"\n",
			wantErr:     true,
			errContains: "palette.baseColor",
		},
		{
			name:        "bad msaa rejected",
			yamlContent: "render:\n  msaa: 3\n",
			wantErr:     true,
			errContains: "msaa",
		},
		{
			name:        "shadow near past far rejected",
			yamlContent: "shadow:\n  near: 40\n",
			wantErr:     true,
			errContains: "shadow near/far",
		},
		{
			name:        "malformed yaml",
			yamlContent: "tail: [unterminated",
			wantErr:     true,
			errContains: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scene.yaml")
			if err := os.WriteFile(path, []byte(tt.yamlContent), 0644); err != nil {
				t.Fatalf("Failed to write test config: %v", err)
			}

			cfg, err := Load(path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Load() expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("Load() error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load() expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("Load() error %q does not mention read failure", err.Error())
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.EnvMap.Path != Default().EnvMap.Path {
		t.Errorf("EnvMap.Path: got %s, want %s", cfg.EnvMap.Path, Default().EnvMap.Path)
	}
}
