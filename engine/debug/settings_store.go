package debug

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Settings is the persisted state of the debug toggles.
type Settings struct {
	Axes        bool `yaml:"axes"`
	LightHelper bool `yaml:"lightHelper"`
	Stats       bool `yaml:"stats"`
}

const (
	settingsObject   = "debug"
	settingsProperty = "toggles"
)

// SettingsStore saves and restores Settings through gdata. A store without a manager is
// memory-only: Load returns the zero Settings and Save is a no-op.
type SettingsStore struct {
	manager *gdata.Manager
}

// NewSettingsStore wraps a gdata manager.
//
// Parameters:
//   - manager: the gdata manager, or nil for a memory-only store
//
// Returns:
//   - *SettingsStore: the store
func NewSettingsStore(manager *gdata.Manager) *SettingsStore {
	return &SettingsStore{manager: manager}
}

// OpenSettingsStore opens the per-user gdata storage for appName. If the storage cannot be
// opened the failure is logged and a memory-only store is returned.
//
// Parameters:
//   - appName: the application name used for the storage location
//
// Returns:
//   - *SettingsStore: the store, never nil
func OpenSettingsStore(appName string) *SettingsStore {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[Debug] settings storage unavailable, toggles will not persist: %v", err)
		return NewSettingsStore(nil)
	}
	return NewSettingsStore(m)
}

// Persistent reports whether Save writes anywhere.
func (s *SettingsStore) Persistent() bool {
	return s != nil && s.manager != nil
}

// Load reads the saved toggles. Missing data yields the zero Settings.
//
// Returns:
//   - Settings: the saved toggles
//   - error: error if the saved data cannot be read or parsed
func (s *SettingsStore) Load() (Settings, error) {
	if !s.Persistent() || !s.manager.ObjectPropExists(settingsObject, settingsProperty) {
		return Settings{}, nil
	}

	data, err := s.manager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load debug settings: %w", err)
	}

	var out Settings
	if err := yaml.Unmarshal(data, &out); err != nil {
		return Settings{}, fmt.Errorf("failed to unmarshal debug settings: %w", err)
	}
	return out, nil
}

// Save writes the toggles.
//
// Parameters:
//   - settings: the toggles to save
//
// Returns:
//   - error: error if marshalling or writing fails
func (s *SettingsStore) Save(settings Settings) error {
	if !s.Persistent() {
		return nil
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal debug settings: %w", err)
	}
	if err := s.manager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save debug settings: %w", err)
	}
	return nil
}
