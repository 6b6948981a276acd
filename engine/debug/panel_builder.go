package debug

// PanelBuilderOption is a functional option for configuring a Panel via NewPanel.
type PanelBuilderOption func(*panel)

// WithStore persists the toggles through store. Saved toggles are restored on creation.
//
// Parameters:
//   - store: the settings store
//
// Returns:
//   - PanelBuilderOption: a function that applies the option to a panel
func WithStore(store *SettingsStore) PanelBuilderOption {
	return func(p *panel) {
		p.store = store
	}
}

// WithSettings sets the initial toggles, overriding anything saved in the store.
//
// Parameters:
//   - s: the initial toggles
//
// Returns:
//   - PanelBuilderOption: a function that applies the option to a panel
func WithSettings(s Settings) PanelBuilderOption {
	return func(p *panel) {
		p.initial = &s
	}
}
