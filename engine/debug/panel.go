// Package debug implements the keyboard debug panel. The panel holds a handful of boolean
// toggles that the scene reads each frame, and remembers them between runs through a
// SettingsStore.
package debug

import (
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-tails/common"
)

// Toggle identifies one debug switch.
type Toggle int

const (
	// ToggleAxes shows the world axes helper.
	ToggleAxes Toggle = iota
	// ToggleLightHelper shows the directional light's shadow frustum.
	ToggleLightHelper
	// ToggleStats enables the profiler log line.
	ToggleStats

	toggleCount
)

func (t Toggle) String() string {
	switch t {
	case ToggleAxes:
		return "axes"
	case ToggleLightHelper:
		return "light helper"
	case ToggleStats:
		return "stats"
	default:
		return "unknown"
	}
}

// Toggles lists every switch in key order.
func Toggles() []Toggle {
	return []Toggle{ToggleAxes, ToggleLightHelper, ToggleStats}
}

// panel is the implementation of the Panel interface.
type panel struct {
	open    atomic.Bool
	toggles [toggleCount]atomic.Bool
	dirty   atomic.Bool

	// held suppresses key repeat: a key toggles once per press.
	heldMu sync.Mutex
	held   map[uint32]bool

	listenersMu sync.RWMutex
	listeners   []func(Toggle, bool)

	store   *SettingsStore
	initial *Settings
}

// Panel is the keyboard debug panel. The grave key opens and closes it; while it is open the
// number keys flip the toggles. It starts collapsed.
//
// Key handlers may be called from the window's input thread. State reads are safe from any
// goroutine.
type Panel interface {
	// IsOpen reports whether the panel accepts toggle keys.
	//
	// Returns:
	//   - bool: true if the panel is open
	IsOpen() bool

	// SetOpen opens or collapses the panel.
	//
	// Parameters:
	//   - open: the new state
	SetOpen(open bool)

	// Enabled reports the state of a toggle.
	//
	// Parameters:
	//   - t: the toggle
	//
	// Returns:
	//   - bool: true if the toggle is on
	Enabled(t Toggle) bool

	// Set changes a toggle. Listeners run only when the value changes.
	//
	// Parameters:
	//   - t: the toggle
	//   - on: the new value
	Set(t Toggle, on bool)

	// Flip inverts a toggle.
	//
	// Parameters:
	//   - t: the toggle
	//
	// Returns:
	//   - bool: the new value
	Flip(t Toggle) bool

	// KeyDown handles a key press. Repeats of a held key are ignored.
	//
	// Parameters:
	//   - key: the key code
	//
	// Returns:
	//   - bool: true if the panel consumed the key
	KeyDown(key uint32) bool

	// KeyUp handles a key release.
	//
	// Parameters:
	//   - key: the key code
	KeyUp(key uint32)

	// OnChange registers a listener called with each toggle change, on the goroutine that
	// made the change.
	//
	// Parameters:
	//   - fn: the listener
	OnChange(fn func(t Toggle, on bool))

	// Settings returns a snapshot of the toggles.
	//
	// Returns:
	//   - Settings: the current toggles
	Settings() Settings

	// Flush saves the toggles if they changed since the last flush.
	//
	// Returns:
	//   - error: error if saving fails
	Flush() error
}

var _ Panel = &panel{}

// NewPanel creates a collapsed Panel. Saved toggles are restored from the store when one is
// configured.
//
// Parameters:
//   - options: a variadic list of PanelBuilderOption functions to configure the Panel
//
// Returns:
//   - Panel: the panel
func NewPanel(options ...PanelBuilderOption) Panel {
	p := &panel{held: make(map[uint32]bool)}
	for _, option := range options {
		option(p)
	}

	var s Settings
	switch {
	case p.initial != nil:
		s = *p.initial
	case p.store.Persistent():
		loaded, err := p.store.Load()
		if err != nil {
			log.Printf("[Debug] %v (using defaults)", err)
		}
		s = loaded
	}
	p.apply(s)

	if !p.store.Persistent() {
		log.Printf("[Debug] no settings storage, toggles are memory-only")
	}
	return p
}

func (p *panel) apply(s Settings) {
	p.toggles[ToggleAxes].Store(s.Axes)
	p.toggles[ToggleLightHelper].Store(s.LightHelper)
	p.toggles[ToggleStats].Store(s.Stats)
}

func (p *panel) IsOpen() bool {
	return p.open.Load()
}

func (p *panel) SetOpen(open bool) {
	if p.open.Swap(open) == open {
		return
	}
	p.logState()
}

func (p *panel) Enabled(t Toggle) bool {
	if t < 0 || t >= toggleCount {
		return false
	}
	return p.toggles[t].Load()
}

func (p *panel) Set(t Toggle, on bool) {
	if t < 0 || t >= toggleCount {
		return
	}
	if p.toggles[t].Swap(on) == on {
		return
	}
	p.changed(t, on)
}

func (p *panel) Flip(t Toggle) bool {
	if t < 0 || t >= toggleCount {
		return false
	}
	for {
		old := p.toggles[t].Load()
		if p.toggles[t].CompareAndSwap(old, !old) {
			p.changed(t, !old)
			return !old
		}
	}
}

func (p *panel) changed(t Toggle, on bool) {
	p.dirty.Store(true)
	p.logState()

	p.listenersMu.RLock()
	listeners := p.listeners
	p.listenersMu.RUnlock()
	for _, fn := range listeners {
		fn(t, on)
	}
}

func (p *panel) KeyDown(key uint32) bool {
	p.heldMu.Lock()
	repeat := p.held[key]
	p.held[key] = true
	p.heldMu.Unlock()

	if key == common.KeyGrave {
		if !repeat {
			p.SetOpen(!p.IsOpen())
		}
		return true
	}

	t, ok := toggleForKey(key)
	if !ok || !p.IsOpen() {
		return false
	}
	if !repeat {
		p.Flip(t)
	}
	return true
}

func (p *panel) KeyUp(key uint32) {
	p.heldMu.Lock()
	delete(p.held, key)
	p.heldMu.Unlock()
}

func (p *panel) OnChange(fn func(t Toggle, on bool)) {
	p.listenersMu.Lock()
	defer p.listenersMu.Unlock()
	p.listeners = append(p.listeners, fn)
}

func (p *panel) Settings() Settings {
	return Settings{
		Axes:        p.toggles[ToggleAxes].Load(),
		LightHelper: p.toggles[ToggleLightHelper].Load(),
		Stats:       p.toggles[ToggleStats].Load(),
	}
}

func (p *panel) Flush() error {
	if !p.dirty.Swap(false) {
		return nil
	}
	if err := p.store.Save(p.Settings()); err != nil {
		p.dirty.Store(true)
		return err
	}
	return nil
}

func (p *panel) logState() {
	var b strings.Builder
	if p.IsOpen() {
		b.WriteString("open")
	} else {
		b.WriteString("collapsed")
	}
	for i, t := range Toggles() {
		b.WriteString(" [")
		b.WriteByte(byte('1' + i))
		b.WriteString("] ")
		b.WriteString(t.String())
		if p.toggles[t].Load() {
			b.WriteString(" on")
		} else {
			b.WriteString(" off")
		}
	}
	log.Printf("[Debug] %s", b.String())
}

func toggleForKey(key uint32) (Toggle, bool) {
	switch key {
	case common.Key1:
		return ToggleAxes, true
	case common.Key2:
		return ToggleLightHelper, true
	case common.Key3:
		return ToggleStats, true
	default:
		return 0, false
	}
}
