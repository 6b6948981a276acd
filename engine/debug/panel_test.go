package debug

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-tails/common"

	"github.com/quasilyte/gdata/v2"
)

func openTestStore(t *testing.T) *SettingsStore {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)

	m, err := gdata.Open(gdata.Config{AppName: "tails_debug_test"})
	if err != nil {
		t.Fatalf("gdata.Open: %v", err)
	}
	return NewSettingsStore(m)
}

func TestPanelStartsCollapsed(t *testing.T) {
	p := NewPanel()
	if p.IsOpen() {
		t.Error("IsOpen: got true, want false")
	}
	for _, tg := range Toggles() {
		if p.Enabled(tg) {
			t.Errorf("%v: got on, want off", tg)
		}
	}
}

func TestPanelKeys(t *testing.T) {
	tests := []struct {
		name        string
		keys        []uint32
		wantOpen    bool
		want        Settings
		wantConsume []bool
	}{
		{
			name:        "number keys ignored while collapsed",
			keys:        []uint32{common.Key1, common.Key2},
			want:        Settings{},
			wantConsume: []bool{false, false},
		},
		{
			name:        "grave opens then number keys toggle",
			keys:        []uint32{common.KeyGrave, common.Key1, common.Key3},
			wantOpen:    true,
			want:        Settings{Axes: true, Stats: true},
			wantConsume: []bool{true, true, true},
		},
		{
			name:        "grave twice collapses",
			keys:        []uint32{common.KeyGrave, common.Key2, common.KeyGrave, common.Key2},
			want:        Settings{LightHelper: true},
			wantConsume: []bool{true, true, true, false},
		},
		{
			name:        "toggle twice restores",
			keys:        []uint32{common.KeyGrave, common.Key2, common.Key2},
			wantOpen:    true,
			want:        Settings{},
			wantConsume: []bool{true, true, true},
		},
		{
			name:        "unbound key",
			keys:        []uint32{common.KeyGrave, common.KeySpace},
			wantOpen:    true,
			wantConsume: []bool{true, false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPanel()
			for i, k := range tt.keys {
				got := p.KeyDown(k)
				p.KeyUp(k)
				if got != tt.wantConsume[i] {
					t.Errorf("key %d consumed: got %v, want %v", i, got, tt.wantConsume[i])
				}
			}
			if p.IsOpen() != tt.wantOpen {
				t.Errorf("IsOpen: got %v, want %v", p.IsOpen(), tt.wantOpen)
			}
			if got := p.Settings(); got != tt.want {
				t.Errorf("Settings: got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPanelIgnoresKeyRepeat(t *testing.T) {
	p := NewPanel()
	p.KeyDown(common.KeyGrave)
	p.KeyDown(common.KeyGrave)
	if !p.IsOpen() {
		t.Fatal("IsOpen after held grave: got false, want true")
	}
	p.KeyUp(common.KeyGrave)

	p.KeyDown(common.Key1)
	p.KeyDown(common.Key1)
	p.KeyDown(common.Key1)
	if !p.Enabled(ToggleAxes) {
		t.Error("axes after held key: got off, want on")
	}
}

func TestPanelOnChange(t *testing.T) {
	p := NewPanel()
	var got []Toggle
	p.OnChange(func(tg Toggle, on bool) {
		if on {
			got = append(got, tg)
		}
	})

	p.Set(ToggleStats, true)
	p.Set(ToggleStats, true) // no change, no call
	p.Flip(ToggleAxes)
	p.Set(Toggle(42), true)

	if len(got) != 2 || got[0] != ToggleStats || got[1] != ToggleAxes {
		t.Errorf("listener calls: got %v, want [stats axes]", got)
	}
}

func TestPanelWithSettings(t *testing.T) {
	p := NewPanel(WithSettings(Settings{LightHelper: true}))
	if !p.Enabled(ToggleLightHelper) {
		t.Error("light helper: got off, want on")
	}
	if err := p.Flush(); err != nil {
		t.Errorf("Flush without changes: unexpected error: %v", err)
	}
}

func TestMemoryOnlyStore(t *testing.T) {
	s := NewSettingsStore(nil)
	if s.Persistent() {
		t.Error("Persistent: got true, want false")
	}
	if err := s.Save(Settings{Axes: true}); err != nil {
		t.Errorf("Save: unexpected error: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	if got != (Settings{}) {
		t.Errorf("Load: got %+v, want zero settings", got)
	}

	p := NewPanel(WithStore(s))
	p.Set(ToggleAxes, true)
	if err := p.Flush(); err != nil {
		t.Errorf("Flush: unexpected error: %v", err)
	}
}

func TestSettingsPersistAcrossPanels(t *testing.T) {
	store := openTestStore(t)

	first := NewPanel(WithStore(store))
	first.Set(ToggleLightHelper, true)
	first.Set(ToggleStats, true)
	if err := first.Flush(); err != nil {
		t.Fatalf("Flush: unexpected error: %v", err)
	}

	second := NewPanel(WithStore(store))
	want := Settings{LightHelper: true, Stats: true}
	if got := second.Settings(); got != want {
		t.Errorf("restored settings: got %+v, want %+v", got, want)
	}
	if second.IsOpen() {
		t.Error("restored panel IsOpen: got true, want false")
	}
}

func TestToggleString(t *testing.T) {
	tests := []struct {
		t    Toggle
		want string
	}{
		{ToggleAxes, "axes"},
		{ToggleLightHelper, "light helper"},
		{ToggleStats, "stats"},
		{Toggle(-1), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("Toggle(%d): got %q, want %q", int(tt.t), got, tt.want)
		}
	}
}
