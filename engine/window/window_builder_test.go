package window

import "testing"

func defaultWindow() *engineWindow {
	return &engineWindow{
		title:     "tails",
		maxWidth:  sizeUnlimited,
		maxHeight: sizeUnlimited,
		minWidth:  320,
		minHeight: 240,
		width:     1280,
		height:    720,
	}
}

func TestWindowBuilderOptions(t *testing.T) {
	tests := []struct {
		name       string
		opts       []WindowBuilderOption
		wantTitle  string
		wantWidth  int
		wantHeight int
	}{
		{"defaults", nil, "tails", 1280, 720},
		{"title and size", []WindowBuilderOption{WithTitle("ring"), WithSize(800, 600)}, "ring", 800, 600},
		{"empty title", []WindowBuilderOption{WithTitle("")}, "tails", 1280, 720},
		{"zero size keeps defaults", []WindowBuilderOption{WithSize(0, -5)}, "tails", 1280, 720},
		{"clamped to minimum", []WindowBuilderOption{WithSize(100, 100)}, "tails", 320, 240},
		{"custom minimum", []WindowBuilderOption{WithMinSize(64, 48), WithSize(100, 100)}, "tails", 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := defaultWindow()
			for _, opt := range tt.opts {
				opt(w)
			}
			if w.title != tt.wantTitle {
				t.Errorf("title: got %q, want %q", w.title, tt.wantTitle)
			}
			if w.width != tt.wantWidth || w.height != tt.wantHeight {
				t.Errorf("size: got %dx%d, want %dx%d", w.width, w.height, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}
