package ebitenview

import (
	"image/color"
	"testing"
	"time"

	"github.com/phanxgames/danmaku"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewDefaultRenderer(20)
	if err != nil {
		t.Fatalf("NewDefaultRenderer: %v", err)
	}
	return r
}

func defaultTestConfig() danmaku.Config {
	return danmaku.DefaultConfig()
}

func TestNewRendererRejectsGarbage(t *testing.T) {
	if _, err := NewRenderer([]byte("not a font"), 12); err == nil {
		t.Error("expected error for invalid font data")
	}
}

func TestMeasureTextGrowsWithLength(t *testing.T) {
	r := newTestRenderer(t)

	short, h := r.Measure([]danmaku.Content{danmaku.Text{Value: "ab"}}, nil)
	long, _ := r.Measure([]danmaku.Content{danmaku.Text{Value: "abcdef"}}, nil)

	if short <= 0 || long <= short {
		t.Errorf("widths = %v, %v, want 0 < short < long", short, long)
	}
	if h != r.LineHeight() {
		t.Errorf("height = %v, want line height %v", h, r.LineHeight())
	}
}

func TestMeasureBoxAddsWidthAndHeight(t *testing.T) {
	r := newTestRenderer(t)
	tw, _ := r.Measure([]danmaku.Content{danmaku.Text{Value: "x"}}, nil)

	w, h := r.Measure([]danmaku.Content{danmaku.Text{Value: "x"}, danmaku.Box{Width: 16, Height: 64}}, nil)

	if w != tw+16 || h != 64 {
		t.Errorf("size = (%v, %v), want (%v, 64)", w, h, tw+16)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.Color
		ok   bool
	}{
		{"#ff0000", color.RGBA{R: 0xff, A: 0xff}, true},
		{"#fff", color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, true},
		{"", nil, false},
		{"red", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseColor(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseColor(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestHostLayoutResizesStage(t *testing.T) {
	r := newTestRenderer(t)
	host, err := NewHost(danmaku.DefaultConfig(), r, 640, 120)
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}
	before := len(host.Manager.Engine().Tracks())

	w, h := host.Layout(640, 480)

	if w != 640 || h != 480 {
		t.Errorf("Layout = (%d, %d), want (640, 480)", w, h)
	}
	if sw, sh := host.Stage.Size(); sw != 640 || sh != 480 {
		t.Errorf("stage = (%v, %v), want (640, 480)", sw, sh)
	}
	if after := len(host.Manager.Engine().Tracks()); after <= before {
		t.Errorf("tracks = %d after growing, want more than %d", after, before)
	}
}

func TestHostUpdateAdvancesOneTick(t *testing.T) {
	r := newTestRenderer(t)
	host, err := NewHost(danmaku.DefaultConfig(), r, 640, 120)
	if err != nil {
		t.Fatal(err)
	}
	calls := 0
	host.OnUpdate = func(*Host) error { calls++; return nil }

	if err := host.Update(); err != nil {
		t.Fatal(err)
	}
	if got, want := host.Timeline.Now(), tickDuration(); got != want {
		t.Errorf("Now = %v, want %v", got, want)
	}
	if calls != 1 {
		t.Errorf("OnUpdate calls = %d, want 1", calls)
	}
	if tickDuration() <= 0 || tickDuration() > time.Second {
		t.Errorf("tickDuration = %v", tickDuration())
	}
}
