package ebitenview

import (
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/danmaku"
)

// Host runs a Manager inside an Ebitengine game loop. It advances the
// Timeline by one tick per Update and resizes the stage from Layout.
type Host struct {
	Manager  *danmaku.Manager
	Timeline *danmaku.Timeline
	Stage    *danmaku.Stage
	Renderer *Renderer

	// Background fills the screen before captions are drawn. Nil leaves
	// the screen untouched.
	Background color.Color
	// ShowFPS draws the current FPS and TPS in the top-left corner.
	ShowFPS bool
	// OnUpdate runs after the timeline advances, for input handling.
	OnUpdate func(h *Host) error
	// ScreenshotDir receives captures queued with Screenshot.
	ScreenshotDir string
	// Logger reports screenshot failures. Nil discards.
	Logger *slog.Logger

	width, height int
	shots         []string
	err           error
}

// NewHost creates a host with a mounted manager and a width x height stage.
func NewHost(cfg danmaku.Config, r *Renderer, width, height int, opts ...danmaku.Option) (*Host, error) {
	tl := danmaku.NewTimeline()
	st := danmaku.NewStage(float64(width), float64(height), r.Measurer())
	tl.OnFrame(st.Update)

	m, err := danmaku.New(cfg, tl, opts...)
	if err != nil {
		return nil, err
	}
	if err := m.Mount(st); err != nil {
		return nil, fmt.Errorf("ebitenview: mount stage: %w", err)
	}
	return &Host{
		Manager:    m,
		Timeline:   tl,
		Stage:      st,
		Renderer:   r,
		Background:    color.Black,
		ScreenshotDir: "screenshots",
		width:         width,
		height:        height,
	}, nil
}

// Update advances the timeline by one tick.
func (h *Host) Update() error {
	if h.err != nil {
		return h.err
	}
	h.Timeline.Advance(tickDuration())
	if h.OnUpdate != nil {
		return h.OnUpdate(h)
	}
	return nil
}

// Draw draws every live caption.
func (h *Host) Draw(screen *ebiten.Image) {
	if h.Background != nil {
		screen.Fill(h.Background)
	}
	h.Renderer.Draw(screen, h.Stage)
	if h.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nlive: %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(), h.Stage.Len()))
	}
	h.flushScreenshots(screen)
}

// Layout keeps the stage the size of the window.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != h.width || outsideHeight != h.height {
		h.width, h.height = outsideWidth, outsideHeight
		h.Stage.SetSize(float64(outsideWidth), float64(outsideHeight))
		if err := h.Manager.Resize(); err != nil {
			h.err = err
		}
	}
	return h.width, h.height
}

func (h *Host) log() *slog.Logger {
	if h.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return h.Logger
}

// tickDuration is the simulated time per Update.
func tickDuration() time.Duration {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	return time.Second / time.Duration(tps)
}
