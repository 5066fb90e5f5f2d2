package termview

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/danmaku"
)

// tick is the redraw period of Run.
const tick = 16 * time.Millisecond

// App ties a manager, its timeline and a stage to a terminal screen.
type App struct {
	Screen   tcell.Screen
	Manager  *danmaku.Manager
	Timeline *danmaku.Timeline
	Stage    *danmaku.Stage
	Renderer *Renderer
}

// NewApp mounts a new manager on a stage the size of screen. The screen must
// already be initialised.
func NewApp(screen tcell.Screen, cfg danmaku.Config, opts ...danmaku.Option) (*App, error) {
	cols, rows := screen.Size()
	tl := danmaku.NewTimeline()
	st := danmaku.NewStage(float64(cols), float64(rows), Measurer())
	tl.OnFrame(st.Update)

	m, err := danmaku.New(cfg, tl, opts...)
	if err != nil {
		return nil, err
	}
	if err := m.Mount(st); err != nil {
		return nil, err
	}
	return &App{
		Screen:   screen,
		Manager:  m,
		Timeline: tl,
		Stage:    st,
		Renderer: NewRenderer(screen),
	}, nil
}

// HandleEvent applies one terminal event. It reports false when the user
// asked to quit. Space toggles freeze; Esc, q and Ctrl-C quit.
func (a *App) HandleEvent(ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return false, nil
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false, nil
		case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
			if a.Manager.State() == danmaku.StateFrozen {
				a.Manager.Unfreeze()
			} else {
				a.Manager.Freeze()
			}
		}
	case *tcell.EventResize:
		a.Screen.Sync()
		cols, rows := a.Screen.Size()
		a.Stage.SetSize(float64(cols), float64(rows))
		if err := a.Manager.Resize(); err != nil {
			return false, err
		}
	}
	return true, nil
}

// Step advances the timeline by dt and redraws.
func (a *App) Step(dt time.Duration) {
	a.Timeline.Advance(dt)
	a.Renderer.Frame(a.Stage)
}

// Run polls terminal events and redraws until ctx is done or the user
// quits. The timeline advances by wall-clock time between redraws.
func (a *App) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := a.Screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			ok, err := a.HandleEvent(ev)
			if err != nil || !ok {
				return err
			}
		case now := <-ticker.C:
			a.Step(now.Sub(last))
			last = now
		}
	}
}
