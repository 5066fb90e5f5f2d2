package danmaku

import (
	"errors"
	"fmt"
	"log/slog"
)

// State is the rendering state of a Manager.
type State uint8

const (
	StateIdle      State = iota // not ticking
	StateRendering              // ticking and launching captions
	StateFrozen                 // not ticking, every live item paused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRendering:
		return "rendering"
	case StateFrozen:
		return "frozen"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for state transitions and dropped
// captions. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// settle is a pending graceful stop or cancel waiting for the screen to
// empty.
type settle struct {
	sub  Subscription
	done chan struct{}
}

// Manager is the top-level orchestrator. It owns the tick, the rendering
// state machine and the aggregate hooks, and delegates launching to its
// Engine. All methods must be called from the goroutine that advances the
// Timer.
type Manager struct {
	cfg    Config
	timer  Timer
	log    *slog.Logger
	hooks  ManagerHooks
	engine *Engine

	state    State
	tick     Handle
	settling *settle
}

// New creates an idle, unmounted manager.
func New(cfg Config, timer Timer, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if timer == nil {
		return nil, errors.New("danmaku: nil timer")
	}
	m := &Manager{
		cfg:   cfg,
		timer: timer,
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.engine = NewEngine(cfg, timer, &m.hooks, m, m.log)
	return m, nil
}

// Push queues captions for launch.
func (m *Manager) Push(captions ...*Caption) error {
	return m.engine.Add(captions...)
}

// UntilAllDone returns a channel closed on the next Finish.
func (m *Manager) UntilAllDone() <-chan struct{} {
	done := make(chan struct{})
	m.hooks.Finish.Once(func(*Manager) { close(done) })
	return done
}

// StartRender launches one pass immediately and then one per Interval.
func (m *Manager) StartRender() {
	if m.state != StateIdle {
		return
	}
	m.abandonSettle()
	m.startTicking()
	m.setState(StateRendering)
	m.hooks.Start.Emit(m)
}

// StopRender stops ticking. Live items keep moving.
func (m *Manager) StopRender() {
	if m.state != StateRendering {
		return
	}
	m.stopTicking()
	m.setState(StateIdle)
	m.hooks.Stop.Emit(m)
}

// Freeze stops ticking and pauses every live item.
func (m *Manager) Freeze() {
	if m.state != StateRendering {
		return
	}
	m.stopTicking()
	m.engine.Each((*Item).Pause)
	m.setState(StateFrozen)
	m.hooks.Freeze.Emit(m)
}

// Unfreeze resumes every live item and restarts ticking.
func (m *Manager) Unfreeze() {
	if m.state != StateFrozen {
		return
	}
	m.engine.Each((*Item).Resume)
	m.startTicking()
	m.setState(StateRendering)
	m.hooks.Unfreeze.Emit(m)
}

// Cancel stops ticking, aborts every live item and empties the stash.
func (m *Manager) Cancel() {
	m.abandonSettle()
	m.stopTicking()
	m.engine.Each((*Item).Cancel)
	m.engine.ClearStash()
	m.setState(StateIdle)
	m.hooks.Cancel.Emit(m)
}

// GracefulStop stops launching and lets live items finish. The returned
// channel is closed, and Stop fires, once the screen is empty.
func (m *Manager) GracefulStop() <-chan struct{} {
	m.drain()
	return m.settleWhenEmpty(&m.hooks.Stop)
}

// GracefulCancel empties the stash and lets live items finish. The
// returned channel is closed, and Cancel fires, once the screen is empty.
func (m *Manager) GracefulCancel() <-chan struct{} {
	m.drain()
	m.engine.ClearStash()
	return m.settleWhenEmpty(&m.hooks.Cancel)
}

// drain stops ticking and lets frozen items move again so they can leave.
func (m *Manager) drain() {
	m.abandonSettle()
	m.stopTicking()
	if m.state == StateFrozen {
		m.engine.Each((*Item).Resume)
	}
	m.setState(StateIdle)
}

func (m *Manager) settleWhenEmpty(event *Hook[*Manager]) <-chan struct{} {
	done := make(chan struct{})
	if len(m.engine.active) == 0 {
		close(done)
		event.Emit(m)
		return done
	}
	s := &settle{done: done}
	s.sub = m.hooks.ScreenEmpty.Once(func(*Manager) {
		m.settling = nil
		m.setState(StateIdle)
		close(done)
		event.Emit(m)
	})
	m.settling = s
	return done
}

// abandonSettle drops a pending graceful stop or cancel without firing its
// event. Its channel is still closed so waiters are released.
func (m *Manager) abandonSettle() {
	if m.settling == nil {
		return
	}
	m.hooks.ScreenEmpty.Untap(m.settling.sub)
	close(m.settling.done)
	m.settling = nil
}

// Mount attaches the manager to s, unmounting any previous surface, and
// lays out the tracks.
func (m *Manager) Mount(s Surface) error {
	c := m.engine.Container()
	if c.IsMounted() {
		m.Unmount()
	}
	if err := c.Mount(s); err != nil {
		return err
	}
	m.engine.Format()
	m.hooks.Format.Emit(m)
	m.hooks.Mount.Emit(s)
	return nil
}

// Unmount detaches the manager from its surface.
func (m *Manager) Unmount() {
	c := m.engine.Container()
	if !c.IsMounted() {
		return
	}
	s := c.Surface()
	c.Unmount()
	m.hooks.Unmount.Emit(s)
}

// Resize re-measures the surface after the host reports a size change.
func (m *Manager) Resize() error {
	if err := m.engine.Resize(); err != nil {
		return err
	}
	m.hooks.Resize.Emit(m)
	return nil
}

// SetStyle sets one display attribute on every live item.
func (m *Manager) SetStyle(key, value string) {
	m.engine.Each(func(it *Item) { it.SetStyle(key, value) })
}

// ApplyStyle overlays s on every live item.
func (m *Manager) ApplyStyle(s Style) {
	m.engine.Each(func(it *Item) { it.ApplyStyle(s) })
}

// Each calls fn for every live item in launch order.
func (m *Manager) Each(fn func(*Item)) {
	m.engine.Each(fn)
}

// State returns the rendering state.
func (m *Manager) State() State { return m.state }

// Hooks returns the aggregate lifecycle registry.
func (m *Manager) Hooks() *ManagerHooks { return &m.hooks }

// Engine returns the launch engine.
func (m *Manager) Engine() *Engine { return m.engine }

// Config returns the manager's configuration.
func (m *Manager) Config() Config { return m.cfg }

func (m *Manager) startTicking() {
	m.tick = m.timer.Every(m.cfg.Interval, m.engine.Render)
	m.engine.Render()
}

func (m *Manager) stopTicking() {
	if m.tick == nil {
		return
	}
	m.tick.Cancel()
	m.tick = nil
}

func (m *Manager) setState(s State) {
	if m.state == s {
		return
	}
	m.log.Debug("danmaku: manager state", "from", m.state, "to", s)
	m.state = s
}
