package danmaku

import (
	"fmt"
	"log/slog"
	"math"
)

// Engine owns the tracks, the queue of captions waiting to launch (the
// stash) and the set of live items. Render launches queued captions into
// tracks once per tick.
type Engine struct {
	cfg       Config
	clock     Clock
	hooks     *ManagerHooks
	owner     *Manager
	log       *slog.Logger
	container Container

	tracks    []*Track
	stash     []*Caption
	active    []*Item
	nextTrack TrackID
}

// NewEngine creates an engine reporting aggregate events on hooks with
// owner as their payload. owner may be nil when the engine runs on its own.
func NewEngine(cfg Config, clock Clock, hooks *ManagerHooks, owner *Manager, log *slog.Logger) *Engine {
	if hooks == nil {
		hooks = &ManagerHooks{}
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Engine{cfg: cfg, clock: clock, hooks: hooks, owner: owner, log: log}
}

// Container returns the engine's surface container.
func (e *Engine) Container() *Container {
	return &e.container
}

// Format lays out the tracks for the current container height.
func (e *Engine) Format() {
	e.formatTracks()
}

// Add appends captions to the stash tail. Nothing is added when any caption
// is invalid.
func (e *Engine) Add(captions ...*Caption) error {
	for i, c := range captions {
		if err := validateCaption(c); err != nil {
			return fmt.Errorf("danmaku: caption %d: %w", i, err)
		}
	}
	e.stash = append(e.stash, captions...)
	return nil
}

// ClearStash drops every caption that has not launched yet.
func (e *Engine) ClearStash() {
	clear(e.stash)
	e.stash = e.stash[:0]
}

// StashLen returns the number of captions waiting to launch.
func (e *Engine) StashLen() int {
	return len(e.stash)
}

// Each calls fn for every live item in launch order. fn may end or cancel
// items.
func (e *Engine) Each(fn func(*Item)) {
	for _, it := range e.Active() {
		fn(it)
	}
}

// Active returns the live items in launch order.
func (e *Engine) Active() []*Item {
	return append([]*Item(nil), e.active...)
}

// Tracks returns the tracks from top to bottom.
func (e *Engine) Tracks() []*Track {
	return append([]*Track(nil), e.tracks...)
}

// Render runs one launch pass. At most min(stash, MaxLaunchCountPerTick,
// tracks) captions are tried, in stash order.
//
// A caption taller than a track aborts the pass and is dropped. A caption
// that fits no track goes back to the stash head and the next attempt picks
// it again, so one blocked caption can use up the whole pass.
func (e *Engine) Render() {
	if len(e.tracks) == 0 || len(e.stash) == 0 {
		return
	}
	surface := e.container.Surface()
	if surface == nil {
		return
	}

	attempts := min(len(e.stash), e.cfg.MaxLaunchCountPerTick, len(e.tracks))
	for range attempts {
		if len(e.stash) == 0 {
			break
		}
		c := e.stash[0]
		e.stash = e.stash[1:]

		it := NewItem(c, e.clock)
		it.Mount(surface)

		if it.Height() > e.cfg.TrackHeight {
			it.Unmount()
			e.log.Warn("danmaku: caption taller than track dropped",
				"height", it.Height(), "track_height", e.cfg.TrackHeight)
			break
		}

		t := e.launchableTrack(it)
		if t == nil {
			it.Unmount()
			e.stash = append([]*Caption{c}, e.stash...)
			continue
		}

		e.launch(it, t)

		if c.Loop {
			e.stash = append(e.stash, c)
		}
	}
}

func (e *Engine) launch(it *Item, t *Track) {
	Bridge(it.Hooks(), &e.hooks.Item)
	it.Hooks().Use(ItemPlugin{
		End:    e.complete,
		Cancel: e.complete,
	})
	it.Attach(t, e.cfg.Alignment)
	it.Play()
	e.active = append(e.active, it)
}

// complete retires an item that ended or was cancelled.
func (e *Engine) complete(it *Item) {
	if t := e.track(it.TrackID()); t != nil {
		t.Detach(it)
	}
	removed := e.removeActive(it)
	it.Unmount()

	if !removed || len(e.active) != 0 {
		return
	}
	e.hooks.ScreenEmpty.Emit(e.owner)
	if len(e.active) == 0 && len(e.stash) == 0 {
		e.hooks.Finish.Emit(e.owner)
	}
}

func (e *Engine) removeActive(it *Item) bool {
	for i, other := range e.active {
		if other == it {
			e.active = append(e.active[:i], e.active[i+1:]...)
			return true
		}
	}
	return false
}

func (e *Engine) track(id TrackID) *Track {
	if id == 0 {
		return nil
	}
	for _, t := range e.tracks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// launchableTrack returns the first track that is empty or whose newest
// item leaves room for cur.
func (e *Engine) launchableTrack(cur *Item) *Track {
	for _, t := range e.tracks {
		prev := t.PeekLast()
		if prev == nil || MayLaunch(prev, cur, e.cfg.MinHorizontalGap) {
			return t
		}
	}
	return nil
}

// Resize re-measures live items and the container, then removes tracks
// that no longer fit or adds tracks into new space.
func (e *Engine) Resize() error {
	for _, it := range e.Active() {
		if err := it.Resize(); err != nil {
			return err
		}
	}
	oldH := e.container.Height()
	if err := e.container.Resize(); err != nil {
		return fmt.Errorf("danmaku: resize container: %w", err)
	}
	e.resizeTracks(oldH)
	return nil
}

func (e *Engine) resizeTracks(oldH float64) {
	newH := e.container.Height()
	switch {
	case newH < oldH:
		e.shrinkTracks(newH)
	case newH > oldH:
		e.expandTracks(newH)
	}
}

// shrinkTracks removes every track reaching below limit, ending its items.
func (e *Engine) shrinkTracks(limit float64) {
	for i := len(e.tracks) - 1; i >= 0; i-- {
		t := e.tracks[i]
		if t.Bottom > limit {
			t.Cancel()
			e.tracks = append(e.tracks[:i], e.tracks[i+1:]...)
		}
	}
	e.log.Debug("danmaku: tracks shrunk", "tracks", len(e.tracks), "height", limit)
}

// expandTracks appends tracks below the last one while they fit.
func (e *Engine) expandTracks(limit float64) {
	if len(e.tracks) == 0 {
		e.formatTracks()
		return
	}
	last := e.tracks[len(e.tracks)-1]
	top := last.Bottom + e.cfg.MinVerticalGap
	for top+e.cfg.TrackHeight <= limit && len(e.tracks) < e.cfg.MaxRowCount {
		e.nextTrack++
		e.tracks = append(e.tracks, NewTrack(e.nextTrack, top, e.cfg.TrackHeight))
		top += e.cfg.TrackHeight + e.cfg.MinVerticalGap
	}
	e.log.Debug("danmaku: tracks expanded", "tracks", len(e.tracks), "height", limit)
}

// formatTracks replaces the tracks with as many rows as fit, centred as a
// block in the container.
func (e *Engine) formatTracks() {
	th, gap := e.cfg.TrackHeight, e.cfg.MinVerticalGap
	height := e.container.Height()

	rows := min(e.cfg.MaxRowCount, int(math.Floor((height+gap)/(th+gap))))
	rows = max(rows, 0)

	step := th + gap
	total := float64(rows-1)*step + th
	startY := max(0, height-total) / 2

	e.tracks = make([]*Track, 0, rows)
	for i := range rows {
		e.nextTrack++
		e.tracks = append(e.tracks, NewTrack(e.nextTrack, startY+float64(i)*step, th))
	}
	e.log.Debug("danmaku: tracks formatted", "tracks", rows, "height", height)
}

func validateCaption(c *Caption) error {
	if c == nil {
		return fmt.Errorf("%w: nil caption", ErrInvalidCaption)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidCaption, c.Duration)
	}
	if c.Direction != ToLeft && c.Direction != ToRight {
		return fmt.Errorf("%w: unknown direction %d", ErrInvalidCaption, uint8(c.Direction))
	}
	return nil
}
