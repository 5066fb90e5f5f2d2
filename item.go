package danmaku

import (
	"fmt"
	"time"
)

// Status is the motion state of an Item.
type Status uint8

const (
	StatusIdle    Status = iota // not moving; elapsed time is zero
	StatusRunning               // moving toward its destination
	StatusPaused                // frozen mid-flight
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// recorder accounts for elapsed flight time across pauses.
type recorder struct {
	startTime      time.Duration
	lastPausedAt   time.Duration
	pausedDuration time.Duration
}

// itemIDCounter is only touched from the timeline goroutine.
var itemIDCounter uint32

func nextItemID() uint32 {
	itemIDCounter++
	return itemIDCounter
}

// Item is one launched caption. It tracks how long it has been in flight,
// drives its node's transition and fires per-item lifecycle hooks.
//
// Speed is fixed when the item is first measured and changes only when a
// resize changes the distance it has to cover.
type Item struct {
	ID uint32

	caption *Caption
	hooks   ItemHooks
	clock   Clock

	surface Surface
	node    Node

	duration  time.Duration
	direction Direction

	width, height                   float64
	containerWidth, containerHeight float64
	totalDistance                   float64
	speed                           float64
	destination                     float64

	status Status
	track  TrackID
	rec    recorder
}

// NewItem creates an idle, unmounted item for c. Elapsed time is read from
// clock.
func NewItem(c *Caption, clock Clock) *Item {
	return &Item{
		ID:        nextItemID(),
		caption:   c,
		clock:     clock,
		duration:  c.Duration,
		direction: c.Direction,
	}
}

// Play starts the flight. Only an idle, mounted item can play.
func (it *Item) Play() {
	if it.status != StatusIdle {
		return
	}
	node := it.mustNode("play")
	it.rec.startTime = it.clock.Now()
	node.Transition(it.destination, it.duration)
	it.status = StatusRunning
	it.hooks.Start.Emit(it)
}

// Pause freezes a running item where it is.
func (it *Item) Pause() {
	if it.status != StatusRunning {
		return
	}
	it.rec.lastPausedAt = it.clock.Now()
	it.node.Jump(it.direction.sign() * it.MovedDistance())
	it.status = StatusPaused
	it.hooks.Pause.Emit(it)
}

// Resume continues a paused item toward its destination over the time it
// has left.
func (it *Item) Resume() {
	if it.status != StatusPaused {
		return
	}
	it.rec.pausedDuration += it.clock.Now() - it.rec.lastPausedAt
	it.rec.lastPausedAt = 0
	it.status = StatusRunning
	it.node.Transition(it.destination, it.duration-it.ElapsedTime())
	it.hooks.Resume.Emit(it)
}

// Cancel aborts the flight and clears the node's translation.
func (it *Item) Cancel() {
	if it.status == StatusIdle {
		return
	}
	if it.node != nil {
		it.node.Reset()
	}
	it.rec = recorder{}
	it.status = StatusIdle
	it.hooks.Cancel.Emit(it)
}

// end completes the flight. The node's transition end calls it, and so
// does Track.Cancel when the track is removed.
func (it *Item) end() {
	if it.status == StatusIdle {
		return
	}
	it.rec = recorder{}
	it.status = StatusIdle
	it.hooks.End.Emit(it)
}

// ElapsedTime returns the time spent in flight, excluding pauses.
func (it *Item) ElapsedTime() time.Duration {
	switch it.status {
	case StatusIdle:
		return 0
	case StatusRunning:
		return it.clock.Now() - it.rec.startTime - it.rec.pausedDuration
	case StatusPaused:
		return it.rec.lastPausedAt - it.rec.startTime - it.rec.pausedDuration
	default:
		panic(fmt.Sprintf("danmaku: unexpected item status %d", uint8(it.status)))
	}
}

// MovedDistance returns how far the item has travelled.
func (it *Item) MovedDistance() float64 {
	return millis(it.ElapsedTime()) * it.speed
}

// Mount attaches the item to s and measures it. A mounted item is
// unmounted first.
func (it *Item) Mount(s Surface) {
	it.Unmount()
	it.surface = s
	it.node = s.NewNode(it.caption.launchContent(), it.caption.Style)
	it.node.OnTransitionEnd(it.end)
	it.hooks.Mount.Emit(it)
	it.format()
}

// Unmount removes the item's node from its surface.
func (it *Item) Unmount() {
	if it.node == nil {
		return
	}
	it.node.Remove()
	it.node = nil
	it.surface = nil
	it.hooks.Unmount.Emit(it)
}

// IsMounted reports whether the item has a node on a surface.
func (it *Item) IsMounted() bool {
	return it.node != nil
}

// format measures the item against its surface and parks it just outside
// the entry edge.
func (it *Item) format() {
	node := it.mustNode("format")
	w, h := node.Measure()
	cw, ch := it.surface.Size()

	it.width, it.height = w, h
	it.containerWidth, it.containerHeight = cw, ch
	it.totalDistance = cw + w
	it.speed = it.totalDistance / millis(it.duration)
	it.destination = it.direction.sign() * it.totalDistance

	node.Anchor(it.direction, -w)
	it.hooks.Format.Emit(it)
}

// Resize re-measures the surface, keeping the fraction of the flight
// already completed. A running item picks up its new destination on the
// surface's next frame.
func (it *Item) Resize() error {
	if it.node == nil {
		return fmt.Errorf("danmaku: resize item %d: %w", it.ID, ErrNotMounted)
	}

	sign := it.direction.sign()
	cw, ch := it.surface.Size()

	et := it.ElapsedTime()
	total := cw + it.width
	progress := millis(et) / millis(it.duration)
	dest := sign * total

	it.node.Jump(sign * total * progress)

	if it.status == StatusRunning {
		node := it.node
		it.surface.NextFrame(func() {
			if it.node != node || it.status != StatusRunning {
				return
			}
			node.Transition(it.destination, it.duration-it.ElapsedTime())
		})
	}

	it.containerWidth, it.containerHeight = cw, ch
	it.totalDistance = total
	it.speed = total / millis(it.duration)
	it.destination = dest
	it.hooks.Resize.Emit(it)
	return nil
}

// Attach places the item on t. An item already on a track stays there.
func (it *Item) Attach(t *Track, a Alignment) {
	if it.track != 0 {
		return
	}
	t.Attach(it, a)
}

// SetStyle sets one display attribute on the mounted node.
func (it *Item) SetStyle(key, value string) {
	if it.node != nil {
		it.node.SetStyle(key, value)
	}
}

// ApplyStyle overlays s on the mounted node.
func (it *Item) ApplyStyle(s Style) {
	if it.node != nil {
		it.node.ApplyStyle(s)
	}
}

// Hooks returns the item's lifecycle registry.
func (it *Item) Hooks() *ItemHooks { return &it.hooks }

// Caption returns the descriptor the item was created from.
func (it *Item) Caption() *Caption { return it.caption }

// Node returns the mounted node, or nil.
func (it *Item) Node() Node { return it.node }

// Status returns the motion state.
func (it *Item) Status() Status { return it.status }

// TrackID returns the handle of the track holding the item, or zero.
func (it *Item) TrackID() TrackID { return it.track }

// Duration returns the full flight time.
func (it *Item) Duration() time.Duration { return it.duration }

// Direction returns the travel direction.
func (it *Item) Direction() Direction { return it.direction }

// Speed returns the speed in pixels per millisecond.
func (it *Item) Speed() float64 { return it.speed }

// Width returns the measured width.
func (it *Item) Width() float64 { return it.width }

// Height returns the measured height.
func (it *Item) Height() float64 { return it.height }

// ContainerWidth returns the surface width used for the current geometry.
func (it *Item) ContainerWidth() float64 { return it.containerWidth }

// ContainerHeight returns the surface height used for the current geometry.
func (it *Item) ContainerHeight() float64 { return it.containerHeight }

// TotalDistance returns surface width plus item width.
func (it *Item) TotalDistance() float64 { return it.totalDistance }

// Destination returns the signed final translation.
func (it *Item) Destination() float64 { return it.destination }

func (it *Item) mustNode(op string) Node {
	if it.node == nil {
		panic(fmt.Sprintf("danmaku: %s on unmounted item %d", op, it.ID))
	}
	return it.node
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
