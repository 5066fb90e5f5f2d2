package danmaku

import (
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Surface is the drawable area captions move across. The core measures it,
// asks it for one Node per launched caption and defers work to its next
// paint.
type Surface interface {
	// Size returns the current drawable width and height.
	Size() (width, height float64)
	// NewNode attaches a drawable for content to the surface.
	NewNode(content []Content, style Style) Node
	// NextFrame runs fn once, after the surface's next paint step.
	NextFrame(fn func())
}

// Node is one caption's drawable on a Surface. Horizontal motion is a
// translation relative to the anchor set with Anchor.
type Node interface {
	// Measure returns the node's rendered size.
	Measure() (width, height float64)
	// Anchor places the untranslated node offset pixels from the edge the
	// direction enters from. A negative offset places it outside the surface.
	Anchor(dir Direction, offset float64)
	// SetTop sets the node's vertical position.
	SetTop(y float64)
	// Jump sets the translation immediately, interrupting any transition
	// without a completion notification.
	Jump(x float64)
	// Transition moves the translation linearly to x over d and notifies
	// OnTransitionEnd callbacks exactly once when it arrives.
	Transition(x float64, d time.Duration)
	// Reset clears the translation and any transition.
	Reset()
	// OnTransitionEnd registers a completion callback.
	OnTransitionEnd(fn func())
	SetStyle(key, value string)
	ApplyStyle(s Style)
	// Remove detaches the node from its surface.
	Remove()
}

// Measurer computes the rendered size of caption content.
type Measurer func(content []Content, style Style) (width, height float64)

// CellMeasurer measures text in fixed-size cells, counting East Asian wide
// runes as two cells. Box content adds its own width; the height is the
// tallest of lineHeight and any box.
func CellMeasurer(cellWidth, lineHeight float64) Measurer {
	return func(content []Content, _ Style) (float64, float64) {
		var w float64
		h := lineHeight
		for _, part := range content {
			switch c := part.(type) {
			case Text:
				w += float64(runewidth.StringWidth(c.Value)) * cellWidth
			case Box:
				w += c.Width
				h = max(h, c.Height)
			}
		}
		return w, h
	}
}

// Stage is an in-memory Surface. Transitions are linear tweens stepped by
// Update; renderers read node positions through Nodes. A Stage is
// single-threaded.
type Stage struct {
	width, height float64
	measure       Measurer
	nodes         []*StageNode
	frameQueue    []func()
	nextID        uint32
}

// NewStage creates a stage of the given size. A nil measurer measures text
// one unit per cell.
func NewStage(width, height float64, measure Measurer) *Stage {
	if measure == nil {
		measure = CellMeasurer(1, 1)
	}
	return &Stage{width: width, height: height, measure: measure}
}

// Size returns the stage size.
func (s *Stage) Size() (float64, float64) {
	return s.width, s.height
}

// SetSize changes the stage size. Hosts call Manager.Resize afterwards.
func (s *Stage) SetSize(width, height float64) {
	s.width, s.height = width, height
}

// NewNode creates and attaches a node for content.
func (s *Stage) NewNode(content []Content, style Style) Node {
	s.nextID++
	n := &StageNode{
		ID:      s.nextID,
		Content: content,
		Style:   style.Clone(),
		stage:   s,
	}
	n.remeasure()
	s.nodes = append(s.nodes, n)
	return n
}

// NextFrame queues fn to run at the end of the next Update.
func (s *Stage) NextFrame(fn func()) {
	s.frameQueue = append(s.frameQueue, fn)
}

// Nodes returns the attached nodes in attach order.
func (s *Stage) Nodes() []*StageNode {
	return append([]*StageNode(nil), s.nodes...)
}

// Len returns the number of attached nodes.
func (s *Stage) Len() int {
	return len(s.nodes)
}

// Update steps every running transition by dt, delivers completion
// notifications, then runs work queued with NextFrame.
func (s *Stage) Update(dt time.Duration) {
	ms := float32(dt) / float32(time.Millisecond)
	for _, n := range s.Nodes() {
		n.step(ms)
	}

	queued := s.frameQueue
	s.frameQueue = nil
	for _, fn := range queued {
		fn()
	}
}

func (s *Stage) detach(n *StageNode) {
	for i, other := range s.nodes {
		if other == n {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			return
		}
	}
}

// StageNode is a Node on a Stage.
type StageNode struct {
	ID      uint32
	Content []Content
	Style   Style

	stage         *Stage
	width, height float64
	dir           Direction
	offset        float64
	top           float64
	x             float64

	tween      *gween.Tween
	target     float64
	endPending bool
	onEnd      []func()
	removed    bool
}

// Measure returns the size computed by the stage's measurer.
func (n *StageNode) Measure() (float64, float64) {
	return n.width, n.height
}

// Anchor sets the entry edge and the offset from it.
func (n *StageNode) Anchor(dir Direction, offset float64) {
	n.dir = dir
	n.offset = offset
}

// SetTop sets the vertical position.
func (n *StageNode) SetTop(y float64) {
	n.top = y
}

// Jump sets the translation and drops any running transition.
func (n *StageNode) Jump(x float64) {
	n.x = x
	n.tween = nil
	n.endPending = false
}

// Transition starts a linear move to x over d. A non-positive d jumps and
// reports completion on the next Update.
func (n *StageNode) Transition(x float64, d time.Duration) {
	n.target = x
	if d <= 0 {
		n.x = x
		n.tween = nil
		n.endPending = true
		return
	}
	ms := float32(d) / float32(time.Millisecond)
	n.tween = gween.New(float32(n.x), float32(x), ms, ease.Linear)
	n.endPending = false
}

// Reset clears the translation and any transition.
func (n *StageNode) Reset() {
	n.Jump(0)
}

// OnTransitionEnd registers fn for transition completion.
func (n *StageNode) OnTransitionEnd(fn func()) {
	n.onEnd = append(n.onEnd, fn)
}

// SetStyle sets one style attribute.
func (n *StageNode) SetStyle(key, value string) {
	if n.Style == nil {
		n.Style = Style{}
	}
	n.Style[key] = value
	n.remeasure()
}

// ApplyStyle overlays s onto the node style.
func (n *StageNode) ApplyStyle(s Style) {
	n.Style = n.Style.Merge(s)
	n.remeasure()
}

// Remove detaches the node. Removed nodes never notify.
func (n *StageNode) Remove() {
	if n.removed {
		return
	}
	n.removed = true
	n.tween = nil
	n.endPending = false
	n.stage.detach(n)
}

// Removed reports whether the node was detached.
func (n *StageNode) Removed() bool {
	return n.removed
}

// Running reports whether a transition is in flight.
func (n *StageNode) Running() bool {
	return n.tween != nil || n.endPending
}

// X returns the current translation.
func (n *StageNode) X() float64 {
	return n.x
}

// Left returns the node's left edge in stage coordinates.
func (n *StageNode) Left() float64 {
	if n.dir == ToLeft {
		return n.stage.width - n.offset - n.width + n.x
	}
	return n.offset + n.x
}

// Bounds returns the node rectangle in stage coordinates.
func (n *StageNode) Bounds() Rect {
	return Rect{X: n.Left(), Y: n.top, Width: n.width, Height: n.height}
}

func (n *StageNode) remeasure() {
	n.width, n.height = n.stage.measure(n.Content, n.Style)
}

func (n *StageNode) step(ms float32) {
	if n.removed {
		return
	}
	if n.endPending {
		n.endPending = false
		n.notify()
		return
	}
	if n.tween == nil {
		return
	}
	v, done := n.tween.Update(ms)
	n.x = float64(v)
	if done {
		n.x = n.target
		n.tween = nil
		n.notify()
	}
}

func (n *StageNode) notify() {
	for _, fn := range append([]func(){}, n.onEnd...) {
		fn()
	}
}
