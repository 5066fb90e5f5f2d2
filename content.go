package danmaku

import (
	"maps"
	"time"
)

// Content is one drawable piece of a caption. Surfaces decide how to draw
// and measure the concrete types they understand.
type Content interface {
	// Clone returns an independent copy used when a caption asks for fresh
	// content on every launch.
	Clone() Content
}

// Text is a run of text.
type Text struct {
	Value string
}

// Clone returns a copy of t.
func (t Text) Clone() Content { return t }

// Box is an opaque fixed-size drawable such as an icon or image. Ref
// identifies the drawable to the surface.
type Box struct {
	Ref           string
	Width, Height float64
}

// Clone returns a copy of b.
func (b Box) Clone() Content { return b }

// Style is a set of display attributes. The core never reads it; surfaces
// interpret the keys they know (for example "color" or "bold").
type Style map[string]string

// Clone returns a copy of s. A nil style clones to nil.
func (s Style) Clone() Style {
	if s == nil {
		return nil
	}
	return maps.Clone(s)
}

// Merge returns a copy of s overlaid with other.
func (s Style) Merge(other Style) Style {
	out := make(Style, len(s)+len(other))
	maps.Copy(out, s)
	maps.Copy(out, other)
	return out
}

// Caption describes one caption waiting to launch. Looping captions are
// pushed back to the end of the queue after each launch, so the same
// Caption may be live several times at once.
type Caption struct {
	Duration     time.Duration
	Direction    Direction
	Loop         bool
	Style        Style
	Content      []Content
	CloneContent bool
}

// NewTextCaption returns a caption holding a single Text run.
func NewTextCaption(text string, duration time.Duration, dir Direction) *Caption {
	return &Caption{
		Duration:  duration,
		Direction: dir,
		Content:   []Content{Text{Value: text}},
	}
}

// launchContent returns the content one launch should draw.
func (c *Caption) launchContent() []Content {
	if !c.CloneContent {
		return c.Content
	}
	out := make([]Content, len(c.Content))
	for i, part := range c.Content {
		out[i] = part.Clone()
	}
	return out
}

// PlainText concatenates all Text runs of the content.
func PlainText(content []Content) string {
	var s string
	for _, part := range content {
		if t, ok := part.(Text); ok {
			s += t.Value
		}
	}
	return s
}
