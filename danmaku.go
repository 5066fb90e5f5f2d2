package danmaku

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	// ErrAlreadyMounted is returned when mounting a container that is
	// already attached to a surface.
	ErrAlreadyMounted = errors.New("danmaku: container already mounted, unmount before remounting")

	// ErrNotMounted is returned by geometry operations on an item or
	// container that has no surface.
	ErrNotMounted = errors.New("danmaku: not mounted")

	// ErrInvalidConfig wraps every Config validation failure.
	ErrInvalidConfig = errors.New("danmaku: invalid config")

	// ErrInvalidCaption is returned when pushing a malformed caption.
	ErrInvalidCaption = errors.New("danmaku: invalid caption")
)

// Direction selects the edge a caption enters from.
type Direction uint8

const (
	ToLeft  Direction = iota // enters at the right edge, travels left
	ToRight                  // enters at the left edge, travels right
)

// String returns the config spelling of the direction.
func (d Direction) String() string {
	switch d {
	case ToLeft:
		return "to_left"
	case ToRight:
		return "to_right"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// sign is the translation sign for the direction.
func (d Direction) sign() float64 {
	switch d {
	case ToLeft:
		return -1
	case ToRight:
		return 1
	default:
		panic(fmt.Sprintf("danmaku: unexpected direction %d", uint8(d)))
	}
}

// ParseDirection parses "to_left" or "to_right".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "to_left", "":
		return ToLeft, nil
	case "to_right":
		return ToRight, nil
	default:
		return 0, fmt.Errorf("danmaku: unknown direction %q", s)
	}
}

// UnmarshalYAML decodes a direction from its string spelling.
func (d *Direction) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseDirection(value.Value)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalYAML encodes the direction as its string spelling.
func (d Direction) MarshalYAML() (any, error) {
	return d.String(), nil
}

// Alignment is the vertical placement of a caption inside its track.
type Alignment uint8

const (
	AlignTop    Alignment = iota // flush with the track top
	AlignCenter                  // vertically centred on the track
	AlignBottom                  // flush with the track bottom
)

// String returns the config spelling of the alignment.
func (a Alignment) String() string {
	switch a {
	case AlignTop:
		return "top"
	case AlignCenter:
		return "center"
	case AlignBottom:
		return "bottom"
	default:
		return fmt.Sprintf("Alignment(%d)", uint8(a))
	}
}

// ParseAlignment parses "top", "center" or "bottom".
func ParseAlignment(s string) (Alignment, error) {
	switch s {
	case "top":
		return AlignTop, nil
	case "center", "":
		return AlignCenter, nil
	case "bottom":
		return AlignBottom, nil
	default:
		return 0, fmt.Errorf("danmaku: unknown alignment %q", s)
	}
}

// UnmarshalYAML decodes an alignment from its string spelling.
func (a *Alignment) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseAlignment(value.Value)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// MarshalYAML encodes the alignment as its string spelling.
func (a Alignment) MarshalYAML() (any, error) {
	return a.String(), nil
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Intersects reports whether r and other overlap. Rectangles that only share
// an edge do not intersect.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}
