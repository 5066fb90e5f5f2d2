package ebitenview

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/phanxgames/danmaku"
)

// Style keys read by the renderer.
const (
	StyleColor      = "color"
	StyleOutline    = "outline"
	StyleBackground = "background"
)

// outlineOffsets are the eight directions an outline is stamped in.
var outlineOffsets = [8][2]float64{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {1, -1}, {-1, 1}, {1, 1},
}

// Renderer measures and draws caption content with a single TrueType face.
// Box content is drawn from images registered with SetImage, or as an
// outlined placeholder when none is registered.
type Renderer struct {
	face   *text.GoTextFace
	lh     float64
	images map[string]*ebiten.Image

	// DefaultColor is used when a caption has no "color" style.
	DefaultColor color.Color
	// OutlineWidth is the outline thickness in pixels.
	OutlineWidth float64
}

// NewRenderer parses TrueType or OpenType data and returns a renderer
// drawing at size.
func NewRenderer(ttf []byte, size float64) (*Renderer, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("ebitenview: parse font: %w", err)
	}
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	return &Renderer{
		face:         face,
		lh:           m.HAscent + m.HDescent + m.HLineGap,
		images:       make(map[string]*ebiten.Image),
		DefaultColor: color.White,
		OutlineWidth: 1,
	}, nil
}

// NewDefaultRenderer returns a renderer using the Go Regular font.
func NewDefaultRenderer(size float64) (*Renderer, error) {
	return NewRenderer(goregular.TTF, size)
}

// LineHeight returns the distance between baselines.
func (r *Renderer) LineHeight() float64 { return r.lh }

// Face returns the text face.
func (r *Renderer) Face() *text.GoTextFace { return r.face }

// SetImage registers the image drawn for Box content with the given Ref.
// A nil image removes the registration.
func (r *Renderer) SetImage(ref string, img *ebiten.Image) {
	if img == nil {
		delete(r.images, ref)
		return
	}
	r.images[ref] = img
}

// Measure lays content out on one line. It satisfies danmaku.Measurer.
func (r *Renderer) Measure(content []danmaku.Content, _ danmaku.Style) (width, height float64) {
	height = r.lh
	for _, part := range content {
		switch p := part.(type) {
		case danmaku.Text:
			w, _ := text.Measure(p.Value, r.face, r.lh)
			width += w
		case danmaku.Box:
			width += p.Width
			height = max(height, p.Height)
		}
	}
	return width, height
}

// Measurer returns r.Measure as a danmaku.Measurer.
func (r *Renderer) Measurer() danmaku.Measurer { return r.Measure }

// Draw draws every live node of s onto dst.
func (r *Renderer) Draw(dst *ebiten.Image, s *danmaku.Stage) {
	w, h := s.Size()
	view := danmaku.Rect{Width: w, Height: h}
	for _, n := range s.Nodes() {
		b := n.Bounds()
		if !b.Intersects(view) {
			continue
		}
		r.drawNode(dst, n, b)
	}
}

func (r *Renderer) drawNode(dst *ebiten.Image, n *danmaku.StageNode, b danmaku.Rect) {
	if bg, ok := ParseColor(n.Style[StyleBackground]); ok {
		vector.DrawFilledRect(dst, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), bg, false)
	}
	fill, ok := ParseColor(n.Style[StyleColor])
	if !ok {
		fill = r.DefaultColor
	}
	outline, hasOutline := ParseColor(n.Style[StyleOutline])

	x := b.X
	for _, part := range n.Content {
		switch p := part.(type) {
		case danmaku.Text:
			y := b.Y + (b.Height-r.lh)/2
			if hasOutline && r.OutlineWidth > 0 {
				for _, off := range outlineOffsets {
					r.drawText(dst, p.Value, x+off[0]*r.OutlineWidth, y+off[1]*r.OutlineWidth, outline)
				}
			}
			r.drawText(dst, p.Value, x, y, fill)
			w, _ := text.Measure(p.Value, r.face, r.lh)
			x += w
		case danmaku.Box:
			y := b.Y + (b.Height-p.Height)/2
			r.drawBox(dst, p, x, y, fill)
			x += p.Width
		}
	}
}

func (r *Renderer) drawText(dst *ebiten.Image, s string, x, y float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	op.LineSpacing = r.lh
	text.Draw(dst, s, r.face, op)
}

func (r *Renderer) drawBox(dst *ebiten.Image, b danmaku.Box, x, y float64, c color.Color) {
	img, ok := r.images[b.Ref]
	if !ok {
		vector.StrokeRect(dst, float32(x), float32(y), float32(b.Width), float32(b.Height), 1, c, false)
		return
	}
	bounds := img.Bounds()
	op := &ebiten.DrawImageOptions{}
	if bounds.Dx() > 0 && bounds.Dy() > 0 {
		op.GeoM.Scale(b.Width/float64(bounds.Dx()), b.Height/float64(bounds.Dy()))
	}
	op.GeoM.Translate(x, y)
	dst.DrawImage(img, op)
}

// ParseColor parses a "#rgb" or "#rrggbb" hex color. It reports false for
// an empty or malformed value.
func ParseColor(s string) (color.Color, bool) {
	if s == "" {
		return nil, false
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, false
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, true
}
