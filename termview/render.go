// Package termview draws a danmaku.Stage on a terminal with tcell. One
// stage unit is one terminal cell, so tracks are rows and caption widths are
// display columns as reported by go-runewidth.
package termview

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/phanxgames/danmaku"
)

// Style keys read by the renderer. Colors are tcell color names or
// "#rrggbb" strings.
const (
	StyleColor      = "color"
	StyleBackground = "background"
	StyleBold       = "bold"
)

// boxRune fills the cells of Box content.
const boxRune = '▒'

// DefaultConfig returns a layout for one-row tracks.
func DefaultConfig() danmaku.Config {
	cfg := danmaku.DefaultConfig()
	cfg.TrackHeight = 1
	cfg.MinVerticalGap = 0
	cfg.MinHorizontalGap = 4
	return cfg
}

// Measurer measures content in terminal cells.
func Measurer() danmaku.Measurer {
	return danmaku.CellMeasurer(1, 1)
}

// Renderer draws stage nodes as runs of terminal cells.
type Renderer struct {
	screen tcell.Screen
	// Base is the style every caption style is applied over.
	Base tcell.Style
}

// NewRenderer returns a renderer drawing on screen.
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen, Base: tcell.StyleDefault}
}

// Frame clears the screen, draws s and shows the result.
func (r *Renderer) Frame(s *danmaku.Stage) {
	r.screen.Clear()
	r.Draw(s)
	r.screen.Show()
}

// Draw draws every live node of s. Cells outside the screen are skipped.
func (r *Renderer) Draw(s *danmaku.Stage) {
	cols, rows := r.screen.Size()
	for _, n := range s.Nodes() {
		b := n.Bounds()
		y := int(math.Round(b.Y))
		if y < 0 || y >= rows {
			continue
		}
		style := StyleFor(n.Style, r.Base)
		x := int(math.Round(b.X))
		for _, part := range n.Content {
			switch p := part.(type) {
			case danmaku.Text:
				for _, ch := range p.Value {
					w := runewidth.RuneWidth(ch)
					if w == 0 {
						continue
					}
					if x >= 0 && x+w <= cols {
						r.screen.SetContent(x, y, ch, nil, style)
					}
					x += w
				}
			case danmaku.Box:
				for range int(p.Width) {
					if x >= 0 && x < cols {
						r.screen.SetContent(x, y, boxRune, nil, style)
					}
					x++
				}
			}
		}
	}
}

// StyleFor applies caption style keys over base.
func StyleFor(s danmaku.Style, base tcell.Style) tcell.Style {
	if c, ok := parseColor(s[StyleColor]); ok {
		base = base.Foreground(c)
	}
	if c, ok := parseColor(s[StyleBackground]); ok {
		base = base.Background(c)
	}
	if s[StyleBold] == "true" {
		base = base.Bold(true)
	}
	return base
}

func parseColor(v string) (tcell.Color, bool) {
	if v == "" {
		return tcell.ColorDefault, false
	}
	c := tcell.GetColor(v)
	return c, c != tcell.ColorDefault
}
