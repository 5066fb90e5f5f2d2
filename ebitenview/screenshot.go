package ebitenview

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Screenshot queues a labelled capture of the next drawn frame. Files are
// written as PNG to ScreenshotDir.
func (h *Host) Screenshot(label string) {
	h.shots = append(h.shots, label)
}

// flushScreenshots writes every queued capture of screen.
func (h *Host) flushScreenshots(screen *ebiten.Image) {
	if len(h.shots) == 0 {
		return
	}
	labels := h.shots
	h.shots = h.shots[:0]

	if err := os.MkdirAll(h.ScreenshotDir, 0o755); err != nil {
		h.log().Warn("ebitenview: screenshot dir", "dir", h.ScreenshotDir, "err", err)
		return
	}
	img := captureNRGBA(screen)
	stamp := time.Now().Format("20060102_150405")
	for _, label := range labels {
		path := filepath.Join(h.ScreenshotDir, stamp+"_"+screenshotLabel(label)+".png")
		if err := writePNG(path, img); err != nil {
			h.log().Warn("ebitenview: screenshot", "path", path, "err", err)
			continue
		}
		h.log().Debug("ebitenview: screenshot saved", "path", path, "live", h.Stage.Len())
	}
}

// captureNRGBA reads back screen and un-premultiplies alpha.
func captureNRGBA(screen *ebiten.Image) *image.NRGBA {
	b := screen.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	screen.ReadPixels(img.Pix)
	unpremultiply(img.Pix)
	return img
}

func unpremultiply(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := int(pix[i+3])
		if a == 0 || a == 255 {
			continue
		}
		for c := range 3 {
			pix[i+c] = uint8(min(int(pix[i+c])*255/a, 255))
		}
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ebitenview: create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("ebitenview: encode %s: %w", path, err)
	}
	return f.Close()
}

// screenshotLabel makes label safe for a file name.
func screenshotLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "frame"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, label)
}
