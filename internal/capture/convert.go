// Package capture writes the canvas out as images: an animated GIF
// recording of the fixed-update stream and single PNG screenshots.
package capture

import (
	"image"

	"github.com/vovakirdan/yolk/internal/core"
)

// toRGBA reorders the canvas's packed ARGB pixels into dst, reallocating
// dst when the size changed.
func toRGBA(dst *image.RGBA, c *core.Canvas) *image.RGBA {
	w, h := c.Width(), c.Height()
	if dst == nil || dst.Rect.Dx() != w || dst.Rect.Dy() != h {
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	}

	pix := dst.Pix
	for i, p := range c.Pixels() {
		o := i * 4
		pix[o+0] = uint8(p >> 16)
		pix[o+1] = uint8(p >> 8)
		pix[o+2] = uint8(p)
		pix[o+3] = uint8(p >> 24)
	}
	return dst
}
