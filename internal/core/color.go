package core

import "fmt"

// Color is a packed 0xAARRGGBB pixel, the layout of the engine's canvas.
type Color uint32

// Common colors.
const (
	ColorBlack       Color = 0xFF000000
	ColorWhite       Color = 0xFFFFFFFF
	ColorRed         Color = 0xFFFF0000
	ColorGreen       Color = 0xFF00FF00
	ColorBlue        Color = 0xFF0000FF
	ColorTransparent Color = 0x00000000
)

// RGBA builds a color from 8-bit channels.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// Channels splits the color into its 8-bit components.
func (c Color) Channels() (r, g, b, a uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c), uint8(c >> 24)
}

// Hex returns the color as "#rrggbb", ignoring alpha.
func (c Color) Hex() string {
	r, g, b, _ := c.Channels()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
