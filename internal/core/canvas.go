package core

// Canvas is the engine's pixel buffer: width*height packed 0xAARRGGBB
// values in row-major order. Its size is fixed at construction.
type Canvas struct {
	width  int
	height int
	pixels []uint32
}

// NewCanvas creates a canvas cleared to opaque black.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		width:  width,
		height: height,
		pixels: make([]uint32, width*height),
	}
	c.Clear(ColorBlack)
	return c
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int {
	return c.height
}

// Bounds returns the canvas area as a rectangle at the origin.
func (c *Canvas) Bounds() Rect {
	return NewRect(0, 0, c.width, c.height)
}

// Pixels exposes the backing buffer. It is rewritten by the next draw.
func (c *Canvas) Pixels() []uint32 {
	return c.pixels
}

// Clear fills the entire canvas with the given color.
func (c *Canvas) Clear(col Color) {
	v := uint32(col)
	for i := range c.pixels {
		c.pixels[i] = v
	}
}

// Set writes a pixel. Out-of-bounds coordinates are silently ignored.
func (c *Canvas) Set(x, y int, col Color) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.pixels[y*c.width+x] = uint32(col)
}

// Get returns the pixel at (x, y), or transparent when out of bounds.
func (c *Canvas) Get(x, y int) Color {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return ColorTransparent
	}
	return Color(c.pixels[y*c.width+x])
}

// FillRect fills the part of r that lies on the canvas.
func (c *Canvas) FillRect(r Rect, col Color) {
	clip := r.Intersect(c.Bounds())
	if clip.Empty() {
		return
	}
	v := uint32(col)
	for y := clip.Y; y < clip.Bottom(); y++ {
		row := c.pixels[y*c.width : (y+1)*c.width]
		for x := clip.X; x < clip.Right(); x++ {
			row[x] = v
		}
	}
}

// DrawHLine draws a horizontal line from (x, y) with the given length.
func (c *Canvas) DrawHLine(x, y, length int, col Color) {
	c.FillRect(NewRect(x, y, length, 1), col)
}

// DrawVLine draws a vertical line from (x, y) with the given length.
func (c *Canvas) DrawVLine(x, y, length int, col Color) {
	c.FillRect(NewRect(x, y, 1, length), col)
}
