package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/yolk/internal/core"
	"github.com/vovakirdan/yolk/internal/platform"
)

// halfBlock draws the upper pixel in the foreground and the lower pixel in
// the background, so one cell shows two vertically stacked pixels.
const halfBlock = "▀"

var overlayStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("229")).
	Background(lipgloss.Color("57"))

// cellPair is the two pixels shown by one terminal cell.
type cellPair struct {
	top, bottom uint32
}

// RenderFrame converts a frame to styled text for a grid of cols x rows
// cells. The frame's viewport is in half-block pixels (two per row); the
// area around it is letterboxed in black. The last row holds the overlay.
func RenderFrame(f platform.Frame, cols, rows int) string {
	if cols <= 0 || rows <= 1 {
		return ""
	}
	pixelRows := (rows - 1) * 2

	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(cols*rows*4 + rows)

	for y := 0; y < pixelRows; y += 2 {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same colors for efficiency
		x := 0
		for x < cols {
			start := sample(f, x, y)
			n := 0
			for x < cols && sample(f, x, y) == start {
				n++
				x++
			}
			sb.WriteString(pairStyle(start).Render(strings.Repeat(halfBlock, n)))
		}
	}

	sb.WriteRune('\n')
	overlay := []rune(f.Overlay)
	if len(overlay) > cols {
		overlay = overlay[:cols]
	}
	if len(overlay) > 0 {
		sb.WriteString(overlayStyle.Render(string(overlay)))
	}
	return sb.String()
}

// sample returns the pixels under cell (x, y/2), nearest neighbour.
func sample(f platform.Frame, x, y int) cellPair {
	return cellPair{top: pixelAt(f, x, y), bottom: pixelAt(f, x, y+1)}
}

func pixelAt(f platform.Frame, x, y int) uint32 {
	vp := f.Viewport
	if !vp.Contains(x, y) || f.Width == 0 || f.Height == 0 {
		return uint32(core.ColorBlack)
	}
	sx := core.Clamp((x-vp.X)*f.Width/vp.W, 0, f.Width-1)
	sy := core.Clamp((y-vp.Y)*f.Height/vp.H, 0, f.Height-1)
	i := sy*f.Width + sx
	if i < 0 || i >= len(f.Pixels) {
		return uint32(core.ColorBlack)
	}
	return f.Pixels[i]
}

func pairStyle(p cellPair) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(hexColor(p.top)).
		Background(hexColor(p.bottom))
}

func hexColor(p uint32) lipgloss.Color {
	return lipgloss.Color(core.Color(p).Hex())
}
