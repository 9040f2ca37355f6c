package tui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"
)

// canvas lays an image onto the terminal cell grid. Each cell shows two
// vertically stacked pixels through the upper half block, so a w x h cell
// area carries w x 2h image pixels. The image is fit into the available
// area preserving aspect ratio and never upscaled.
type canvas struct {
	imgBounds image.Rectangle

	cellW, cellH     int // cells the image occupies
	offsetX, offsetY int // screen cells left of / above the canvas

	scaled *image.RGBA // cellW x cellH*2 downscaled raster
}

// newCanvas fits bounds into an availW x availH cell area that starts
// offsetY rows down the screen.
func newCanvas(bounds image.Rectangle, availW, availH, offsetY int) *canvas {
	if availW < 1 {
		availW = 1
	}
	if availH < 1 {
		availH = 1
	}
	iw, ih := bounds.Dx(), bounds.Dy()
	if iw < 1 {
		iw = 1
	}
	if ih < 1 {
		ih = 1
	}

	// Two pixel rows fit in every cell row.
	scale := math.Min(float64(availW)/float64(iw), float64(availH*2)/float64(ih))
	if scale > 1 {
		scale = 1
	}

	pw := int(float64(iw) * scale)
	ph := int(float64(ih) * scale)
	if pw < 1 {
		pw = 1
	}
	// The bottom cell needs both halves, so the pixel height is rounded
	// down to even. One-pixel-tall images stretch into a single cell.
	ph -= ph % 2
	if ph < 2 {
		ph = 2
	}

	c := &canvas{
		imgBounds: bounds,
		cellW:     pw,
		cellH:     ph / 2,
		offsetY:   offsetY,
	}
	c.offsetX = (availW - c.cellW) / 2
	if c.offsetX < 0 {
		c.offsetX = 0
	}
	return c
}

// update rescales img into the cell grid. Call it after every change to
// the underlying raster.
func (c *canvas) update(img *image.RGBA) {
	dst := image.NewRGBA(image.Rect(0, 0, c.cellW, c.cellH*2))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	c.scaled = dst
}

// imagePoint maps a screen cell to full-resolution image coordinates.
// ok reports whether the cell lies on the canvas; the returned point is
// the proportional mapping either way, so drags that wander off the edge
// still track.
func (c *canvas) imagePoint(x, y int) (image.Point, bool) {
	cx, cy := x-c.offsetX, y-c.offsetY
	ok := cx >= 0 && cx < c.cellW && cy >= 0 && cy < c.cellH
	ix := c.imgBounds.Min.X + cx*c.imgBounds.Dx()/c.cellW
	iy := c.imgBounds.Min.Y + cy*c.imgBounds.Dy()/c.cellH
	return image.Pt(ix, iy), ok
}

// render draws the cell grid, one styled half block per cell.
func (c *canvas) render() string {
	if c.scaled == nil {
		return ""
	}
	pad := strings.Repeat(" ", c.offsetX)
	var sb strings.Builder
	for y := 0; y < c.cellH; y++ {
		sb.WriteString(pad)
		for x := 0; x < c.cellW; x++ {
			top := c.scaled.RGBAAt(x, 2*y)
			bottom := c.scaled.RGBAAt(x, 2*y+1)
			cell := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexColor(top))).
				Background(lipgloss.Color(hexColor(bottom)))
			sb.WriteString(cell.Render("▀"))
		}
		if y < c.cellH-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
