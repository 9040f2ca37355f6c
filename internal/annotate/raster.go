package annotate

import "image"

// paint renders one op onto img.
func paint(img *image.RGBA, op *Op) {
	switch op.Kind {
	case KindPen:
		if len(op.pts) == 1 {
			// A tap without movement still leaves a mark.
			stamp(img, op.pts[0].X, op.pts[0].Y, op.Style)
			return
		}
		for i := 1; i < len(op.pts); i++ {
			strokeLine(img, op.pts[i-1], op.pts[i], op.Style)
		}
	case KindEllipse:
		strokeEllipse(img, op.anchor, op.corner, op.Style)
	case KindRect:
		strokeRect(img, op.anchor, op.corner, op.Style)
	}
}

// stamp paints one brush footprint: a filled disc of the style's width,
// clipped to the image. Overlapping stamps along a stroke give the round
// cap and join look.
func stamp(img *image.RGBA, x, y int, st Style) {
	r := st.Width / 2
	if r <= 0 {
		if image.Pt(x, y).In(img.Bounds()) {
			img.Set(x, y, st.Color)
		}
		return
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			if image.Pt(x+dx, y+dy).In(img.Bounds()) {
				img.Set(x+dx, y+dy, st.Color)
			}
		}
	}
}

// strokeLine stamps the brush along the Bresenham line from p0 to p1.
func strokeLine(img *image.RGBA, p0, p1 image.Point, st Style) {
	x0, y0 := p0.X, p0.Y
	x1, y1 := p1.X, p1.Y
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		stamp(img, x0, y0, st)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// strokeRect outlines the rectangle spanned by p0 and p1, corners
// inclusive. Dragging in any direction normalizes.
func strokeRect(img *image.RGBA, p0, p1 image.Point, st Style) {
	x0, y0, x1, y1 := p0.X, p0.Y, p1.X, p1.Y
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	strokeLine(img, image.Pt(x0, y0), image.Pt(x1, y0), st)
	strokeLine(img, image.Pt(x1, y0), image.Pt(x1, y1), st)
	strokeLine(img, image.Pt(x1, y1), image.Pt(x0, y1), st)
	strokeLine(img, image.Pt(x0, y1), image.Pt(x0, y0), st)
}

// strokeEllipse outlines the midpoint ellipse inscribed in the rectangle
// spanned by p0 and p1. A degenerate span paints as a straight line.
func strokeEllipse(img *image.RGBA, p0, p1 image.Point, st Style) {
	x0, y0, x1, y1 := p0.X, p0.Y, p1.X, p1.Y
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	rx, ry := (x1-x0)/2, (y1-y0)/2
	if rx == 0 || ry == 0 {
		strokeLine(img, image.Pt(x0, y0), image.Pt(x1, y1), st)
		return
	}
	cx, cy := x0+rx, y0+ry

	// Region 1: gradient above -1, stepping in x.
	x, y := 0, ry
	d1 := ry*ry - rx*rx*ry + rx*rx/4
	dx := 2 * ry * ry * x
	dy := 2 * rx * rx * y
	for dx < dy {
		stampQuad(img, cx, cy, x, y, st)
		if d1 < 0 {
			x++
			dx += 2 * ry * ry
			d1 += dx + ry*ry
		} else {
			x++
			y--
			dx += 2 * ry * ry
			dy -= 2 * rx * rx
			d1 += dx - dy + ry*ry
		}
	}

	// Region 2: gradient below -1, stepping in y.
	d2 := ry*ry*(2*x+1)*(2*x+1)/4 + rx*rx*(y-1)*(y-1) - rx*rx*ry*ry
	for y >= 0 {
		stampQuad(img, cx, cy, x, y, st)
		if d2 > 0 {
			y--
			dy -= 2 * rx * rx
			d2 += rx*rx - dy
		} else {
			y--
			x++
			dx += 2 * ry * ry
			dy -= 2 * rx * rx
			d2 += dx - dy + rx*rx
		}
	}
}

// stampQuad stamps the four symmetric ellipse points around (cx, cy).
func stampQuad(img *image.RGBA, cx, cy, x, y int, st Style) {
	stamp(img, cx+x, cy+y, st)
	stamp(img, cx-x, cy+y, st)
	stamp(img, cx+x, cy-y, st)
	stamp(img, cx-x, cy-y, st)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
