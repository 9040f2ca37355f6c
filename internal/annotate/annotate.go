// Package annotate implements the undoable vector annotation layer drawn
// over a screenshot: pen strokes, ellipses and rectangles held on a linear
// undo/redo stack and rasterized on demand.
package annotate

import (
	"image"
	"image/color"
)

// Kind selects the annotation tool.
type Kind uint8

const (
	KindNone Kind = iota
	KindPen
	KindEllipse
	KindRect
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindPen:
		return "pen"
	case KindEllipse:
		return "ellipse"
	case KindRect:
		return "rect"
	}
	return "unknown"
}

// Style carries the stroke appearance. Width at or below 1 paints single
// pixels; larger widths stamp a round brush along the stroke.
type Style struct {
	Color color.RGBA
	Width int
}

// DefaultStyle is the classic marker: opaque red, three pixels wide.
func DefaultStyle() Style {
	return Style{Color: color.RGBA{R: 255, A: 255}, Width: 3}
}

// Op is a single annotation. Pen ops grow a polyline as the pointer moves;
// shape ops keep their anchor fixed and move the opposite corner. Ops are
// created by Stack.Begin and mutated only through Stack.Extend.
type Op struct {
	Kind  Kind
	Style Style

	pts    []image.Point // pen polyline; pts[0] is the anchor
	anchor image.Point   // shapes
	corner image.Point
}

// Bounds returns the rectangle the op spans. Dragging up or left of the
// anchor normalizes rather than rejects, so Min/Max are always ordered.
func (o *Op) Bounds() image.Rectangle {
	if o.Kind == KindPen {
		if len(o.pts) == 0 {
			return image.Rectangle{}
		}
		r := image.Rectangle{Min: o.pts[0], Max: o.pts[0].Add(image.Pt(1, 1))}
		for _, p := range o.pts[1:] {
			r = r.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
		}
		return r
	}
	return image.Rect(o.anchor.X, o.anchor.Y, o.corner.X, o.corner.Y)
}
