package annotate

import "image"

// Controller drives a Stack from pointer input. It is a two-state machine:
// idle until a press begins an op, drawing until the release commits it.
// It belongs to a single input goroutine and is not safe for concurrent
// use; the stack it drives is.
type Controller struct {
	stack  *Stack
	kind   Kind
	style  Style
	bounds image.Rectangle
	active *Op
}

// NewController returns an idle controller drawing onto a surface of the
// given bounds with the default style and no tool selected.
func NewController(stack *Stack, bounds image.Rectangle) *Controller {
	return &Controller{stack: stack, style: DefaultStyle(), bounds: bounds}
}

// SetKind selects the tool for the next press. KindNone disables drawing.
// The op currently being drawn, if any, keeps its kind.
func (c *Controller) SetKind(k Kind) { c.kind = k }

// Kind returns the selected tool.
func (c *Controller) Kind() Kind { return c.kind }

// SetStyle sets the style for the next press.
func (c *Controller) SetStyle(st Style) { c.style = st }

// Style returns the current style.
func (c *Controller) Style() Style { return c.style }

// Drawing reports whether a press is currently being dragged.
func (c *Controller) Drawing() bool { return c.active != nil }

// PointerDown begins an op when a tool is selected and the point lies on
// the surface. Presses while already drawing, with no tool, or outside the
// surface are ignored.
func (c *Controller) PointerDown(p image.Point) {
	if c.active != nil || c.kind == KindNone || !p.In(c.bounds) {
		return
	}
	c.active = c.stack.Begin(c.kind, p, c.style)
}

// PointerMove extends the active op. Points outside the surface are
// clamped to its edge so shapes can be dragged flush against it.
func (c *Controller) PointerMove(p image.Point) {
	if c.active == nil {
		return
	}
	c.stack.Extend(c.active, clamp(p, c.bounds))
}

// PointerUp commits the active op as drawn and returns to idle.
// A release without a press is ignored.
func (c *Controller) PointerUp() {
	c.active = nil
}

// clamp moves p to the nearest point inside r.
func clamp(p image.Point, r image.Rectangle) image.Point {
	if p.X < r.Min.X {
		p.X = r.Min.X
	}
	if p.X >= r.Max.X {
		p.X = r.Max.X - 1
	}
	if p.Y < r.Min.Y {
		p.Y = r.Min.Y
	}
	if p.Y >= r.Max.Y {
		p.Y = r.Max.Y - 1
	}
	return p
}
