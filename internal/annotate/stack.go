package annotate

import (
	"image"
	"image/draw"
	"sync"
)

// Stack is the linear undo/redo history of annotations for one image.
// ops[:pos] are active; ops[pos:] have been undone and wait for redo until
// the next Begin discards them. All methods are safe for concurrent use.
type Stack struct {
	mu    sync.Mutex
	ops   []*Op
	pos   int
	dirty bool
}

// NewStack returns an empty stack with nothing to undo or redo.
func NewStack() *Stack {
	return &Stack{}
}

// Begin starts a new annotation at anchor and returns its handle for
// Extend. Shapes start zero-sized with the corner on the anchor; pens
// start as a single point. Anything in the redo tail is discarded.
func (s *Stack) Begin(kind Kind, anchor image.Point, style Style) *Op {
	s.mu.Lock()
	defer s.mu.Unlock()

	op := &Op{Kind: kind, Style: style, anchor: anchor, corner: anchor}
	if kind == KindPen {
		op.pts = []image.Point{anchor}
	}
	s.ops = append(s.ops[:s.pos], op)
	s.pos = len(s.ops)
	s.dirty = true
	return op
}

// Extend grows op with the latest pointer position: pens append a segment
// point, shapes move their corner. Extending an op that Begin has since
// discarded is a no-op.
func (s *Stack) Extend(op *Op, p image.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.activeLocked(op) {
		return
	}
	if op.Kind == KindPen {
		op.pts = append(op.pts, p)
	} else {
		op.corner = p
	}
	s.dirty = true
}

// Undo deactivates the most recent active op. Returns false when there is
// nothing to undo.
func (s *Stack) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos == 0 {
		return false
	}
	s.pos--
	s.dirty = true
	return true
}

// Redo reactivates the most recently undone op. Returns false when there
// is nothing to redo.
func (s *Stack) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos == len(s.ops) {
		return false
	}
	s.pos++
	s.dirty = true
	return true
}

// CanUndo reports whether any op is active.
func (s *Stack) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos > 0
}

// CanRedo reports whether any undone op is still redoable.
func (s *Stack) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos < len(s.ops)
}

// Len returns the number of active ops.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// Dirty reports whether the stack changed since the last MarkSaved.
func (s *Stack) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// MarkSaved clears the dirty flag, typically after a successful save.
func (s *Stack) MarkSaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
}

// Rasterize paints the active annotations in insertion order over a copy
// of base. The stack itself never changes, so rasterizing the same state
// twice yields identical pixels.
func (s *Stack) Rasterize(base image.Image) *image.RGBA {
	// Deep-copy the active ops so painting runs outside the lock without
	// racing a concurrent Extend.
	s.mu.Lock()
	active := make([]Op, 0, s.pos)
	for _, op := range s.ops[:s.pos] {
		c := *op
		c.pts = append([]image.Point(nil), op.pts...)
		active = append(active, c)
	}
	s.mu.Unlock()

	out := image.NewRGBA(base.Bounds())
	draw.Draw(out, out.Bounds(), base, base.Bounds().Min, draw.Src)
	for i := range active {
		paint(out, &active[i])
	}
	return out
}

// activeLocked reports whether op is still among the active ops.
// Callers hold s.mu.
func (s *Stack) activeLocked(op *Op) bool {
	for _, o := range s.ops[:s.pos] {
		if o == op {
			return true
		}
	}
	return false
}
