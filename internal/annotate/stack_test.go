package annotate

import (
	"bytes"
	"fmt"
	"image"
	"testing"

	"pgregory.net/rapid"
)

// buildRandomOps applies n drawn ops with random drags to the stack.
func buildRandomOps(t *rapid.T, s *Stack, n, size int) {
	coord := rapid.IntRange(0, size-1)
	for i := 0; i < n; i++ {
		kind := Kind(rapid.IntRange(int(KindPen), int(KindRect)).Draw(t, fmt.Sprintf("kind%d", i)))
		anchor := image.Pt(coord.Draw(t, "ax"), coord.Draw(t, "ay"))
		op := s.Begin(kind, anchor, DefaultStyle())

		moves := rapid.IntRange(0, 5).Draw(t, fmt.Sprintf("moves%d", i))
		for j := 0; j < moves; j++ {
			s.Extend(op, image.Pt(coord.Draw(t, "mx"), coord.Draw(t, "my")))
		}
	}
}

func TestUndoRedoRoundTripRestoresPixels(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		const size = 24
		base := image.NewRGBA(image.Rect(0, 0, size, size))
		s := NewStack()

		n := rapid.IntRange(1, 8).Draw(t, "n_ops")
		buildRandomOps(t, s, n, size)

		want := s.Rasterize(base).Pix

		for i := 0; i < n; i++ {
			if !s.Undo() {
				t.Fatalf("Undo %d reported nothing to undo", i)
			}
		}
		if s.Undo() {
			t.Fatal("Undo succeeded on an empty history")
		}
		if !bytes.Equal(s.Rasterize(base).Pix, base.Pix) {
			t.Fatal("fully undone stack does not rasterize to the base image")
		}

		for i := 0; i < n; i++ {
			if !s.Redo() {
				t.Fatalf("Redo %d reported nothing to redo", i)
			}
		}
		if s.Redo() {
			t.Fatal("Redo succeeded past the top of the history")
		}
		if !bytes.Equal(s.Rasterize(base).Pix, want) {
			t.Fatal("pixels differ after a full undo/redo round trip")
		}
	})
}

func TestNewOpInvalidatesRedo(t *testing.T) {
	s := NewStack()
	s.Begin(KindPen, image.Pt(1, 1), DefaultStyle())
	s.Begin(KindRect, image.Pt(2, 2), DefaultStyle())

	if !s.Undo() {
		t.Fatal("Undo failed with two ops on the stack")
	}
	if !s.CanRedo() {
		t.Fatal("CanRedo false right after an undo")
	}

	s.Begin(KindEllipse, image.Pt(3, 3), DefaultStyle())
	if s.CanRedo() {
		t.Fatal("redo tail survived a new op")
	}
	if s.Redo() {
		t.Fatal("Redo succeeded after invalidation")
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 active ops, got %d", s.Len())
	}
}

func TestExtendOfDiscardedOpIsNoOp(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 16, 16))
	s := NewStack()

	op := s.Begin(KindRect, image.Pt(2, 2), DefaultStyle())
	s.Undo()
	s.Begin(KindPen, image.Pt(8, 8), DefaultStyle()) // discards op

	before := s.Rasterize(base).Pix
	s.Extend(op, image.Pt(14, 14))
	after := s.Rasterize(base).Pix

	if !bytes.Equal(before, after) {
		t.Fatal("extending a discarded op changed the raster")
	}
}

func TestDirtyTracksMutations(t *testing.T) {
	s := NewStack()
	if s.Dirty() {
		t.Fatal("new stack reports dirty")
	}

	s.Begin(KindPen, image.Pt(1, 1), DefaultStyle())
	if !s.Dirty() {
		t.Fatal("Begin did not dirty the stack")
	}
	s.MarkSaved()
	if s.Dirty() {
		t.Fatal("MarkSaved did not clear dirty")
	}

	if !s.Undo() {
		t.Fatal("Undo failed")
	}
	if !s.Dirty() {
		t.Fatal("Undo did not dirty the stack")
	}
	s.MarkSaved()

	if !s.Redo() {
		t.Fatal("Redo failed")
	}
	if !s.Dirty() {
		t.Fatal("Redo did not dirty the stack")
	}
	s.MarkSaved()

	// No-op boundary calls leave the saved state alone.
	if s.Redo() {
		t.Fatal("Redo succeeded at the top")
	}
	if s.Dirty() {
		t.Fatal("failed redo dirtied the stack")
	}
}

func TestRasterizeLeavesBaseUntouched(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for i := range base.Pix {
		base.Pix[i] = 0x7f
	}
	orig := append([]byte(nil), base.Pix...)

	s := NewStack()
	op := s.Begin(KindPen, image.Pt(2, 2), DefaultStyle())
	s.Extend(op, image.Pt(13, 13))
	s.Rasterize(base)

	if !bytes.Equal(base.Pix, orig) {
		t.Fatal("Rasterize wrote into the base image")
	}
}
