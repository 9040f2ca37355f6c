// Package editor ties one opened screenshot to its annotation stack and
// handles saving the combined result.
package editor

import (
	"fmt"
	"image"

	"github.com/Programie/ScreenshotManager/internal/annotate"
	"github.com/Programie/ScreenshotManager/internal/export"
	"github.com/Programie/ScreenshotManager/internal/imagemeta"
)

// Editor is one screenshot being annotated: the decoded base image plus
// the undo stack drawn over it. An Editor lives for a single opened image.
type Editor struct {
	Path string

	base  image.Image
	stack *annotate.Stack
}

// Open decodes the image at path and starts an empty annotation stack.
func Open(path string) (*Editor, error) {
	img, err := imagemeta.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &Editor{Path: path, base: img, stack: annotate.NewStack()}, nil
}

// Stack returns the annotation stack.
func (e *Editor) Stack() *annotate.Stack { return e.stack }

// Bounds returns the pixel bounds of the base image.
func (e *Editor) Bounds() image.Rectangle { return e.base.Bounds() }

// Rasterize paints the active annotations over a copy of the base image.
func (e *Editor) Rasterize() *image.RGBA { return e.stack.Rasterize(e.base) }

// Save re-encodes the annotated image over the original file.
func (e *Editor) Save() error { return e.SaveAs(e.Path) }

// SaveAs writes the annotated image to path and marks the stack saved.
// The encoder follows the target extension, so saving a .png over a .jpg
// path re-encodes rather than renames.
func (e *Editor) SaveAs(path string) error {
	if err := export.WriteImage(e.Rasterize(), path); err != nil {
		return err
	}
	e.stack.MarkSaved()
	return nil
}

// Copy places the annotated image on the system clipboard.
func (e *Editor) Copy() error {
	return export.CopyImage(e.Rasterize())
}

// Dirty reports whether annotations changed since the last save.
func (e *Editor) Dirty() bool { return e.stack.Dirty() }
