package export_test

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/Programie/ScreenshotManager/internal/export"
	"github.com/Programie/ScreenshotManager/internal/imagemeta"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 12, 7))
	for y := 0; y < 7; y++ {
		for x := 0; x < 12; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 20), G: uint8(y * 30), B: 128, A: 255})
		}
	}
	return img
}

func TestWriteImageEncodesByExtension(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"shot.png", "shot.jpg", "shot.jpeg", "shot.gif",
		"shot.bmp", "shot.tiff",
		"shot.dump", // unknown extension falls back to PNG content
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := export.WriteImage(testImage(), path); err != nil {
			t.Fatalf("WriteImage(%s): %v", name, err)
		}
		info, err := imagemeta.Probe(path)
		if err != nil {
			t.Fatalf("Probe(%s): %v", name, err)
		}
		if info.Width != 12 || info.Height != 7 {
			t.Fatalf("%s: decoded as %dx%d, want 12x7", name, info.Width, info.Height)
		}
	}
}

func TestWriteImageLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	if err := export.WriteImage(testImage(), filepath.Join(dir, "shot.png")); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "shot.png" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("unexpected directory contents: %v", names)
	}
}

func TestWriteImageReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := export.WriteImage(testImage(), path); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}
	if _, err := imagemeta.Probe(path); err != nil {
		t.Fatalf("overwritten file does not decode: %v", err)
	}
}

func TestWriteImageFailsIntoMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "shot.png")
	if err := export.WriteImage(testImage(), path); err == nil {
		t.Fatal("expected an error writing into a missing directory")
	}
}
