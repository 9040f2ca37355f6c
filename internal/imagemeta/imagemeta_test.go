package imagemeta_test

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Programie/ScreenshotManager/internal/imagemeta"
)

// writePNG writes a w×h PNG to dir/name and returns its path.
func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	return path
}

func TestProbeReturnsDimensionsAndModTime(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "shot.png", 640, 480)

	info, err := imagemeta.Probe(path)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.Width != 640 || info.Height != 480 {
		t.Errorf("dimensions: got %dx%d, want 640x480", info.Width, info.Height)
	}
	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !info.ModTime.Equal(st.ModTime()) {
		t.Errorf("ModTime: got %v, want %v", info.ModTime, st.ModTime())
	}
}

func TestProbeFailures(t *testing.T) {
	dir := t.TempDir()

	notImage := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notImage, []byte("not pixels"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr error // nil means any error is acceptable
	}{
		{"missing file", filepath.Join(dir, "gone.png"), os.ErrNotExist},
		{"not an image", notImage, imagemeta.ErrUndecodable},
		{"directory", dir, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := imagemeta.Probe(tt.path)
			if err == nil {
				t.Fatalf("Probe(%q): expected error, got nil", tt.path)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Probe(%q): got %v, want %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestLoadDecodesFullImage(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "shot.png", 12, 34)

	img, err := imagemeta.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 12 || b.Dy() != 34 {
		t.Errorf("bounds: got %dx%d, want 12x34", b.Dx(), b.Dy())
	}
}
