package cmd

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Programie/ScreenshotManager/internal/imagemeta"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{in: "", want: color.RGBA{R: 255, A: 255}},
		{in: "red", want: color.RGBA{R: 255, A: 255}},
		{in: "RED", want: color.RGBA{R: 255, A: 255}},
		{in: "black", want: color.RGBA{A: 255}},
		{in: "#00c800", want: color.RGBA{G: 0xc8, A: 255}},
		{in: "00c800", want: color.RGBA{G: 0xc8, A: 255}},
		{in: "#abc", wantErr: true},
		{in: "#zzzzzz", wantErr: true},
		{in: "mauve", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseCorners(t *testing.T) {
	wantA, wantB := image.Pt(1, 2), image.Pt(30, 4)
	for _, in := range []string{"1,2,30,4", "1,2 30,4"} {
		a, b, err := parseCorners(in)
		if err != nil {
			t.Errorf("parseCorners(%q): %v", in, err)
			continue
		}
		if a != wantA || b != wantB {
			t.Errorf("parseCorners(%q) = %v %v, want %v %v", in, a, b, wantA, wantB)
		}
	}

	for _, in := range []string{"", "1,2", "1,2 3,4 5,6", "a,b,c,d", "1;2;3;4"} {
		if _, _, err := parseCorners(in); err == nil {
			t.Errorf("parseCorners(%q) succeeded, want error", in)
		}
	}
}

func TestAnnotateDrawsAndUndoes(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dir := t.TempDir()
	src := writeShotSized(t, dir, "shot.png", 24, 24)
	out := filepath.Join(dir, "out.png")

	// Pens apply before rects, so --undo 1 pops the rectangle and keeps
	// the stroke.
	_, err := executeCommand(rootCmd, "annotate", src,
		"--pen", "15,15 18,18",
		"--rect", "2,2,12,12",
		"--undo", "1",
		"--color", "#00c800",
		"--width", "1",
		"-o", out)
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}

	img, err := imagemeta.Load(out)
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	green := color.RGBA{G: 0xc8, A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if got := rgbaAt(img, 15, 15); got != green {
		t.Errorf("pen pixel (15,15) = %v, want %v", got, green)
	}
	if got := rgbaAt(img, 2, 2); got != white {
		t.Errorf("undone rect pixel (2,2) = %v, want untouched %v", got, white)
	}

	// The input file is untouched when -o is given.
	srcImg, err := imagemeta.Load(src)
	if err != nil {
		t.Fatalf("load input: %v", err)
	}
	if got := rgbaAt(srcImg, 15, 15); got != white {
		t.Errorf("input pixel (15,15) = %v, want untouched %v", got, white)
	}
}

// writeShotSized drops a white w x h PNG into dir.
func writeShotSized(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

// rgbaAt reads a pixel as RGBA regardless of the decoded image type.
func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}
