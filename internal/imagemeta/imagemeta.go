// Package imagemeta probes image files for the metadata the collection
// needs (dimensions, modification time) without decoding full pixel data,
// and loads full images for the editor.
package imagemeta

import (
	"errors"
	"fmt"
	"image"
	"os"
	"time"

	// Register the decoders the manager accepts. Screenshots are almost
	// always PNG, but files arriving via the list source can be anything.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUndecodable is returned when a file exists but is not a decodable image.
var ErrUndecodable = errors.New("not a decodable image")

// Info describes an image file without its pixel data.
type Info struct {
	Width   int
	Height  int
	ModTime time.Time
}

// Probe stats path and decodes just the image header.
// Any failure (missing file, permission, unknown format) is an error;
// callers treat every failure as "this path holds no screenshot".
func Probe(path string) (Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	if st.IsDir() {
		return Info{}, fmt.Errorf("%s: is a directory", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Info{}, fmt.Errorf("%s: %w: %v", path, ErrUndecodable, err)
	}

	return Info{Width: cfg.Width, Height: cfg.Height, ModTime: st.ModTime()}, nil
}

// Load fully decodes the image at path.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrUndecodable, err)
	}
	return img, nil
}
