// Package export writes annotated screenshots back to disk and hands
// images or paths to the system clipboard.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// jpegQuality matches the original application's re-encode quality.
const jpegQuality = 92

// WriteImage encodes img to path, choosing the encoder by the file
// extension, and writes atomically via a temp file + os.Rename.
// Unrecognized extensions encode as PNG.
func WriteImage(img image.Image, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up the temp file on any error path.
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if err = encode(tmp, img, filepath.Ext(path)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write image: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}

	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	return nil
}

// encode picks the encoder for an extension. PNG is the fallback so a
// save never silently drops pixels to a lossier format.
func encode(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case ".gif":
		return gif.Encode(w, img, nil)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tiff", ".tif":
		return tiff.Encode(w, img, nil)
	default:
		return png.Encode(w, img)
	}
}

// CopyImage places img on the system clipboard as PNG. It shells out to
// the platform clipboard tool: osascript on macOS, wl-copy or xclip on
// Linux, whichever is installed.
func CopyImage(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode image for clipboard: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return copyImageDarwin(buf.Bytes())
	case "linux":
		return copyImageLinux(&buf)
	default:
		return fmt.Errorf("image clipboard is not supported on %s", runtime.GOOS)
	}
}

// copyImageDarwin writes the PNG to a temp file and has osascript read
// it onto the clipboard; the clipboard AppleScript class only reads from
// files, not stdin.
func copyImageDarwin(data []byte) error {
	tmp, err := os.CreateTemp("", "screenshot-copy-*.png")
	if err != nil {
		return fmt.Errorf("failed to stage clipboard image: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to stage clipboard image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to stage clipboard image: %w", err)
	}

	script := fmt.Sprintf("set the clipboard to (read (POSIX file %q) as «class PNGf»)", tmpName)
	if out, err := exec.Command("osascript", "-e", script).CombinedOutput(); err != nil {
		return fmt.Errorf("osascript: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func copyImageLinux(data io.Reader) error {
	var cmd *exec.Cmd
	if _, err := exec.LookPath("wl-copy"); err == nil {
		cmd = exec.Command("wl-copy", "--type", "image/png")
	} else if _, err := exec.LookPath("xclip"); err == nil {
		cmd = exec.Command("xclip", "-selection", "clipboard", "-t", "image/png", "-i")
	} else {
		return fmt.Errorf("no clipboard command found (install wl-clipboard or xclip)")
	}
	cmd.Stdin = data
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %v: %s", cmd.Path, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// CopyText places s on the system clipboard.
func CopyText(s string) error {
	if err := clipboard.WriteAll(s); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}
