package cmd

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Programie/ScreenshotManager/internal/annotate"
	"github.com/Programie/ScreenshotManager/internal/editor"
)

var (
	annotateOut      string
	annotateCopy     bool
	annotateColor    string
	annotateWidth    int
	annotateUndo     int
	annotatePens     []string
	annotateEllipses []string
	annotateRects    []string
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <image>",
	Short: "Draw pen strokes and shapes on a screenshot from the command line",
	Long: `Draw annotations on a screenshot without opening the browser.

Repeated flags of one kind apply in order; across kinds, pens apply first,
then ellipses, then rectangles. Without -o the input file is overwritten;
with --copy and no -o the result only goes to the clipboard.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := editor.Open(args[0])
		if err != nil {
			return err
		}

		st, err := parseStyle(annotateColor, annotateWidth)
		if err != nil {
			return err
		}

		for _, spec := range annotatePens {
			if err := applyPen(ed, spec, st); err != nil {
				return err
			}
		}
		for _, spec := range annotateEllipses {
			if err := applyShape(ed, annotate.KindEllipse, spec, st); err != nil {
				return err
			}
		}
		for _, spec := range annotateRects {
			if err := applyShape(ed, annotate.KindRect, spec, st); err != nil {
				return err
			}
		}

		for i := 0; i < annotateUndo; i++ {
			if !ed.Stack().Undo() {
				return fmt.Errorf("nothing left to undo after %d steps", i)
			}
		}

		if annotateCopy {
			if err := ed.Copy(); err != nil {
				return err
			}
			cmd.Println("image copied to clipboard")
		}

		if annotateOut == "" && annotateCopy {
			return nil
		}
		out := annotateOut
		if out == "" {
			out = ed.Path
		}
		if err := ed.SaveAs(out); err != nil {
			return err
		}
		cmd.Printf("saved %s\n", out)
		return nil
	},
}

// parseStyle builds the stroke style from --color and --width, falling
// back to the configured pen width.
func parseStyle(name string, width int) (annotate.Style, error) {
	st := annotate.DefaultStyle()
	if cfg.PenWidth > 0 {
		st.Width = cfg.PenWidth
	}
	if width != 0 {
		if width < 1 || width > 64 {
			return st, fmt.Errorf("width %d out of range 1..64", width)
		}
		st.Width = width
	}
	c, err := parseColor(name)
	if err != nil {
		return st, err
	}
	st.Color = c
	return st, nil
}

// parseColor accepts a few stock names or #rrggbb hex.
func parseColor(s string) (color.RGBA, error) {
	switch strings.ToLower(s) {
	case "", "red":
		return color.RGBA{R: 255, A: 255}, nil
	case "green":
		return color.RGBA{G: 200, A: 255}, nil
	case "blue":
		return color.RGBA{B: 255, A: 255}, nil
	case "yellow":
		return color.RGBA{R: 255, G: 220, A: 255}, nil
	case "black":
		return color.RGBA{A: 255}, nil
	case "white":
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}, nil
	}
	hex := strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(hex, 16, 32)
	if len(hex) != 6 || err != nil {
		return color.RGBA{}, fmt.Errorf("unknown color %q (want a name or #rrggbb)", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// parsePoints parses "x,y x,y ..." into points.
func parsePoints(spec string) ([]image.Point, error) {
	var pts []image.Point
	for _, field := range strings.Fields(spec) {
		xy := strings.Split(field, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("bad point %q (want x,y)", field)
		}
		x, errX := strconv.Atoi(xy[0])
		y, errY := strconv.Atoi(xy[1])
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("bad point %q (want x,y)", field)
		}
		pts = append(pts, image.Pt(x, y))
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("empty point list")
	}
	return pts, nil
}

// parseCorners accepts "x0,y0,x1,y1" or "x0,y0 x1,y1".
func parseCorners(spec string) (image.Point, image.Point, error) {
	fields := strings.Fields(spec)
	if len(fields) == 1 {
		if parts := strings.Split(fields[0], ","); len(parts) == 4 {
			vals := make([]int, 4)
			for i, p := range parts {
				v, err := strconv.Atoi(p)
				if err != nil {
					return image.Point{}, image.Point{}, fmt.Errorf("bad corner list %q", spec)
				}
				vals[i] = v
			}
			return image.Pt(vals[0], vals[1]), image.Pt(vals[2], vals[3]), nil
		}
	}
	pts, err := parsePoints(spec)
	if err != nil {
		return image.Point{}, image.Point{}, err
	}
	if len(pts) != 2 {
		return image.Point{}, image.Point{}, fmt.Errorf("want two corners, got %d points", len(pts))
	}
	return pts[0], pts[1], nil
}

func applyPen(ed *editor.Editor, spec string, st annotate.Style) error {
	pts, err := parsePoints(spec)
	if err != nil {
		return fmt.Errorf("--pen %q: %w", spec, err)
	}
	op := ed.Stack().Begin(annotate.KindPen, pts[0], st)
	for _, p := range pts[1:] {
		ed.Stack().Extend(op, p)
	}
	return nil
}

func applyShape(ed *editor.Editor, kind annotate.Kind, spec string, st annotate.Style) error {
	anchor, corner, err := parseCorners(spec)
	if err != nil {
		return fmt.Errorf("--%s %q: %w", kind, spec, err)
	}
	op := ed.Stack().Begin(kind, anchor, st)
	ed.Stack().Extend(op, corner)
	return nil
}

func init() {
	annotateCmd.Flags().StringVarP(&annotateOut, "output", "o", "", "write the annotated image here instead of over the input")
	annotateCmd.Flags().BoolVar(&annotateCopy, "copy", false, "copy the annotated image to the clipboard")
	annotateCmd.Flags().StringArrayVar(&annotatePens, "pen", nil, `pen stroke through points "x,y x,y ..."`)
	annotateCmd.Flags().StringArrayVar(&annotateEllipses, "ellipse", nil, `ellipse inside corners "x0,y0,x1,y1"`)
	annotateCmd.Flags().StringArrayVar(&annotateRects, "rect", nil, `rectangle between corners "x0,y0,x1,y1"`)
	annotateCmd.Flags().StringVar(&annotateColor, "color", "red", "stroke color (name or #rrggbb)")
	annotateCmd.Flags().IntVar(&annotateWidth, "width", 0, "stroke width in pixels (default from config)")
	annotateCmd.Flags().IntVar(&annotateUndo, "undo", 0, "undo the last n drawn ops before saving")
	rootCmd.AddCommand(annotateCmd)
}
