// Package render turns the 2-bit colour module sequences produced by the
// cronto package into shareable representations: an SVG drawing, a plain
// terminal dump, and a compact URL-safe text form suitable for pasting
// into another tool.
package render

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo/float"
)

// Scale is the SVG edge length of one module, in user units.
const Scale = 16

// moduleFills maps a module value to its SVG fill; value 0 (blank) has no
// fill and is skipped when drawing.
var moduleFills = [4]string{"", "fill:#f00", "fill:#0f0", "fill:#00f"}

// matrixSize returns the edge length of a square module sequence, or an
// error when the sequence cannot be rendered as a square matrix.
func matrixSize(modules []byte) (int, error) {
	size := int(math.Sqrt(float64(len(modules))))
	if size < 1 || size*size != len(modules) {
		return 0, fmt.Errorf("render: module sequence of length %d is not a square matrix", len(modules))
	}
	return size, nil
}

// ToSVG writes modules to w as an SVG drawing: the coloured squares inset
// in a rounded 10-module-wide frame, optionally over a white background.
// The sequence is laid out column-major, matching the scan order clients
// expect.
func ToSVG(w io.Writer, modules []byte, background bool) error {
	size, err := matrixSize(modules)
	if err != nil {
		return err
	}
	width := float64(size + 10)

	const inset = 1.0 / 16
	const radius = 4.0 / 16

	canvas := svg.New(w)
	canvas.Start(width*Scale, width*Scale)
	canvas.Gtransform(fmt.Sprintf("scale(%d)", Scale))
	if background {
		canvas.Rect(0, 0, width, width, "fill:#fff")
	}
	canvas.Roundrect(2, 2, float64(size)+6, float64(size)+6, 1, 1, "fill:#000")
	canvas.Roundrect(4, 4, float64(size)+2, float64(size)+2, 0.5, 0.5, "fill:#fff")
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			fill := moduleFills[modules[x*size+y]&0b11]
			if fill == "" {
				continue
			}
			canvas.Roundrect(
				float64(x+5)+inset, float64(y+5)+inset,
				1-2*inset, 1-2*inset,
				radius, radius,
				fill,
			)
		}
	}
	canvas.Gend()
	canvas.End()
	return nil
}

// Text writes modules to w as a size x size grid of digits, one row per
// line, for quick inspection in a terminal.
func Text(w io.Writer, modules []byte) error {
	size, err := matrixSize(modules)
	if err != nil {
		return err
	}
	line := make([]byte, size+1)
	line[size] = '\n'
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			line[x] = '0' + modules[y+x*size]&0b11
		}
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}
