/*
DESCRIPTION
  dhash.go implements the 16-bit perceptual difference hash used to
  shortcut patchsize re-estimation when an MI hasn't changed
  meaningfully since the previous frame.

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

package mibuf

import (
	"image"
	"math/bits"

	"gocv.io/x/gocv"
)

const (
	thumbWidth = 4
	thumbCols  = thumbWidth + 1
)

// ComputeDhash downsamples src (the √2-inscribed central square crop of an
// MI) to a 4x5 thumbnail and sets one bit per (col, col+1) comparison
// across 4 rows, yielding a 16-bit perceptual hash.
func ComputeDhash(src *gocv.Mat) uint16 {
	thumb := gocv.NewMatWithSize(thumbWidth, thumbCols, gocv.MatTypeCV8U)
	defer thumb.Close()
	gocv.Resize(*src, &thumb, image.Pt(thumbCols, thumbWidth), 0, 0, gocv.InterpolationLinear)

	var dhash uint16
	var mask uint16 = 1
	for row := 0; row < thumbWidth; row++ {
		for col := 0; col < thumbWidth; col++ {
			curr := thumb.GetUCharAt(row, col)
			next := thumb.GetUCharAt(row, col+1)
			if next > curr {
				dhash |= mask
			}
			mask <<= 1
		}
	}
	return dhash
}

// DhashDistance returns the Hamming distance (popcount of the XOR) between
// two dhash values. Per spec §8, this lies in [0, 16].
func DhashDistance(a, b uint16) int {
	return bits.OnesCount16(a ^ b)
}

// InscribedSquareROI returns the bounding square of the circle inscribed in
// a diameter x diameter crop, scaled by 1/sqrt(2) so the square itself is
// inscribed in the circle (the "√2-inscribed central square").
func InscribedSquareROI(diameter int) image.Rectangle {
	side := int(float64(diameter) / sqrt2)
	if side < 1 {
		side = 1
	}
	off := (diameter - side) / 2
	return image.Rect(off, off, off+side, off+side)
}

const sqrt2 = 1.4142135623730951
