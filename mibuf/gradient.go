/*
DESCRIPTION
  gradient.go computes the Sobel gradient-magnitude score used to
  weight a neighbor MI's contribution to patchsize estimation.

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

package mibuf

import (
	"gocv.io/x/gocv"
)

// ComputeGrads returns the L1 gradient-magnitude score of src: the sum of
// absolute Sobel-x and Sobel-y responses, divided by pixel count.
// Grounded on computeGrads in the original source's functional.cpp.
func ComputeGrads(src *gocv.Mat) float64 {
	pixCount := float64(src.Rows() * src.Cols())

	edgesX := gocv.NewMat()
	defer edgesX.Close()
	gocv.Sobel(*src, &edgesX, gocv.MatTypeCV16S, 1, 0, 3, 1, 0, gocv.BorderDefault)

	edgesY := gocv.NewMat()
	defer edgesY.Close()
	gocv.Sobel(*src, &edgesY, gocv.MatTypeCV16S, 0, 1, 3, 1, 0, gocv.BorderDefault)

	var grads float64
	grads += sumAbs16S(&edgesX)
	grads += sumAbs16S(&edgesY)
	return grads / pixCount
}

func sumAbs16S(m *gocv.Mat) float64 {
	rows, cols := m.Rows(), m.Cols()
	var sum float64
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			v := m.GetShortAt(row, col)
			if v < 0 {
				v = -v
			}
			sum += float64(v)
		}
	}
	return sum
}
