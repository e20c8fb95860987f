/*
DESCRIPTION
  census.go implements the 5x5, 24-bit Census transform used to register a
  micro-image against its neighbors under gain/offset illumination changes.

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

// Package mibuf populates the per-micro-image (MI) working buffers that the
// patchsize estimator matches against: a grayscale crop, a Census bitmap
// and validity mask (or an SSIM intensity pair), a gradient-magnitude
// score, and a dhash fingerprint.
package mibuf

import (
	"math/bits"

	"gocv.io/x/gocv"
)

// censusWindow and censusHalfWindow describe the fixed 5x5 comparison
// window (24 neighbor bits, skipping the center pixel).
const (
	censusWindow     = 5
	censusHalfWindow = censusWindow / 2
)

// CircularMask builds a diameter x diameter mask, row-major, one byte per
// pixel (0 or 1), marking pixels that fall within a circle of the given
// radius centered on the crop. Used as the Census srcMask.
func CircularMask(diameter int, radius float64) []byte {
	mask := make([]byte, diameter*diameter)
	cx := float64(diameter-1) / 2
	cy := cx
	r2 := radius * radius
	for row := 0; row < diameter; row++ {
		dy := float64(row) - cy
		for col := 0; col < diameter; col++ {
			dx := float64(col) - cx
			if dx*dx+dy*dy <= r2 {
				mask[row*diameter+col] = 1
			}
		}
	}
	return mask
}

// CensusTransform5x5 computes the Census comparison map and validity mask
// for src (an 8-bit single-channel crop), restricted to pixels where
// srcMask is nonzero. censusMap and censusMask are row-major, 3 packed
// bytes (24 bits) per pixel: bit i of neighbor index i (0..23, skipping the
// center) in the 5x5 window, scanned row-major, is set in censusMap when
// that neighbor's intensity exceeds the center, and set in censusMask when
// that neighbor position is both in-image and marked valid by srcMask.
func CensusTransform5x5(src *gocv.Mat, srcMask []byte) (censusMap, censusMask []byte) {
	rows, cols := src.Rows(), src.Cols()
	censusMap = make([]byte, rows*cols*3)
	censusMask = make([]byte, rows*cols*3)

	inRange := func(row, col int) bool {
		return row >= 0 && row < rows && col >= 0 && col < cols
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			center := src.GetUCharAt(row, col)
			pixOff := (row*cols + col) * 3
			winPixCount := 0
			for winRow := -censusHalfWindow; winRow <= censusHalfWindow; winRow++ {
				for winCol := -censusHalfWindow; winCol <= censusHalfWindow; winCol++ {
					if winRow == 0 && winCol == 0 {
						continue
					}
					byteID := winPixCount / 8
					bitOffset := uint(winPixCount % 8)

					nr, nc := row+winRow, col+winCol
					switch {
					case !inRange(nr, nc):
						censusMask[pixOff+byteID] &^= 1 << bitOffset
					case srcMask[nr*cols+nc] == 0:
						censusMask[pixOff+byteID] &^= 1 << bitOffset
					default:
						censusMask[pixOff+byteID] |= 1 << bitOffset
						neighbor := src.GetUCharAt(nr, nc)
						if neighbor > center {
							censusMap[pixOff+byteID] |= 1 << bitOffset
						} else {
							censusMap[pixOff+byteID] &^= 1 << bitOffset
						}
					}
					winPixCount++
				}
			}
		}
	}
	return censusMap, censusMask
}

// PopcountBytes returns the total number of set bits across b.
func PopcountBytes(b []byte) int {
	n := 0
	for _, v := range b {
		n += bits.OnesCount8(v)
	}
	return n
}

// andBytes returns a & b (bitwise AND), same length as both.
func andBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] & b[i]
	}
	return out
}

// xorBytes returns a XOR b, same length as both.
func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// CropShiftedOverlap extracts, from two diam x diam census buffers (map or
// mask, 3 bytes/pixel), the overlapping sub-rectangle implied by shifting
// b by (shiftX, shiftY) pixels relative to a: croppedA aligns with
// croppedB such that croppedA[row,col] corresponds to the same scene point
// as croppedB[row,col] once b has been displaced by the shift. Returns the
// cropped width and height alongside the two buffers.
func CropShiftedOverlap(a, b []byte, diam, shiftX, shiftY int) (croppedA, croppedB []byte, w, h int) {
	aX0, bX0, w := overlap1D(diam, shiftX)
	aY0, bY0, h := overlap1D(diam, shiftY)
	if w <= 0 || h <= 0 {
		return nil, nil, 0, 0
	}

	croppedA = make([]byte, w*h*3)
	croppedB = make([]byte, w*h*3)
	for row := 0; row < h; row++ {
		aRowOff := ((aY0+row)*diam + aX0) * 3
		bRowOff := ((bY0+row)*diam + bX0) * 3
		copy(croppedA[row*w*3:(row+1)*w*3], a[aRowOff:aRowOff+w*3])
		copy(croppedB[row*w*3:(row+1)*w*3], b[bRowOff:bRowOff+w*3])
	}
	return croppedA, croppedB, w, h
}

// overlap1D returns the start offsets into a and b, and the overlap length,
// for a 1D axis of size dim where b is shifted by shift relative to a.
func overlap1D(dim, shift int) (aStart, bStart, length int) {
	if shift >= 0 {
		length = dim - shift
		return 0, shift, length
	}
	length = dim + shift
	return -shift, 0, length
}

// CompareCensus computes the Census-based matching ratio between anchor and
// neighbor bitfields (each censusMap/censusMask pairs over the same
// dimensions, already cropped to the overlapping region implied by a
// match shift): diffBits / maskBits, per spec §4.3 step 2. It takes no
// shift; the caller applies the crop (see CropShiftedOverlap). When
// maskBits is 0 the ratio is reported as 1.
func CompareCensus(anchorMap, anchorMask, neighborMap, neighborMask []byte) (ratio float64, diffBits, maskBits int) {
	validMask := andBytes(anchorMask, neighborMask)
	diff := andBytes(xorBytes(anchorMap, neighborMap), validMask)

	diffBits = PopcountBytes(diff)
	maskBits = PopcountBytes(validMask)
	if maskBits == 0 {
		return 1, diffBits, 0
	}
	return float64(diffBits) / float64(maskBits), diffBits, maskBits
}
