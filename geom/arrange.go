/*
DESCRIPTION
  arrange.go defines the Arrange interface: the geometry of a plenoptic
  camera's hexagonal micro-image (MI) lattice. Two concrete variants
  implement it, CornersArrange and OffsetArrange, selected by the
  calibration's arrangement kind.

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

// Package geom describes the hexagonal micro-image lattice geometry of a
// plenoptic camera sensor: where each micro-image center falls in image
// space, and how that geometry scales with an upsample factor.
package geom

import "math"

// Point is an image-space (x, y) coordinate in pixels.
type Point struct {
	X, Y float64
}

// Size is an image extent in pixels.
type Size struct {
	W, H int
}

// NearFocalLenType identifies the focal-length class of a lens in a
// multi-focus rig. TypeNone is used for single-focus rigs.
type NearFocalLenType int

const (
	TypeNone NearFocalLenType = iota
	TypeA
	TypeB
	TypeC
)

// Arrange is the MI-lattice geometry descriptor. It is an immutable value:
// every mutating operation (Upsample) returns a new Arrange rather than
// modifying the receiver in place, mirroring the teacher's small
// value-type-with-methods components (e.g. device.Config).
type Arrange interface {
	// MICenter returns the image-space center of the MI at (row, col).
	MICenter(row, col int) Point

	// MIRows returns the total number of MI rows.
	MIRows() int

	// MICols returns the number of MI columns in the given row. Adjacent
	// rows differ in column count by at most 1, per IsOutShift.
	MICols(row int) int

	// MIMaxCols returns the maximum column count across all rows, used to
	// size flat row-major buffers.
	MIMaxCols() int

	// Diameter returns the MI circle diameter in pixels.
	Diameter() float64

	// Radius returns Diameter()/2.
	Radius() float64

	// Direction reports whether the lattice axes are transposed (true)
	// relative to the raw sensor image.
	Direction() bool

	// IsOutShift reports whether odd rows are shifted left (true) or
	// right (false) relative to even rows.
	IsOutShift() bool

	// UpsampleFactor returns the integer scale factor already applied to
	// this Arrange's geometry.
	UpsampleFactor() int

	// Size returns the working image size this Arrange is defined over.
	Size() Size

	// IsKepler reports whether the pipeline uses Kepler (rotated) patch
	// extraction.
	IsKepler() bool

	// IsMultiFocus reports whether the rig interleaves multiple lens
	// focal-length types.
	IsMultiFocus() bool

	// NearFocalLenType returns which lens-position class is considered
	// "near focal" for a multi-focus rig's neighbor-selection rule.
	NearFocalLenType() int

	// Upsample returns a new Arrange with all linear geometry scaled by
	// factor.
	Upsample(factor int) Arrange
}

// sgn returns +1 for true and -1 for false, matching the original source's
// sgn(isOutShift) convention used to pick the shift direction of odd rows:
// centers are always computed as center.x -= xUnitShift/2 * sgn(isOutShift),
// so isOutShift=true (shift left) must yield a positive sgn.
func sgn(b bool) float64 {
	if b {
		return 1
	}
	return -1
}

func iround(v float64) int {
	return int(math.Round(v))
}
