/*
DESCRIPTION
  corners.go implements CornersArrange, the four-corner-interpolated
  variant of the Arrange hex-lattice geometry.

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

package geom

// CornersArrange derives the MI lattice from four corner MI centers
// (left-top, right-top, left-bottom, right-bottom). Row and column strides
// are interpolated linearly between the corners.
type CornersArrange struct {
	size Size

	diameter  float64
	radius    float64
	direction bool
	upsample  int

	leftTop, rightTop   Point
	leftYUnitShift      Point
	rightYUnitShift     Point
	miCols              [2]int
	miRows              int
	isOutShift          bool
	isKepler            bool
	isMultiFocus        bool
	nearFocalLenType    int
}

// NewCornersArrange builds a CornersArrange from raw calibration values, in
// image pixels, before any upsampling.
func NewCornersArrange(size Size, diameter float64, direction bool, leftTop, rightTop, leftBottom, rightBottom Point, isKepler, isMultiFocus bool, nearFocalLenType int) *CornersArrange {
	if direction {
		leftTop.X, leftTop.Y = leftTop.Y, leftTop.X
		rightBottom.X, rightBottom.Y = rightBottom.Y, rightBottom.X
		rightTop.X, rightTop.Y = rightTop.Y, rightTop.X
		leftBottom.X, leftBottom.Y = leftBottom.Y, leftBottom.X
		size.W, size.H = size.H, size.W
	}

	a := &CornersArrange{
		size:             size,
		diameter:         diameter,
		radius:           diameter / 2,
		direction:        direction,
		upsample:         1,
		leftTop:          leftTop,
		rightTop:         rightTop,
		isKepler:         isKepler,
		isMultiFocus:     isMultiFocus,
		nearFocalLenType: nearFocalLenType,
	}

	topXShift := Point{rightTop.X - leftTop.X, rightTop.Y - leftTop.Y}
	topCols := iround(vecLen(topXShift)/diameter) + 1
	topXUnitShift := Point{topXShift.X / float64(topCols-1), topXShift.Y / float64(topCols-1)}

	a.isOutShift = leftTop.X >= topXUnitShift.X

	a.miCols = [2]int{topCols, topCols}
	if a.isOutShift {
		mi10X := leftTop.X - topXUnitShift.X/2
		if mi10X+topXUnitShift.X*float64(topCols) < float64(size.W) {
			a.miCols[1]++
		}
	} else {
		mi10X := leftTop.X + topXUnitShift.X/2
		if mi10X+topXUnitShift.X*float64(topCols) >= float64(size.W) {
			a.miCols[1]--
		}
	}

	leftYShift := Point{leftBottom.X - leftTop.X, leftBottom.Y - leftTop.Y}
	approxYUnitShift := diameter * sqrt3 / 2
	leftYRows := iround(vecLen(leftYShift)/approxYUnitShift) + 1
	a.leftYUnitShift = Point{leftYShift.X / float64(leftYRows-1), leftYShift.Y / float64(leftYRows-1)}
	a.miRows = int((float64(size.H)-diameter/2-leftTop.Y)/a.leftYUnitShift.Y) + 1

	rightYShift := Point{rightBottom.X - rightTop.X, rightBottom.Y - rightTop.Y}
	a.rightYUnitShift = Point{rightYShift.X / float64(leftYRows-1), rightYShift.Y / float64(leftYRows-1)}

	return a
}

const sqrt3 = 1.7320508075688772

func vecLen(p Point) float64 {
	return sqrt(p.X*p.X + p.Y*p.Y)
}

func (a *CornersArrange) MICenter(row, col int) Point {
	left := Point{a.leftTop.X + a.leftYUnitShift.X*float64(row), a.leftTop.Y + a.leftYUnitShift.Y*float64(row)}
	right := Point{a.rightTop.X + a.rightYUnitShift.X*float64(row), a.rightTop.Y + a.rightYUnitShift.Y*float64(row)}
	cols := a.miCols[0]
	xUnitShift := Point{(right.X - left.X) / float64(cols-1), (right.Y - left.Y) / float64(cols-1)}
	center := Point{left.X + xUnitShift.X*float64(col), left.Y + xUnitShift.Y*float64(col)}

	if row%2 == 1 {
		s := sgn(a.isOutShift)
		center.X -= xUnitShift.X / 2 * s
		center.Y -= xUnitShift.Y / 2 * s
	}
	return center
}

func (a *CornersArrange) MIRows() int { return a.miRows }

func (a *CornersArrange) MICols(row int) int {
	if row%2 == 0 {
		return a.miCols[0]
	}
	return a.miCols[1]
}

func (a *CornersArrange) MIMaxCols() int {
	if a.miCols[0] >= a.miCols[1] {
		return a.miCols[0]
	}
	return a.miCols[1]
}

func (a *CornersArrange) Diameter() float64       { return a.diameter }
func (a *CornersArrange) Radius() float64         { return a.radius }
func (a *CornersArrange) Direction() bool         { return a.direction }
func (a *CornersArrange) IsOutShift() bool        { return a.isOutShift }
func (a *CornersArrange) UpsampleFactor() int     { return a.upsample }
func (a *CornersArrange) Size() Size              { return a.size }
func (a *CornersArrange) IsKepler() bool          { return a.isKepler }
func (a *CornersArrange) IsMultiFocus() bool      { return a.isMultiFocus }
func (a *CornersArrange) NearFocalLenType() int   { return a.nearFocalLenType }

// Upsample returns a new CornersArrange with every linear dimension scaled
// by factor. Upsample(1) is the identity.
func (a *CornersArrange) Upsample(factor int) Arrange {
	f := float64(factor)
	b := *a
	b.size = Size{a.size.W * factor, a.size.H * factor}
	b.diameter *= f
	b.radius *= f
	b.leftTop = Point{a.leftTop.X * f, a.leftTop.Y * f}
	b.rightTop = Point{a.rightTop.X * f, a.rightTop.Y * f}
	b.leftYUnitShift = Point{a.leftYUnitShift.X * f, a.leftYUnitShift.Y * f}
	b.rightYUnitShift = Point{a.rightYUnitShift.X * f, a.rightYUnitShift.Y * f}
	b.upsample = a.upsample * factor
	return &b
}
