/*
DESCRIPTION
  offset.go implements OffsetArrange, the single-center-offset
  variant of the Arrange hex-lattice geometry.

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

package geom

// OffsetArrange derives the MI lattice from a single central-MI offset
// plus a uniform hexagonal diameter. Column stride equals the diameter;
// row stride is diameter * sqrt3/2.
type OffsetArrange struct {
	size Size

	diameter  float64
	radius    float64
	direction bool
	upsample  int

	leftTop           Point
	xUnitShift        float64
	yUnitShift        float64
	miCols            [2]int
	miRows            int
	isOutShift        bool
	isKepler          bool
	isMultiFocus      bool
	nearFocalLenType  int
}

// NewOffsetArrange builds an OffsetArrange from raw calibration values, in
// image pixels, before any upsampling. offset is the central MI's
// displacement from the image center, in the original (pre-transpose)
// axes, with +Y meaning "up" (image-space Y is negated internally).
func NewOffsetArrange(size Size, diameter float64, direction bool, offset Point, isKepler, isMultiFocus bool, nearFocalLenType int) *OffsetArrange {
	centerMI := Point{float64(size.W)/2 + offset.X, float64(size.H)/2 - offset.Y}

	if direction {
		size.W, size.H = size.H, size.W
		centerMI.X, centerMI.Y = centerMI.Y, centerMI.X
	}

	a := &OffsetArrange{
		size:             size,
		diameter:         diameter,
		radius:           diameter / 2,
		direction:        direction,
		upsample:         1,
		isKepler:         isKepler,
		isMultiFocus:     isMultiFocus,
		nearFocalLenType: nearFocalLenType,
	}

	a.xUnitShift = diameter
	a.yUnitShift = diameter * sqrt3 / 2

	centerMIXIdx := int((centerMI.X - a.radius) / a.xUnitShift)
	centerMIYIdx := int((centerMI.Y - a.radius) / a.yUnitShift)

	leftX := centerMI.X - a.xUnitShift*float64(centerMIXIdx)
	if centerMIYIdx%2 == 0 {
		a.leftTop.X = leftX
		a.isOutShift = a.leftTop.X > diameter
	} else {
		if leftX > diameter {
			a.leftTop.X = leftX - a.radius
			a.isOutShift = false
		} else {
			a.leftTop.X = leftX + a.radius
			a.isOutShift = true
		}
	}
	a.leftTop.Y = centerMI.Y - floor((centerMI.Y-a.yUnitShift/2)/a.yUnitShift)*a.yUnitShift

	s := sgn(a.isOutShift)
	mi10X := a.leftTop.X - a.xUnitShift/2*s
	a.miCols[0] = int((float64(size.W)-a.leftTop.X-a.xUnitShift/2)/a.xUnitShift) + 1
	a.miCols[1] = int((float64(size.W)-mi10X-a.xUnitShift/2)/a.xUnitShift) + 1
	a.miRows = int((float64(size.H)-a.leftTop.Y-a.yUnitShift/2)/a.yUnitShift) + 1

	return a
}

func floor(v float64) float64 {
	i := int(v)
	if float64(i) > v {
		i--
	}
	return float64(i)
}

func (a *OffsetArrange) MICenter(row, col int) Point {
	center := Point{a.leftTop.X + a.xUnitShift*float64(col), a.leftTop.Y + a.yUnitShift*float64(row)}
	if row%2 == 1 {
		center.X -= a.xUnitShift / 2 * sgn(a.isOutShift)
	}
	return center
}

func (a *OffsetArrange) MIRows() int { return a.miRows }

func (a *OffsetArrange) MICols(row int) int {
	if row%2 == 0 {
		return a.miCols[0]
	}
	return a.miCols[1]
}

func (a *OffsetArrange) MIMaxCols() int {
	if a.miCols[0] >= a.miCols[1] {
		return a.miCols[0]
	}
	return a.miCols[1]
}

func (a *OffsetArrange) Diameter() float64     { return a.diameter }
func (a *OffsetArrange) Radius() float64       { return a.radius }
func (a *OffsetArrange) Direction() bool       { return a.direction }
func (a *OffsetArrange) IsOutShift() bool      { return a.isOutShift }
func (a *OffsetArrange) UpsampleFactor() int   { return a.upsample }
func (a *OffsetArrange) Size() Size            { return a.size }
func (a *OffsetArrange) IsKepler() bool        { return a.isKepler }
func (a *OffsetArrange) IsMultiFocus() bool    { return a.isMultiFocus }
func (a *OffsetArrange) NearFocalLenType() int { return a.nearFocalLenType }

// Upsample returns a new OffsetArrange with every linear dimension scaled
// by factor. Upsample(1) is the identity.
func (a *OffsetArrange) Upsample(factor int) Arrange {
	f := float64(factor)
	b := *a
	b.size = Size{a.size.W * factor, a.size.H * factor}
	b.diameter *= f
	b.radius *= f
	b.leftTop = Point{a.leftTop.X * f, a.leftTop.Y * f}
	b.xUnitShift *= f
	b.yUnitShift *= f
	b.upsample = a.upsample * factor
	return &b
}
