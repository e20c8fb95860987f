/*
DESCRIPTION
  neighbors.go computes the six near-neighbor and six far-neighbor MI index
  sets on the hex lattice, and the unit shift vector associated with each
  match direction.

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

// Package psize implements the per-MI patchsize estimator (spec §4.3): it
// assigns every MI a patchsize in [minPsize, maxPsize), the weighted
// average of the best integer candidate found against each neighbor MI,
// with a one-frame temporal cache keyed by dhash.
package psize

import "github.com/ausocean/lightfield/geom"

// Direction names one of the six hex-lattice match directions.
type Direction int

const (
	Left Direction = iota
	Right
	UpLeft
	UpRight
	DownLeft
	DownRight
)

var allDirections = [6]Direction{Left, Right, UpLeft, UpRight, DownLeft, DownRight}

// MIIndex is a (row, col) MI lattice index. A negative Row marks "no such
// neighbor" (boundary MI).
type MIIndex struct {
	Row, Col int
}

var noIndex = MIIndex{-1, -1}

func (i MIIndex) valid() bool { return i.Row >= 0 && i.Col >= 0 }

// NearNeighbors holds the up-to-six immediately hex-adjacent MI indices for
// one MI, keyed by Direction. Missing (boundary) neighbors hold noIndex.
type NearNeighbors struct {
	Self  MIIndex
	byDir map[Direction]MIIndex
}

// At returns the neighbor index in direction d, and whether it exists.
func (n NearNeighbors) At(d Direction) (MIIndex, bool) {
	idx, ok := n.byDir[d]
	return idx, ok && idx.valid()
}

// NewNearNeighbors computes the near-neighbor set for index on arrange.
// Grounded on the original source's NearNeighbors_::fromArrangeAndIndex:
// left/right are same-row horizontal neighbors; up/down-left/right are
// picked by isOutShift-adjusted column offset on the adjacent row.
func NewNearNeighbors(arrange geom.Arrange, index MIIndex) NearNeighbors {
	n := NearNeighbors{Self: index, byDir: map[Direction]MIIndex{}}

	if index.Col > 0 {
		n.byDir[Left] = MIIndex{index.Row, index.Col - 1}
	}
	if index.Col < arrange.MICols(index.Row)-1 {
		n.byDir[Right] = MIIndex{index.Row, index.Col + 1}
	}

	isLeftRow := arrange.IsOutShift() != (index.Row%2 == 0)
	udLeftCol := index.Col
	if isLeftRow {
		udLeftCol--
	}
	udRightCol := udLeftCol + 1

	if index.Row > 0 {
		y := index.Row - 1
		if udLeftCol >= 0 {
			n.byDir[UpLeft] = MIIndex{y, udLeftCol}
		}
		if udRightCol < arrange.MICols(y) {
			n.byDir[UpRight] = MIIndex{y, udRightCol}
		}
	}
	if index.Row < arrange.MIRows()-1 {
		y := index.Row + 1
		if udLeftCol >= 0 {
			n.byDir[DownLeft] = MIIndex{y, udLeftCol}
		}
		if udRightCol < arrange.MICols(y) {
			n.byDir[DownRight] = MIIndex{y, udRightCol}
		}
	}
	return n
}

// FarNeighbors holds the up-to-six one-further-out MI indices: {up, down}
// at {-2,+2} rows same column, plus the four diagonal far neighbors at
// {-1,+1} rows with a 3-column-wide spread (udLeftCol-1 .. udLeftCol+2).
type FarNeighbors struct {
	Self  MIIndex
	byDir map[Direction]MIIndex
}

// Up and Down are reported via the same Direction-keyed map using
// UpLeft/UpRight/DownLeft/DownRight for the diagonal far pair and an
// internal key for the straight {-2,0}/{+2,0} far pair, exposed through Up
// and Down accessors below.
const (
	farUp Direction = iota + 100
	farDown
)

// At returns the far-neighbor index in diagonal direction d (only
// UpLeft/UpRight/DownLeft/DownRight are valid diagonal keys here).
func (n FarNeighbors) At(d Direction) (MIIndex, bool) {
	idx, ok := n.byDir[d]
	return idx, ok && idx.valid()
}

// Up returns the far neighbor two rows above, same column.
func (n FarNeighbors) Up() (MIIndex, bool) {
	idx, ok := n.byDir[farUp]
	return idx, ok && idx.valid()
}

// Down returns the far neighbor two rows below, same column.
func (n FarNeighbors) Down() (MIIndex, bool) {
	idx, ok := n.byDir[farDown]
	return idx, ok && idx.valid()
}

// NewFarNeighbors computes the far-neighbor set for index on arrange.
// Grounded on FarNeighbors_::fromArrangeAndIndex.
func NewFarNeighbors(arrange geom.Arrange, index MIIndex) FarNeighbors {
	n := FarNeighbors{Self: index, byDir: map[Direction]MIIndex{}}

	isLeftRow := arrange.IsOutShift() != (index.Row%2 == 0)
	udLeftCol := index.Col - 1
	if isLeftRow {
		udLeftCol--
	}
	udRightCol := udLeftCol + 3

	if index.Row > 0 {
		y := index.Row - 1
		if udLeftCol >= 0 {
			n.byDir[UpLeft] = MIIndex{y, udLeftCol}
		}
		if udRightCol < arrange.MICols(y) {
			n.byDir[UpRight] = MIIndex{y, udRightCol}
		}
		if index.Row > 1 {
			n.byDir[farUp] = MIIndex{index.Row - 2, index.Col}
		}
	}
	if index.Row < arrange.MIRows()-1 {
		y := index.Row + 1
		if udLeftCol >= 0 {
			n.byDir[DownLeft] = MIIndex{y, udLeftCol}
		}
		if udRightCol < arrange.MICols(y) {
			n.byDir[DownRight] = MIIndex{y, udRightCol}
		}
		if index.Row < arrange.MIRows()-2 {
			n.byDir[farDown] = MIIndex{index.Row + 2, index.Col}
		}
	}
	return n
}

// unitShift is the (x, y) unit vector for direction d, the step applied
// once per unit of patchsize when registering an MI against its neighbor
// in that direction (spec §4.3). Grounded on MatchSteps_ in the original
// source's match.hpp: X_UNIT_STEP=0.5, Y_UNIT_STEP=sqrt3/2 for the
// diagonal directions, (1,0) for left/right.
func unitShift(d Direction) (x, y float64) {
	const xUnit = 0.5
	const yUnit = 0.8660254037844386 // sqrt(3)/2
	switch d {
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	case UpLeft:
		return -xUnit, -yUnit
	case UpRight:
		return xUnit, -yUnit
	case DownLeft:
		return -xUnit, yUnit
	case DownRight:
		return xUnit, yUnit
	}
	return 0, 0
}
