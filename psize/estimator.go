/*
DESCRIPTION
  estimator.go defines the Estimator interface and the shared
  Params/helpers both patchsize estimator variants use.

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

package psize

import (
	"github.com/ausocean/lightfield/geom"
)

// Params configures an Estimator, gathering the calibration-derived
// constants spec §4.3 and §6.1 reference.
type Params struct {
	MinPsize float64 // lower bound on patchsize, in pixels (post-upsample)
	MaxPsize float64 // upper bound on patchsize (exclusive), in pixels

	// ShortcutThreshold is the maximum dhash Hamming distance for temporal
	// reuse. Both the Census and the SSIM estimator use it.
	ShortcutThreshold int

	// ShortcutSSIMFactor carries the SSIM-ratio shortcut setting. Neither
	// estimator reads it: the SSIM estimator's temporal reuse is decided
	// by ShortcutThreshold, not by an SSIM comparison of central crops.
	ShortcutSSIMFactor float64
}

// Estimator assigns every MI a patchsize, updating bridge in place. Both
// the Census+Hamming and SSIM variants implement this (spec §9 Open
// Question 3).
type Estimator interface {
	// UpdateBridge swaps bridge's temporal cache, refreshes buffers from
	// the current frame's Y plane, and computes a new patchsize for every
	// MI, in parallel across MIs.
	UpdateBridge(y Plane, bridge *Bridge) error
}

// Plane is the minimal surface an Estimator needs from a working-resolution
// Y plane; satisfied by *gocv.Mat via mibuf.Buffers.Update.
type Plane = interface {
	Rows() int
	Cols() int
}

// nominalPatchsize is substituted for an MI whose estimation failed inside
// the parallel pass (spec §7: "the overall frame succeeds with a nominal
// patchsize (previous-frame value or minPsize)").
func nominalPatchsize(prev Info, p Params) float64 {
	if prev.Patchsize > 0 {
		return prev.Patchsize
	}
	return p.MinPsize
}

// clampPsize clamps v into [p.MinPsize, p.MaxPsize).
func clampPsize(v float64, p Params) float64 {
	if v < p.MinPsize {
		return p.MinPsize
	}
	if v >= p.MaxPsize {
		return p.MaxPsize - 1
	}
	return v
}

// neighborSet returns, for index, the near or far neighbor set to search,
// per spec §4.3's near-focal-type rule: MIs of the rig's "near focal" lens
// type search far neighbors (they share the far focal plane); all others
// search near neighbors.
func neighborSet(arrange geom.Arrange, index MIIndex) (near NearNeighbors, far FarNeighbors, useFar bool) {
	useFar = arrange.IsMultiFocus() && isNearFocalType(arrange, index)
	if useFar {
		far = NewFarNeighbors(arrange, index)
	} else {
		near = NewNearNeighbors(arrange, index)
	}
	return near, far, useFar
}

// isNearFocalType reports whether the MI at index belongs to the rig's
// near-focal lens-position class. Multi-focus rigs interleave lens types
// by MI position and the out-shift flag (spec glossary "Multi-focus");
// NearFocalLenType selects which of the three interleaved classes counts
// as "near".
func isNearFocalType(arrange geom.Arrange, index MIIndex) bool {
	return lensType(arrange, index) == arrange.NearFocalLenType()
}

// lenTypeNum is the number of interleaved focal-length classes a
// multi-focus rig's lenslets are drawn from.
const lenTypeNum = 3

// lensType returns which of the lenTypeNum interleaved focal-length
// classes the MI at index belongs to: even rows type by column directly
// (col%3); odd rows shift the assignment by (2 - isOutShift) so the
// three types still interleave correctly when the row itself is
// column-shifted relative to its neighbors. Grounded on MITypes in
// mitypes.hpp.
func lensType(arrange geom.Arrange, index MIIndex) int {
	col := index.Col % lenTypeNum
	if index.Row%2 == 0 {
		return col
	}
	outShift := 0
	if arrange.IsOutShift() {
		outShift = 1
	}
	return ((col+2-outShift)%lenTypeNum + lenTypeNum) % lenTypeNum
}
