/*
DESCRIPTION
  params.go derives the fixed per-run geometry of the multi-view renderer
  from the working-resolution Arrange and a handful of calibration
  constants: canvas size, patch extraction/resize dimensions, view shift
  step, and output crop/resize sizes.

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

// Package mview renders a V x V grid of output views from per-MI
// patchsizes and weights, by tiling resized patches onto a shared
// accumulator canvas and blending with a radial fade-out mask.
package mview

import (
	"image"

	"github.com/ausocean/lightfield/geom"
)

// ContentSafeRatio is the fraction of the MI diameter trusted as free of
// neighbor bleed-through, matching mibuf.CensusSafeRatio's role for the
// renderer's patch geometry.
const ContentSafeRatio = 0.9

// GradientBlendingBegin is the radius fraction (of the patch's circular
// disc) at which the fade-out mask starts tapering from 1.0 toward 0.
const GradientBlendingBegin = 0.25

// Params holds the derived, fixed-per-run geometry for one Arrange (spec
// §4.4 "Derived parameters").
type Params struct {
	Views int

	SafeDiameter float64
	PatchXShift  float64
	PatchYShift  float64

	PsizeInflate       float64
	ResizedPatchWidth  int
	ViewShiftRange     float64
	ViewInterval       float64

	MIMaxCols int
	MIRows    int

	CanvasWidth  int
	CanvasHeight int

	CropROI image.Rectangle

	Upsample     int
	OutputWidth  int
	OutputHeight int

	IsOutShift bool
	IsKepler   bool
}

// NewParams derives Params for arrange, the requested view grid size, the
// patchsize inflation factor, and the view-shift-range fraction (spec
// §4.4). arrange must already be at working (upsampled) resolution.
func NewParams(arrange geom.Arrange, views int, psizeInflate, viewShiftRangeFactor float64) Params {
	diameter := arrange.Diameter()
	safeDiameter := diameter * ContentSafeRatio
	patchXShift := 0.37 * diameter
	patchYShift := patchXShift * 0.8660254037844386

	resizedPatchWidth := iround(patchXShift * psizeInflate)

	viewShiftRange := safeDiameter * viewShiftRangeFactor
	viewInterval := 0.0
	if views > 1 {
		viewInterval = viewShiftRange / float64(views-1)
	}

	maxCols := arrange.MIMaxCols()
	rows := arrange.MIRows()

	canvasWidth := iround(float64(maxCols)*patchXShift) + resizedPatchWidth
	canvasHeight := iround(float64(rows)*patchYShift) + resizedPatchWidth

	cropLeft := iround(1.5 * patchXShift)
	cropTop := cropLeft
	cropRight := canvasWidth - iround(float64(resizedPatchWidth)+patchXShift/2)
	cropBottom := canvasHeight - iround(float64(resizedPatchWidth)+patchXShift/2)
	if cropRight < cropLeft {
		cropRight = cropLeft
	}
	if cropBottom < cropTop {
		cropBottom = cropTop
	}
	cropROI := image.Rect(cropLeft, cropTop, cropRight, cropBottom)

	upsample := arrange.UpsampleFactor()
	if upsample < 1 {
		upsample = 1
	}
	outputWidth := roundTo2(cropROI.Dx() / upsample)
	outputHeight := roundTo2(cropROI.Dy() / upsample)

	return Params{
		Views:             views,
		SafeDiameter:      safeDiameter,
		PatchXShift:       patchXShift,
		PatchYShift:       patchYShift,
		PsizeInflate:      psizeInflate,
		ResizedPatchWidth: resizedPatchWidth,
		ViewShiftRange:    viewShiftRange,
		ViewInterval:      viewInterval,
		MIMaxCols:         maxCols,
		MIRows:            rows,
		CanvasWidth:       canvasWidth,
		CanvasHeight:      canvasHeight,
		CropROI:           cropROI,
		Upsample:          upsample,
		OutputWidth:       outputWidth,
		OutputHeight:      outputHeight,
		IsOutShift:        arrange.IsOutShift(),
		IsKepler:          arrange.IsKepler(),
	}
}

// ViewShift returns the (x, y) canvas-space shift for view (viewRow,
// viewCol), measured from the view (Views/2, Views/2), which gets zero
// shift (spec §4.4 step 2).
func (p Params) ViewShift(viewRow, viewCol int) (x, y float64) {
	x = float64(viewCol-p.Views/2) * p.ViewInterval
	y = float64(viewRow-p.Views/2) * p.ViewInterval
	return x, y
}

// DstOrigin returns the top-left canvas coordinate for the (row, col) MI's
// resized patch tile, applying the odd/even row interleave shift.
func (p Params) DstOrigin(row, col int) (x, y int) {
	rightShift := 0.0
	if xorBool(row&1 != 0, p.IsOutShift) {
		rightShift = p.PatchXShift / 2
	}
	x = iround(float64(col)*p.PatchXShift + rightShift)
	y = iround(float64(row) * p.PatchYShift)
	return x, y
}

func xorBool(a, b bool) bool { return a != b }

func iround(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return -int(-v + 0.5)
}

// roundTo2 rounds v to the nearest even integer, per spec.md's
// roundTo<2>(cropSize / upsample) output-size rule.
func roundTo2(v int) int {
	if v%2 != 0 {
		return v + 1
	}
	return v
}
