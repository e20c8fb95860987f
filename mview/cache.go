/*
DESCRIPTION
  cache.go implements Cache: the renderer's per-channel scratch
  canvases and radial fade-out mask, allocated once and reused every
  frame (spec.md §5).

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

package mview

import (
	"math"

	"gocv.io/x/gocv"
)

// Cache holds the renderer's per-channel scratch buffers, allocated once
// and reused every frame: the float accumulator canvases and the radial
// fade-out (gradient-blending) mask applied to every extracted patch
// (spec §4.4 step 2, §5 "Canvases and the gradient-blending mask in
// MvCache are allocated once").
type Cache struct {
	Render gocv.Mat
	Weight gocv.Mat

	// FadeMask is a ResizedPatchWidth x ResizedPatchWidth float32 mask, 1.0
	// at the center tapering smoothly to 0 at the disc boundary starting at
	// GradientBlendingBegin.
	FadeMask gocv.Mat

	params Params
}

// NewCache allocates a Cache sized from params.
func NewCache(params Params) *Cache {
	render := gocv.NewMatWithSize(params.CanvasHeight, params.CanvasWidth, gocv.MatTypeCV32F)
	weight := gocv.NewMatWithSize(params.CanvasHeight, params.CanvasWidth, gocv.MatTypeCV32F)
	mask := buildFadeMask(params.ResizedPatchWidth)
	return &Cache{Render: render, Weight: weight, FadeMask: mask, params: params}
}

// Close releases the canvases and mask.
func (c *Cache) Close() {
	c.Render.Close()
	c.Weight.Close()
	c.FadeMask.Close()
}

// Reset zeroes both accumulator canvases, to be called once per view
// before the MI accumulation pass (spec §4.4 step 1).
func (c *Cache) Reset() {
	c.Render.SetTo(gocv.NewScalar(0, 0, 0, 0))
	c.Weight.SetTo(gocv.NewScalar(0, 0, 0, 0))
}

// buildFadeMask builds the circleWithFadeoutBorder mask: 1.0 for
// r/radius <= GradientBlendingBegin, linearly tapering to 0 at
// r/radius == 1, 0 beyond the disc.
func buildFadeMask(width int) gocv.Mat {
	mask := gocv.NewMatWithSize(width, width, gocv.MatTypeCV32F)
	if width <= 0 {
		return mask
	}
	radius := float64(width) / 2
	cx, cy := radius, radius
	begin := GradientBlendingBegin

	for row := 0; row < width; row++ {
		dy := (float64(row) + 0.5 - cy) / radius
		for col := 0; col < width; col++ {
			dx := (float64(col) + 0.5 - cx) / radius
			r := math.Sqrt(dx*dx + dy*dy)
			var v float32
			switch {
			case r <= begin:
				v = 1
			case r < 1:
				v = float32(1 - (r-begin)/(1-begin))
			default:
				v = 0
			}
			mask.SetFloatAt(row, col, v)
		}
	}
	return mask
}
