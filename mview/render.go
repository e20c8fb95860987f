/*
DESCRIPTION
  render.go implements the per-view tiling/blend/crop/resize algorithm of
  spec.md §4.4: every MI's patch, extracted at its estimated patchsize and
  shifted for the requested view, is tiled onto a shared float accumulator
  canvas through a radial fade-out mask, then normalized and resized down
  to the output frame.

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

package mview

import (
	"image"
	"sync"

	"github.com/ausocean/lightfield/errkind"
	"github.com/ausocean/lightfield/geom"
	"github.com/ausocean/lightfield/psize"
	"github.com/ausocean/lightfield/yuvio"
	"github.com/ausocean/utils/logging"
	"gocv.io/x/gocv"
)

// channel bundles one Y/U/V plane's fixed geometry and reusable scratch
// canvases.
type channel struct {
	arrange      geom.Arrange
	params       Params
	cache        *Cache
	diameterRatio float64 // this channel's diameter / the Y channel's diameter
}

// Renderer renders output views from a PatchMergeBridge, holding one
// channel's worth of scratch state per Y/U/V plane, allocated once (spec
// §5: "Canvases ... in MvCache are allocated once").
type Renderer struct {
	log      logging.Logger
	channels [3]*channel
}

// NewRenderer builds a Renderer from the three channels' working-resolution
// Arrange values (Y, U, V, each already upsampled to its own working
// resolution by the manager's CommonCache), plus view-grid and patchsize
// inflation parameters.
func NewRenderer(log logging.Logger, arranges [3]geom.Arrange, views int, psizeInflate, viewShiftRangeFactor float64) *Renderer {
	yDiameter := arranges[0].Diameter()
	r := &Renderer{log: log}
	for i, a := range arranges {
		p := NewParams(a, views, psizeInflate, viewShiftRangeFactor)
		r.channels[i] = &channel{
			arrange:       a,
			params:        p,
			cache:         NewCache(p),
			diameterRatio: a.Diameter() / yDiameter,
		}
	}
	return r
}

// Close releases every channel's scratch canvases.
func (r *Renderer) Close() {
	for _, c := range r.channels {
		c.cache.Close()
	}
}

// OutputSize returns the output frame dimensions every RenderView call
// produces (the same for every view coordinate and, per spec.md §6.3,
// every channel of a given view's output file).
func (r *Renderer) OutputSize() (width, height int) {
	return r.channels[0].params.OutputWidth, r.channels[0].params.OutputHeight
}

// RenderView fills dst with view (viewRow, viewCol), reading patches from
// src and patchsizes/weights from bridge. The three channels render in
// parallel, matching spec §5's "serialize the inner loop ... parallelize
// across channels" scheduling note.
func (r *Renderer) RenderView(bridge *psize.Bridge, src, dst *yuvio.Frame, viewRow, viewCol int) error {
	var wg sync.WaitGroup
	errs := make([]error, 3)
	wg.Add(3)
	for i := 0; i < 3; i++ {
		go func(i int) {
			defer wg.Done()
			errs[i] = r.channels[i].render(bridge, src.Plane(i), dst.Plane(i), viewRow, viewCol)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// render runs spec §4.4's per-channel algorithm for one channel.
func (c *channel) render(bridge *psize.Bridge, src, dst *gocv.Mat, viewRow, viewCol int) error {
	if src.Type() != gocv.MatTypeCV8U {
		return errkind.Wrap(errkind.InvalidParam, "renderer requires an 8-bit single-channel plane")
	}
	c.cache.Reset()

	shiftX, shiftY := c.params.ViewShift(viewRow, viewCol)
	bounds := image.Rect(0, 0, src.Cols(), src.Rows())

	for row := 0; row < c.arrange.MIRows(); row++ {
		cols := c.arrange.MICols(row)
		for col := 0; col < cols; col++ {
			c.accumulatePatch(bridge, src, row, col, shiftX, shiftY, bounds)
		}
	}

	return c.finish(dst)
}

// accumulatePatch extracts, resizes, fades, and accumulates one MI's patch
// into the channel's render/weight canvases (spec §4.4 step 2).
func (c *channel) accumulatePatch(bridge *psize.Bridge, src *gocv.Mat, row, col int, shiftX, shiftY float64, bounds image.Rectangle) {
	center := c.arrange.MICenter(row, col)
	cx := center.X + shiftX
	cy := center.Y + shiftY

	psizePx := c.params.PsizeInflate * bridge.Patchsize(row, col) * c.diameterRatio
	if psizePx < 1 {
		return
	}
	half := psizePx / 2
	roi := image.Rect(iround(cx-half), iround(cy-half), iround(cx-half)+iround(psizePx), iround(cy-half)+iround(psizePx))
	if roi.Dx() <= 0 || roi.Dy() <= 0 || !roi.In(bounds) {
		return
	}

	region := src.Region(roi)
	patch := region.Clone()
	region.Close()
	defer patch.Close()

	if c.params.IsKepler {
		gocv.Rotate(patch, &patch, gocv.Rotate180Clockwise)
	}

	resized := gocv.NewMat()
	defer resized.Close()
	width := c.params.ResizedPatchWidth
	gocv.Resize(patch, &resized, image.Pt(width, width), 0, 0, gocv.InterpolationLinear)

	weight := bridge.Weight(row, col)
	dstX, dstY := c.params.DstOrigin(row, col)

	for i := 0; i < width; i++ {
		dr := dstY + i
		if dr < 0 || dr >= c.cache.Render.Rows() {
			continue
		}
		for j := 0; j < width; j++ {
			dc := dstX + j
			if dc < 0 || dc >= c.cache.Render.Cols() {
				continue
			}
			fade := float64(c.cache.FadeMask.GetFloatAt(i, j))
			val := float64(resized.GetUCharAt(i, j))

			rv := c.cache.Render.GetFloatAt(dr, dc)
			wv := c.cache.Weight.GetFloatAt(dr, dc)
			c.cache.Render.SetFloatAt(dr, dc, rv+float32(val*fade*weight))
			c.cache.Weight.SetFloatAt(dr, dc, wv+float32(fade*weight))
		}
	}
}

// finish crops, normalizes, resizes, and (if transposed) writes the
// channel's render canvas into dst (spec §4.4 steps 3-4).
func (c *channel) finish(dst *gocv.Mat) error {
	const eps = 1e-6
	roi := c.params.CropROI
	bounds := image.Rect(0, 0, c.cache.Render.Cols(), c.cache.Render.Rows())
	roi = roi.Intersect(bounds)
	if roi.Dx() <= 0 || roi.Dy() <= 0 {
		return errkind.Wrap(errkind.InvalidParam, "empty render crop region")
	}

	normalized := gocv.NewMatWithSize(roi.Dy(), roi.Dx(), gocv.MatTypeCV8U)
	defer normalized.Close()

	renderCrop := c.cache.Render.Region(roi)
	defer renderCrop.Close()
	weightCrop := c.cache.Weight.Region(roi)
	defer weightCrop.Close()

	for row := 0; row < roi.Dy(); row++ {
		for col := 0; col < roi.Dx(); col++ {
			w := float64(weightCrop.GetFloatAt(row, col)) + eps
			v := float64(renderCrop.GetFloatAt(row, col)) / w
			normalized.SetUCharAt(row, col, clampByte(v))
		}
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(normalized, &resized, image.Pt(c.params.OutputWidth, c.params.OutputHeight), 0, 0, gocv.InterpolationLinear)

	if c.arrange.Direction() {
		gocv.Transpose(resized, dst)
		return nil
	}
	resized.CopyTo(dst)
	return nil
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
