/*
DESCRIPTION
  cache.go implements the Common Cache stage of spec.md §4.5 step 1: it
  holds the three raw input planes' upsampled, working-resolution
  counterparts, reused every frame.

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

package manager

import (
	"image"

	"github.com/ausocean/lightfield/errkind"
	"github.com/ausocean/lightfield/yuvio"
	"gocv.io/x/gocv"
)

// commonCache owns the three working-resolution planes a frame is
// upsampled into before MI-buffer population, patchsize estimation, and
// rendering. Allocated once per Manager and reused every frame, matching
// spec.md §3's "all per-frame allocations happen inside reusable
// buffers" lifecycle note.
type commonCache struct {
	work      *yuvio.Frame
	direction bool
}

// newCommonCache allocates the working-resolution Frame for raw, sized per
// spec.md §4.5's per-channel upsample rule: Y by upsample, U by
// upsample<<UShift, V by upsample<<VShift. direction selects whether
// update transposes each raw plane before resizing, to normalize the MI
// lattice orientation per spec.md §4.1's transpose-flag rule.
func newCommonCache(raw yuvio.Extent, upsample int, direction bool) (*commonCache, error) {
	yW, yH := raw.YWidth*upsample, raw.YHeight*upsample
	uW, uH := raw.UWidth()*(upsample<<raw.UShift), raw.UHeight()*(upsample<<raw.UShift)
	vW, vH := raw.VWidth()*(upsample<<raw.VShift), raw.VHeight()*(upsample<<raw.VShift)
	if direction {
		yW, yH = yH, yW
		uW, uH = uH, uW
		vW, vH = vH, vW
	}

	work := &yuvio.Frame{}
	y := gocv.NewMatWithSize(yH, yW, gocv.MatTypeCV8U)
	u := gocv.NewMatWithSize(uH, uW, gocv.MatTypeCV8U)
	v := gocv.NewMatWithSize(vH, vW, gocv.MatTypeCV8U)
	if y.Empty() || u.Empty() || v.Empty() {
		y.Close()
		u.Close()
		v.Close()
		return nil, errkind.Wrap(errkind.OutOfMemory, "allocating common cache working planes")
	}
	work.Y, work.U, work.V = y, u, v
	work.Extent = yuvio.Extent{YWidth: yW, YHeight: yH, Depth: raw.Depth, UShift: raw.UShift, VShift: raw.VShift}

	return &commonCache{work: work, direction: direction}, nil
}

// update repopulates the working planes from src, transposing first if
// direction is set, per spec.md §4.5 step 1.
func (c *commonCache) update(src *yuvio.Frame) error {
	if err := resizePlane(&src.Y, &c.work.Y, c.direction); err != nil {
		return err
	}
	if err := resizePlane(&src.U, &c.work.U, c.direction); err != nil {
		return err
	}
	if err := resizePlane(&src.V, &c.work.V, c.direction); err != nil {
		return err
	}
	return nil
}

// resizePlane writes src, optionally transposed, into dst at dst's
// existing size.
func resizePlane(src, dst *gocv.Mat, transpose bool) error {
	in := src
	var transposed gocv.Mat
	if transpose {
		transposed = gocv.NewMat()
		defer transposed.Close()
		gocv.Transpose(*src, &transposed)
		in = &transposed
	}
	gocv.Resize(*in, dst, image.Pt(dst.Cols(), dst.Rows()), 0, 0, gocv.InterpolationLinear)
	if dst.Empty() {
		return errkind.Wrap(errkind.OutOfMemory, "resizing common cache plane")
	}
	return nil
}

// close releases the working Frame's planes.
func (c *commonCache) close() error {
	return c.work.Close()
}
