/*
DESCRIPTION
  extent.go describes the byte layout of a single YUV420p-family frame:
  plane dimensions, sample depth, and chroma subsampling shifts.

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

// Package yuvio provides the YUV planar frame types and the file-based
// Reader/Writer the rendering engine's driver loop uses to pull input
// frames and push per-view output frames. It is the engine's thin I/O
// shim, analogous to the teacher's device/file AVDevice.
package yuvio

// Extent describes the immutable byte layout of one YUV planar frame. U
// and V plane dimensions are derived from the Y plane by right-shifting
// with UShift/VShift: width>>UShift, height>>UShift, and likewise for V.
// It is bit-exact with YUV420p8bit when Depth==1 and UShift==VShift==1.
type Extent struct {
	YWidth, YHeight int
	Depth           int // bytes per sample: 1 (8-bit) or 2 (16-bit)
	UShift, VShift  int
}

// NewYUV420p8Extent returns the Extent for a standard 8-bit YUV420p frame
// of the given Y-plane size.
func NewYUV420p8Extent(w, h int) Extent {
	return Extent{YWidth: w, YHeight: h, Depth: 1, UShift: 1, VShift: 1}
}

// UWidth returns the U plane width in samples.
func (e Extent) UWidth() int { return e.YWidth >> e.UShift }

// UHeight returns the U plane height in samples.
func (e Extent) UHeight() int { return e.YHeight >> e.UShift }

// VWidth returns the V plane width in samples.
func (e Extent) VWidth() int { return e.YWidth >> e.VShift }

// VHeight returns the V plane height in samples.
func (e Extent) VHeight() int { return e.YHeight >> e.VShift }

// YSize returns the Y plane's size in bytes.
func (e Extent) YSize() int { return e.YWidth * e.YHeight * e.Depth }

// USize returns the U plane's size in bytes.
func (e Extent) USize() int { return e.UWidth() * e.UHeight() * e.Depth }

// VSize returns the V plane's size in bytes.
func (e Extent) VSize() int { return e.VWidth() * e.VHeight() * e.Depth }

// FrameSize returns the total byte size of one frame: Y+U+V planes.
func (e Extent) FrameSize() int { return e.YSize() + e.USize() + e.VSize() }

// Upsampled returns the Extent with the Y plane scaled by upsample and the
// shifts unchanged, so each chroma plane is also scaled by upsample only
// (it stays UShift/VShift smaller than Y). The Common Cache's working
// planes, whose chroma is scaled by upsample<<shift, are not described by
// this Extent.
func (e Extent) Upsampled(upsample int) Extent {
	return Extent{
		YWidth:  e.YWidth * upsample,
		YHeight: e.YHeight * upsample,
		Depth:   e.Depth,
		UShift:  e.UShift,
		VShift:  e.VShift,
	}
}
