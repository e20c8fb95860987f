/*
DESCRIPTION
  frame.go implements Frame, the three-plane YUV420p-family image
  buffer the rendering engine reads input from and writes output to.

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

package yuvio

import (
	"github.com/ausocean/lightfield/errkind"
	"gocv.io/x/gocv"
)

// Frame owns one YUV frame: three gocv.Mat planes, one single-channel
// matrix each (8-bit, or 16-bit when Extent.Depth is 2). Backing each plane with a gocv.Mat (rather than a bespoke
// aligned byte slice, as the original C++ source does) gets SIMD-aligned,
// independently-strided storage for free from OpenCV's own allocator, and
// lets every downstream stage (Census, Sobel, resize, rotate, transpose)
// operate on the plane directly with gocv ops instead of a manual copy-in.
type Frame struct {
	Extent Extent
	Y, U, V gocv.Mat
}

// NewFrame allocates a new zeroed Frame for the given extent.
func NewFrame(e Extent) (*Frame, error) {
	matType := gocv.MatTypeCV8U
	if e.Depth == 2 {
		matType = gocv.MatTypeCV16U
	}
	y := gocv.NewMatWithSize(e.YHeight, e.YWidth, matType)
	u := gocv.NewMatWithSize(e.UHeight(), e.UWidth(), matType)
	v := gocv.NewMatWithSize(e.VHeight(), e.VWidth(), matType)
	if y.Empty() || u.Empty() || v.Empty() {
		y.Close()
		u.Close()
		v.Close()
		return nil, errkind.Wrap(errkind.OutOfMemory, "allocating YUV frame planes")
	}
	return &Frame{Extent: e, Y: y, U: u, V: v}, nil
}

// FromBytes builds a Frame whose planes alias buf: buf must hold exactly
// Extent.FrameSize() bytes laid out Y, then U, then V, row-major.
func FromBytes(e Extent, buf []byte) (*Frame, error) {
	if len(buf) != e.FrameSize() {
		return nil, errkind.Wrapf(errkind.InvalidParam, "buffer is %d bytes, want %d", len(buf), e.FrameSize())
	}
	matType := gocv.MatTypeCV8U
	if e.Depth == 2 {
		matType = gocv.MatTypeCV16U
	}

	ySize := e.YSize()
	uSize := e.USize()

	y, err := gocv.NewMatFromBytes(e.YHeight, e.YWidth, matType, buf[:ySize])
	if err != nil {
		return nil, errkind.Wrap(errkind.InvalidParam, "building Y plane: "+err.Error())
	}
	u, err := gocv.NewMatFromBytes(e.UHeight(), e.UWidth(), matType, buf[ySize:ySize+uSize])
	if err != nil {
		y.Close()
		return nil, errkind.Wrap(errkind.InvalidParam, "building U plane: "+err.Error())
	}
	v, err := gocv.NewMatFromBytes(e.VHeight(), e.VWidth(), matType, buf[ySize+uSize:])
	if err != nil {
		y.Close()
		u.Close()
		return nil, errkind.Wrap(errkind.InvalidParam, "building V plane: "+err.Error())
	}

	return &Frame{Extent: e, Y: y, U: u, V: v}, nil
}

// Close releases the gocv-backed plane storage. Must be called exactly
// once per Frame obtained from NewFrame or FromBytes, matching the
// teacher's gocv.Mat Close() convention (filter.MOG.Close).
func (f *Frame) Close() error {
	f.Y.Close()
	f.U.Close()
	f.V.Close()
	return nil
}

// Plane returns the plane at index 0 (Y), 1 (U), or 2 (V).
func (f *Frame) Plane(i int) *gocv.Mat {
	switch i {
	case 0:
		return &f.Y
	case 1:
		return &f.U
	default:
		return &f.V
	}
}
