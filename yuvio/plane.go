/*
DESCRIPTION
  plane.go implements the byte-copy helpers moving raw plane data
  between a Frame's gocv.Mat planes and flat YUV byte buffers.

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

// copyInto copies buf byte-for-byte into m's backing storage. m must
// already be sized to exactly len(buf) bytes (an 8-bit single-channel Mat
// of the matching rows/cols).
func copyInto(m *gocv.Mat, buf []byte) error {
	dst, err := m.DataPtrUint8()
	if err != nil {
		return errkind.Wrap(errkind.InvalidParam, "plane is not 8-bit single-channel: "+err.Error())
	}
	if len(dst) != len(buf) {
		return errkind.Wrapf(errkind.InvalidParam, "plane is %d bytes, source is %d bytes", len(dst), len(buf))
	}
	copy(dst, buf)
	return nil
}

// copyFrom copies m's backing storage byte-for-byte into buf, the inverse
// of copyInto, used by Writer.Write.
func copyFrom(m *gocv.Mat, buf []byte) error {
	src, err := m.DataPtrUint8()
	if err != nil {
		return errkind.Wrap(errkind.InvalidParam, "plane is not 8-bit single-channel: "+err.Error())
	}
	if len(src) != len(buf) {
		return errkind.Wrapf(errkind.InvalidParam, "plane is %d bytes, destination is %d bytes", len(src), len(buf))
	}
	copy(buf, src)
	return nil
}
