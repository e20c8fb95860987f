/*
DESCRIPTION
  reader.go implements Reader, the frame-at-a-time reader over a raw
  YUV420p-family file.

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

package yuvio

import (
	"io"
	"os"
	"sync"

	"github.com/ausocean/lightfield/errkind"
	"github.com/ausocean/utils/logging"
)

// Reader reads successive YUV420p frames from a planar file: Y-plane, then
// U-plane, then V-plane, repeating per frame, per spec §6.3. It is the
// engine-internal contract of spec §6.4, adapted from the teacher's
// device/file.AVFile (open/seek/read loop under a mutex).
type Reader struct {
	f      *os.File
	path   string
	extent Extent
	log    logging.Logger
	mu     sync.Mutex
}

// NewReader opens path for reading frames shaped by extent.
func NewReader(log logging.Logger, path string, extent Extent) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errkind.Wrap(errkind.FileSysError, "could not open input file: "+err.Error())
	}
	return &Reader{f: f, path: path, extent: extent, log: log}, nil
}

// Skip advances past n frames without reading their contents.
func (r *Reader) Skip(n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n <= 0 {
		return nil
	}
	off := int64(n) * int64(r.extent.FrameSize())
	if _, err := r.f.Seek(off, io.SeekCurrent); err != nil {
		return errkind.Wrap(errkind.FileSysError, "could not seek past "+r.path)
	}
	return nil
}

// ReadInto fills dst's Y, U, V planes from the next frame in the file.
func (r *Reader) ReadInto(dst *Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	buf := make([]byte, r.extent.FrameSize())
	_, err := io.ReadFull(r.f, buf)
	if err != nil {
		return errkind.Wrap(errkind.FileSysError, "could not read frame from "+r.path+": "+err.Error())
	}

	ySize := r.extent.YSize()
	uSize := r.extent.USize()
	if err := copyInto(&dst.Y, buf[:ySize]); err != nil {
		return err
	}
	if err := copyInto(&dst.U, buf[ySize:ySize+uSize]); err != nil {
		return err
	}
	if err := copyInto(&dst.V, buf[ySize+uSize:]); err != nil {
		return err
	}
	return nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	if err != nil {
		return errkind.Wrap(errkind.FileSysError, "could not close "+r.path)
	}
	return nil
}
