/*
DESCRIPTION
  writer.go implements Writer, the per-view output file writer
  (spec.md §6.3's one-file-per-view naming convention).

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

package yuvio

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ausocean/lightfield/errkind"
)

// Writer emits one frame's Y, U, V planes contiguously to a file, per spec
// §6.3/§6.4. One Writer exists per output view.
type Writer struct {
	f    *os.File
	path string
	mu   sync.Mutex
}

// ViewFileName returns the output file name for a view at (viewRow,
// viewCol) in a V x V grid, sized outW x outH, per spec §6.3:
// v{NNN}-{W}x{H}.yuv, i = viewRow*V + viewCol, zero-padded to 3 digits.
func ViewFileName(viewRow, viewCol, views, outW, outH int) string {
	i := viewRow*views + viewCol
	return fmt.Sprintf("v%03d-%dx%d.yuv", i, outW, outH)
}

// NewWriter creates (or truncates) the output file dir/name for writing.
func NewWriter(dir, name string) (*Writer, error) {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, errkind.Wrap(errkind.FileSysError, "could not create output file: "+err.Error())
	}
	return &Writer{f: f, path: path}, nil
}

// Write appends all three planes of src contiguously to the file.
func (w *Writer) Write(src *Frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	buf := make([]byte, src.Extent.FrameSize())
	ySize := src.Extent.YSize()
	uSize := src.Extent.USize()

	if err := copyFrom(&src.Y, buf[:ySize]); err != nil {
		return err
	}
	if err := copyFrom(&src.U, buf[ySize:ySize+uSize]); err != nil {
		return err
	}
	if err := copyFrom(&src.V, buf[ySize+uSize:]); err != nil {
		return err
	}

	if _, err := w.f.Write(buf); err != nil {
		return errkind.Wrap(errkind.FileSysError, "could not write frame to "+w.path+": "+err.Error())
	}
	return nil
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	if err != nil {
		return errkind.Wrap(errkind.FileSysError, "could not close "+w.path)
	}
	return nil
}
