package yuvio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ausocean/utils/logging"
)

func writeTestFrames(t *testing.T, extent Extent, n int) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "in.yuv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("could not create test file: %v", err)
	}
	defer f.Close()

	frameSize := extent.FrameSize()
	for i := 0; i < n; i++ {
		buf := make([]byte, frameSize)
		for j := range buf {
			buf[j] = byte(i)
		}
		if _, err := f.Write(buf); err != nil {
			t.Fatalf("could not write test frame: %v", err)
		}
	}
	return path
}

func TestReaderSkipThenReadInto(t *testing.T) {
	extent := NewYUV420p8Extent(8, 8)
	path := writeTestFrames(t, extent, 3)

	r, err := NewReader((*logging.TestLogger)(t), path, extent)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	if err := r.Skip(1); err != nil {
		t.Fatalf("Skip: %v", err)
	}

	dst, err := NewFrame(extent)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	defer dst.Close()

	if err := r.ReadInto(dst); err != nil {
		t.Fatalf("ReadInto: %v", err)
	}

	got := dst.Y.GetUCharAt(0, 0)
	if got != 1 {
		t.Errorf("after Skip(1), frame 1's Y[0,0] = %d, want 1", got)
	}
}

func TestReaderReadPastEndFails(t *testing.T) {
	extent := NewYUV420p8Extent(4, 4)
	path := writeTestFrames(t, extent, 1)

	r, err := NewReader((*logging.TestLogger)(t), path, extent)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	dst, err := NewFrame(extent)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	defer dst.Close()

	if err := r.ReadInto(dst); err != nil {
		t.Fatalf("first ReadInto: %v", err)
	}
	if err := r.ReadInto(dst); err == nil {
		t.Error("expected error reading past end of file, got nil")
	}
}
