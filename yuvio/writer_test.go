package yuvio

import (
	"os"
	"testing"
)

func TestViewFileName(t *testing.T) {
	cases := []struct {
		viewRow, viewCol, views, w, h int
		want                          string
	}{
		{0, 0, 3, 640, 480, "v000-640x480.yuv"},
		{1, 1, 3, 640, 480, "v004-640x480.yuv"},
		{2, 2, 3, 640, 480, "v008-640x480.yuv"},
		{0, 0, 1, 320, 240, "v000-320x240.yuv"},
	}
	for _, c := range cases {
		got := ViewFileName(c.viewRow, c.viewCol, c.views, c.w, c.h)
		if got != c.want {
			t.Errorf("ViewFileName(%d,%d,%d,%d,%d) = %q, want %q", c.viewRow, c.viewCol, c.views, c.w, c.h, got, c.want)
		}
	}
}

func TestWriterRoundTrip(t *testing.T) {
	extent := NewYUV420p8Extent(4, 4)
	dir := t.TempDir()

	src, err := NewFrame(extent)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	defer src.Close()
	src.Y.SetUCharAt(0, 0, 42)

	w, err := NewWriter(dir, "out.yuv")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Write(src); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(dir + "/out.yuv")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) != extent.FrameSize() {
		t.Fatalf("wrote %d bytes, want %d", len(data), extent.FrameSize())
	}
	if data[0] != 42 {
		t.Errorf("data[0] = %d, want 42", data[0])
	}
}
