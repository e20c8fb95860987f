package manager

import (
	"strings"
	"testing"

	"github.com/ausocean/lightfield/config"
	"github.com/ausocean/lightfield/yuvio"
	"github.com/ausocean/utils/logging"
	"gocv.io/x/gocv"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	vars, err := config.LoadCalib(strings.NewReader(`
LensletWidth: 120
LensletHeight: 120
MIDiameter: 20
CentralMIOffsetX: 0
CentralMIOffsetY: 0
`))
	if err != nil {
		t.Fatalf("LoadCalib: %v", err)
	}
	c := config.Config{Logger: (*logging.TestLogger)(t)}
	c.Update(vars)
	c.Views = 1
	c.Upsample = 1
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return c
}

func TestManagerRenderFrameProducesOutputViews(t *testing.T) {
	cfg := testConfig(t)
	m, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer m.Close()

	src, err := yuvio.NewFrame(m.RawExtent())
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	defer src.Close()
	fillGradient(&src.Y)
	fillGradient(&src.U)
	fillGradient(&src.V)

	seen := 0
	err = m.RenderFrame(src, func(viewRow, viewCol int, dst *yuvio.Frame) error {
		seen++
		if dst.Y.Rows() == 0 || dst.Y.Cols() == 0 {
			t.Errorf("view (%d,%d): empty Y plane", viewRow, viewCol)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if seen != cfg.Views*cfg.Views {
		t.Errorf("emitted %d views, want %d", seen, cfg.Views*cfg.Views)
	}
}

func fillGradient(m *gocv.Mat) {
	for row := 0; row < m.Rows(); row++ {
		for col := 0; col < m.Cols(); col++ {
			m.SetUCharAt(row, col, byte((row+col)%256))
		}
	}
}
