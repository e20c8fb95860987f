package mview

import (
	"image"
	"testing"

	"github.com/ausocean/lightfield/geom"
	"github.com/ausocean/lightfield/psize"
	"github.com/ausocean/lightfield/yuvio"
	"github.com/ausocean/utils/logging"
	"gocv.io/x/gocv"
)

func newTestArranges(t *testing.T) [3]geom.Arrange {
	t.Helper()
	y := geom.NewOffsetArrange(geom.Size{W: 400, H: 400}, 60, false, geom.Point{0, 0}, false, false, 0)
	uv := geom.NewOffsetArrange(geom.Size{W: 200, H: 200}, 30, false, geom.Point{0, 0}, false, false, 0)
	return [3]geom.Arrange{y, uv, uv}
}

func TestRenderViewProducesNonEmptyOutput(t *testing.T) {
	arranges := newTestArranges(t)
	r := NewRenderer((*logging.TestLogger)(t), arranges, 1, 2.15, 0.1)
	defer r.Close()

	ySize := arranges[0].Size()
	uvSize := arranges[1].Size()

	src, err := yuvio.NewFrame(yuvio.Extent{YWidth: ySize.W, YHeight: ySize.H, Depth: 1, UShift: 1, VShift: 1})
	if err != nil {
		t.Fatalf("NewFrame src: %v", err)
	}
	defer src.Close()
	fillGradient(&src.Y)
	fillGradient(&src.U)
	fillGradient(&src.V)

	bridge := psize.NewBridge(arranges[0].MIRows(), arranges[0].MIMaxCols())
	for row := 0; row < arranges[0].MIRows(); row++ {
		for col := 0; col < arranges[0].MICols(row); col++ {
			bridge.SetInfo(row, col, psize.Info{Patchsize: 10})
		}
	}

	dst, err := yuvio.NewFrame(yuvio.Extent{
		YWidth: r.channels[0].params.OutputWidth, YHeight: r.channels[0].params.OutputHeight,
		Depth: 1, UShift: 1, VShift: 1,
	})
	if err != nil {
		t.Fatalf("NewFrame dst: %v", err)
	}
	defer dst.Close()

	if err := r.RenderView(bridge, src, dst, 0, 0); err != nil {
		t.Fatalf("RenderView: %v", err)
	}

	if dst.Y.Rows() == 0 || dst.Y.Cols() == 0 {
		t.Fatal("output Y plane is empty")
	}

	sum := 0
	for row := 0; row < dst.Y.Rows(); row++ {
		for col := 0; col < dst.Y.Cols(); col++ {
			sum += int(dst.Y.GetUCharAt(row, col))
		}
	}
	if sum == 0 {
		t.Error("output Y plane is all zero; expected some patch content to have been rendered")
	}
}

// TestAccumulatePatchAppliesFadeToRenderNotJustWeight exercises spec §4.4
// step 2's blending rule directly: at a pixel where two MIs' resized
// patches overlap, the Render accumulator must hold the fade-weighted sum
// of patch values (valA*fadeA*weightA + valB*fadeB*weightB), not the
// unfaded sum (valA*weightA + valB*weightB); the Weight accumulator holds
// fadeA*weightA + fadeB*weightB.
func TestAccumulatePatchAppliesFadeToRenderNotJustWeight(t *testing.T) {
	arrange := geom.NewOffsetArrange(geom.Size{W: 400, H: 400}, 60, false, geom.Point{0, 0}, false, false, 0)
	params := NewParams(arrange, 1, 2.15, 0.1)
	cache := NewCache(params)
	defer cache.Close()
	c := &channel{arrange: arrange, params: params, cache: cache, diameterRatio: 1}

	centerA := arrange.MICenter(0, 0)
	centerB := arrange.MICenter(0, 1)
	splitX := int((centerA.X + centerB.X) / 2)

	const valA, valB byte = 50, 200
	src := gocv.NewMatWithSize(400, 400, gocv.MatTypeCV8U)
	defer src.Close()
	for row := 0; row < 400; row++ {
		for col := 0; col < 400; col++ {
			if col < splitX {
				src.SetUCharAt(row, col, valA)
			} else {
				src.SetUCharAt(row, col, valB)
			}
		}
	}

	bridge := psize.NewBridge(arrange.MIRows(), arrange.MIMaxCols())
	bridge.SetInfo(0, 0, psize.Info{Patchsize: 20})
	bridge.SetInfo(0, 1, psize.Info{Patchsize: 20})
	const weightA, weightB = 1.0, 2.0
	bridge.SetWeight(0, 0, weightA)
	bridge.SetWeight(0, 1, weightB)

	bounds := gocvBounds(src)
	c.cache.Reset()
	c.accumulatePatch(bridge, &src, 0, 0, 0, 0, bounds)
	c.accumulatePatch(bridge, &src, 0, 1, 0, 0, bounds)

	dstX0, dstY0 := params.DstOrigin(0, 0)
	dstX1, dstY1 := params.DstOrigin(0, 1)
	width := params.ResizedPatchWidth
	if dstX1 >= dstX0+width {
		t.Fatalf("patches do not overlap: dstX0=%d dstX1=%d width=%d", dstX0, dstX1, width)
	}

	// Pick an overlap pixel a few pixels in from patch B's left edge, well
	// inside both patches' extent, where the fade masks of A and B differ.
	dc := dstX1 + (dstX0+width-dstX1)/3
	dr := dstY0 + width/2
	if dr != dstY1+width/2 {
		t.Fatalf("test assumes both MIs share a row: dstY0=%d dstY1=%d", dstY0, dstY1)
	}

	fadeA := float64(c.cache.FadeMask.GetFloatAt(dr-dstY0, dc-dstX0))
	fadeB := float64(c.cache.FadeMask.GetFloatAt(dr-dstY1, dc-dstX1))
	if fadeA == fadeB {
		t.Fatalf("test pixel doesn't exercise differing fade weights: fadeA=%v fadeB=%v", fadeA, fadeB)
	}

	wantRender := float32(float64(valA)*fadeA*weightA + float64(valB)*fadeB*weightB)
	gotRender := c.cache.Render.GetFloatAt(dr, dc)
	if diff := gotRender - wantRender; diff > 0.5 || diff < -0.5 {
		t.Errorf("Render at overlap pixel = %v, want %v (fade-weighted average numerator); "+
			"got the unfaded sum %v instead", gotRender, wantRender,
			float32(float64(valA)*weightA+float64(valB)*weightB))
	}

	wantWeight := float32(fadeA*weightA + fadeB*weightB)
	gotWeight := c.cache.Weight.GetFloatAt(dr, dc)
	if diff := gotWeight - wantWeight; diff > 0.5 || diff < -0.5 {
		t.Errorf("Weight at overlap pixel = %v, want %v", gotWeight, wantWeight)
	}
}

func gocvBounds(m gocv.Mat) image.Rectangle {
	return image.Rect(0, 0, m.Cols(), m.Rows())
}

func fillGradient(m *gocv.Mat) {
	for row := 0; row < m.Rows(); row++ {
		for col := 0; col < m.Cols(); col++ {
			m.SetUCharAt(row, col, byte((row+col)%256))
		}
	}
}
