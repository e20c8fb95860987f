package psize

import (
	"testing"

	"github.com/ausocean/lightfield/geom"
	"github.com/ausocean/lightfield/mibuf"
	"github.com/ausocean/utils/logging"
	"gocv.io/x/gocv"
)

func staticTestFrame(w, h int) gocv.Mat {
	y := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8U)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			y.SetUCharAt(row, col, byte((row*7+col*13)%256))
		}
	}
	return y
}

func defaultParams() Params {
	return Params{MinPsize: 2, MaxPsize: 12, ShortcutThreshold: 2, ShortcutSSIMFactor: 0.98}
}

// TestCensusEstimatorInheritsOnStaticScene exercises the dhash short-circuit
// cache: against an unchanging scene, almost every MI's second-frame
// estimate should be inherited from the first frame's cache rather than
// freshly recomputed.
func TestCensusEstimatorInheritsOnStaticScene(t *testing.T) {
	const w, h = 400, 400
	arrange := geom.NewOffsetArrange(geom.Size{W: w, H: h}, 60, false, geom.Point{0, 0}, false, false, 0)

	est := NewCensusEstimator((*logging.TestLogger)(t), arrange, defaultParams())
	defer est.Close()

	bridge := NewBridge(arrange.MIRows(), arrange.MIMaxCols())

	y := staticTestFrame(w, h)
	defer y.Close()

	if err := est.UpdateBridge(&y, bridge); err != nil {
		t.Fatalf("first UpdateBridge: %v", err)
	}
	if err := est.UpdateBridge(&y, bridge); err != nil {
		t.Fatalf("second UpdateBridge: %v", err)
	}

	total, inherited := 0, 0
	for row := 0; row < arrange.MIRows(); row++ {
		for col := 0; col < arrange.MICols(row); col++ {
			total++
			if bridge.Inherited(row, col) {
				inherited++
			}
		}
	}
	if total == 0 {
		t.Fatal("no MIs in arrange")
	}
	if rate := float64(inherited) / float64(total); rate < 0.95 {
		t.Errorf("inheritance rate = %.2f, want >= 0.95 on a static scene", rate)
	}
}

// TestMultiFocusPostAdjustClipsOutliers checks that an artificially
// inflated outlier patchsize gets clipped into the per-lens-type band
// computed from its peers.
func TestMultiFocusPostAdjustClipsOutliers(t *testing.T) {
	const w, h = 400, 400
	arrange := geom.NewOffsetArrange(geom.Size{W: w, H: h}, 60, false, geom.Point{0, 0}, false, true, 0)

	y := staticTestFrame(w, h)
	defer y.Close()

	bufs := mibuf.NewBuffers((*logging.TestLogger)(t), arrange, mibuf.KindCensus)
	defer bufs.Close()
	if err := bufs.Update(&y); err != nil {
		t.Fatalf("Update: %v", err)
	}

	params := defaultParams()
	bridge := NewBridge(arrange.MIRows(), arrange.MIMaxCols())

	for row := 0; row < arrange.MIRows(); row++ {
		for col := 0; col < arrange.MICols(row); col++ {
			bridge.SetInfo(row, col, Info{Patchsize: 5})
		}
	}
	// Inflate one MI far outside any reasonable band.
	bridge.SetInfo(0, 0, Info{Patchsize: 1000})

	applyMultiFocusPostAdjust(arrange, bridge, bufs, params)

	if p := bridge.Patchsize(0, 0); p >= 1000 {
		t.Errorf("outlier patchsize not clipped: got %v", p)
	}
}
