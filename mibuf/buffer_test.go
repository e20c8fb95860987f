package mibuf

import (
	"testing"

	"github.com/ausocean/lightfield/geom"
	"github.com/ausocean/utils/logging"
	"gocv.io/x/gocv"
)

func TestBuffersUpdatePopulatesInteriorMIs(t *testing.T) {
	const w, h = 400, 400
	a := geom.NewOffsetArrange(geom.Size{W: w, H: h}, 60, false, geom.Point{0, 0}, false, false, 0)

	y := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8U)
	defer y.Close()
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			y.SetUCharAt(row, col, byte((row+col)%255))
		}
	}

	b := NewBuffers((*logging.TestLogger)(t), a, KindCensus)
	defer b.Close()

	if err := b.Update(&y); err != nil {
		t.Fatalf("Update: %v", err)
	}

	found := false
	for row := 0; row < a.MIRows(); row++ {
		for col := 0; col < a.MICols(row); col++ {
			cell := b.At(row, col)
			if cell.Valid {
				found = true
				if cell.Gray == nil {
					t.Errorf("valid MI (%d,%d) has nil Gray", row, col)
				}
				if len(cell.CensusMap) == 0 {
					t.Errorf("valid MI (%d,%d) has empty CensusMap", row, col)
				}
			}
		}
	}
	if !found {
		t.Fatal("no MI was populated as valid; geometry or crop logic is broken")
	}
}
