/*
DESCRIPTION
  buffer.go implements Buffers: the per-MI working-buffer collection
  (grayscale crop, Census/SSIM moments, gradient score, dhash) that the
  patchsize estimators populate and match against every frame.

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

package mibuf

import (
	"image"
	"sync"

	"github.com/ausocean/lightfield/errkind"
	"github.com/ausocean/lightfield/geom"
	"github.com/ausocean/utils/logging"
	"gocv.io/x/gocv"
)

// CensusSafeRatio is the fraction of the MI diameter used as the working
// crop diameter for the Census transform, keeping the comparison window
// inside the MI (spec §4.2).
const CensusSafeRatio = 0.9

// Kind selects which per-MI representation MIBuffer populates: the Census
// bitmap pair, or the SSIM intensity pair.
type Kind int

const (
	KindCensus Kind = iota
	KindSSIM
)

// MIBuffer is one MI's working buffer: the grayscale crop, plus either a
// Census map/mask or an SSIM I/I² pair, plus the shared gradient score and
// dhash fingerprint.
type MIBuffer struct {
	Gray *gocv.Mat

	// Census variant.
	CensusMap, CensusMask []byte

	// SSIM variant.
	I, I2 *gocv.Mat

	Grads float64
	Dhash uint16

	// Valid is false when this MI could not be populated (out of image
	// bounds, or a per-MI failure inside the parallel population pass);
	// render falls back to a nominal patchsize for invalid MIs per spec §7.
	Valid bool
}

func (b *MIBuffer) close() {
	if b.Gray != nil {
		b.Gray.Close()
	}
	if b.I != nil {
		b.I.Close()
	}
	if b.I2 != nil {
		b.I2.Close()
	}
}

// Buffers is the flat miRows x miMaxCols collection of MIBuffer, updated in
// place every frame. Per spec §3, this is allocated once and reused.
type Buffers struct {
	kind      Kind
	arrange   geom.Arrange
	maxCols   int
	workDiam  int
	mask      []byte // circular validity mask shared by every MI crop
	cells     []MIBuffer
	log       logging.Logger
}

// NewBuffers allocates a Buffers collection sized for arrange.
func NewBuffers(log logging.Logger, arrange geom.Arrange, kind Kind) *Buffers {
	maxCols := arrange.MIMaxCols()
	rows := arrange.MIRows()
	workDiam := int(arrange.Diameter() * CensusSafeRatio)
	if workDiam < 1 {
		workDiam = 1
	}
	return &Buffers{
		kind:     kind,
		arrange:  arrange,
		maxCols:  maxCols,
		workDiam: workDiam,
		mask:     CircularMask(workDiam, float64(workDiam)/2),
		cells:    make([]MIBuffer, rows*maxCols),
		log:      log,
	}
}

// Close releases every cell's gocv-backed storage.
func (b *Buffers) Close() {
	for i := range b.cells {
		b.cells[i].close()
	}
}

// At returns the MIBuffer for (row, col).
func (b *Buffers) At(row, col int) *MIBuffer {
	return &b.cells[row*b.maxCols+col]
}

// MaxCols returns the row stride used to index cells.
func (b *Buffers) MaxCols() int { return b.maxCols }

// Update repopulates every MI's buffer from the upsampled Y plane, in
// parallel across rows, matching the teacher's filter.Basic row-worker
// pattern (filter/basic.go's per-row sync.WaitGroup fan-out).
func (b *Buffers) Update(y *gocv.Mat) error {
	if y.Type() != gocv.MatTypeCV8U {
		return errkind.Wrap(errkind.InvalidParam, "MI buffer update requires an 8-bit single-channel Y plane")
	}

	rows := b.arrange.MIRows()
	var wg sync.WaitGroup
	errs := make([]error, rows)

	wg.Add(rows)
	for row := 0; row < rows; row++ {
		go func(row int) {
			defer wg.Done()
			errs[row] = b.updateRow(y, row)
		}(row)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *Buffers) updateRow(y *gocv.Mat, row int) error {
	cols := b.arrange.MICols(row)
	for col := 0; col < cols; col++ {
		cell := b.At(row, col)
		cell.close()
		*cell = MIBuffer{}

		center := b.arrange.MICenter(row, col)
		roi := image.Rect(
			int(center.X)-b.workDiam/2, int(center.Y)-b.workDiam/2,
			int(center.X)-b.workDiam/2+b.workDiam, int(center.Y)-b.workDiam/2+b.workDiam,
		)
		bounds := image.Rect(0, 0, y.Cols(), y.Rows())
		if !roi.In(bounds) {
			// Boundary MI: mark invalid, render/estimator fall back to
			// nominal values per spec §7, rather than failing the frame.
			cell.Valid = false
			continue
		}

		region := y.Region(roi)
		gray := region.Clone()
		region.Close()

		cell.Gray = &gray
		cell.Grads = ComputeGrads(&gray)

		thumbROI := InscribedSquareROI(b.workDiam)
		thumbRegion := gray.Region(thumbROI)
		cell.Dhash = ComputeDhash(&thumbRegion)
		thumbRegion.Close()

		switch b.kind {
		case KindCensus:
			censusMap, censusMask := CensusTransform5x5(&gray, b.mask)
			cell.CensusMap = censusMap
			cell.CensusMask = censusMask
		case KindSSIM:
			i, i2, err := ssimIntensityPair(&gray)
			if err != nil {
				return err
			}
			cell.I = i
			cell.I2 = i2
		}
		cell.Valid = true
	}
	return nil
}

// ssimIntensityPair converts gray to a float32 intensity matrix I and
// computes I2 = I .* I, the pair the SSIM estimator variant matches on.
func ssimIntensityPair(gray *gocv.Mat) (*gocv.Mat, *gocv.Mat, error) {
	i := gocv.NewMat()
	gray.ConvertTo(&i, gocv.MatTypeCV32F)
	i2 := gocv.NewMat()
	gocv.Multiply(i, i, &i2)
	return &i, &i2, nil
}
