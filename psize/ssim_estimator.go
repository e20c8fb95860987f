/*
DESCRIPTION
  ssim_estimator.go implements the SSIM-maximizing variant of the
  per-MI patchsize estimator (spec.md §4.3 step 2, SSIM variant).

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

package psize

import (
	"image"
	"sync"

	"github.com/ausocean/lightfield/geom"
	"github.com/ausocean/lightfield/mibuf"
	"github.com/ausocean/utils/logging"
	"gocv.io/x/gocv"
)

// ssimC2 is the SSIM contrast-stabilizing constant for an 8-bit intensity
// range (standard (0.03*255)^2), applied to the variance/covariance term;
// the luminance (mean) term in ssimScore uses a constant of 1 instead
// (spec §4.3 step 2, SSIM variant).
const ssimC2 = 58.5225

// SSIMEstimator is the SSIM-maximizing variant of the patchsize estimator
// (spec §4.3 step 2, SSIM variant): it matches MIBuffer.I/I2 pairs instead
// of Census bitfields, maximizing SSIM² over the same per-direction,
// per-candidate-patchsize search as CensusEstimator.
type SSIMEstimator struct {
	log     logging.Logger
	arrange geom.Arrange
	bufs    *mibuf.Buffers
	params  Params
}

// NewSSIMEstimator builds an SSIMEstimator over arrange.
func NewSSIMEstimator(log logging.Logger, arrange geom.Arrange, params Params) *SSIMEstimator {
	return &SSIMEstimator{
		log:     log,
		arrange: arrange,
		bufs:    mibuf.NewBuffers(log, arrange, mibuf.KindSSIM),
		params:  params,
	}
}

// Close releases the estimator's MI working-buffer storage.
func (e *SSIMEstimator) Close() { e.bufs.Close() }

// UpdateBridge implements Estimator.
func (e *SSIMEstimator) UpdateBridge(y Plane, bridge *Bridge) error {
	m, ok := y.(*gocv.Mat)
	if !ok {
		return nil
	}
	bridge.SwapIn()
	if err := e.bufs.Update(m); err != nil {
		return err
	}

	rows := e.arrange.MIRows()
	var wg sync.WaitGroup
	wg.Add(rows)
	for row := 0; row < rows; row++ {
		go func(row int) {
			defer wg.Done()
			e.updateRow(row, bridge)
		}(row)
	}
	wg.Wait()

	if e.arrange.IsMultiFocus() {
		applyMultiFocusPostAdjust(e.arrange, bridge, e.bufs, e.params)
	}
	return nil
}

func (e *SSIMEstimator) updateRow(row int, bridge *Bridge) {
	cols := e.arrange.MICols(row)
	for col := 0; col < cols; col++ {
		idx := MIIndex{row, col}
		cell := e.bufs.At(row, col)
		prev := bridge.Previous(row, col)

		if !cell.Valid {
			bridge.SetInfo(row, col, Info{Patchsize: nominalPatchsize(prev, e.params), Inherited: false})
			continue
		}

		if bridge.HasPrevious() && prev.Patchsize > 0 {
			if mibuf.DhashDistance(prev.Dhash, cell.Dhash) <= e.params.ShortcutThreshold {
				bridge.SetInfo(row, col, Info{Patchsize: prev.Patchsize, Inherited: true, Dhash: cell.Dhash})
				continue
			}
		}

		patchsize, ok := e.estimateMI(idx, cell)
		if !ok {
			patchsize = nominalPatchsize(prev, e.params)
		}
		bridge.SetInfo(row, col, Info{Patchsize: clampPsize(patchsize, e.params), Inherited: false, Dhash: cell.Dhash})
	}
}

func (e *SSIMEstimator) estimateMI(idx MIIndex, anchor *mibuf.MIBuffer) (float64, bool) {
	near, far, useFar := neighborSet(e.arrange, idx)

	var dirs []Direction
	if useFar {
		for _, d := range []Direction{UpLeft, UpRight, DownLeft, DownRight} {
			if _, ok := far.At(d); ok {
				dirs = append(dirs, d)
			}
		}
	} else {
		for _, d := range allDirections {
			if _, ok := near.At(d); ok {
				dirs = append(dirs, d)
			}
		}
	}
	if len(dirs) == 0 {
		return 0, false
	}

	var weightedSum, weightSum float64
	kSign := 1.0
	if e.arrange.IsKepler() {
		kSign = -1.0
	}

	for _, d := range dirs {
		var nidx MIIndex
		if useFar {
			nidx, _ = far.At(d)
		} else {
			nidx, _ = near.At(d)
		}
		neighbor := e.bufs.At(nidx.Row, nidx.Col)
		if neighbor == nil || !neighbor.Valid {
			continue
		}

		best, bestSSIM2, ok := e.bestPatchsizeForDirection(anchor, neighbor, d, kSign)
		if !ok {
			continue
		}
		w := neighbor.Grads * bestSSIM2
		if w <= 0 {
			w = 1e-6
		}
		weightedSum += best * w
		weightSum += w
	}
	if weightSum == 0 {
		return 0, false
	}
	return weightedSum / weightSum, true
}

// bestPatchsizeForDirection searches candidate patchsizes in direction d,
// maximizing SSIM² between the anchor and neighbor intensity crops (spec
// §4.3: "the SSIM variant maximizes SSIM² in place of minimizing the
// Census mismatch ratio").
func (e *SSIMEstimator) bestPatchsizeForDirection(anchor, neighbor *mibuf.MIBuffer, d Direction, kSign float64) (bestP float64, bestSSIM2 float64, ok bool) {
	ux, uy := unitShift(d)
	diam := int(e.arrange.Diameter() * mibuf.CensusSafeRatio)

	minP := int(e.params.MinPsize)
	maxP := int(e.params.MaxPsize)
	if minP < 1 {
		minP = 1
	}

	for p := minP; p < maxP; p++ {
		shiftX := int(kSign * ux * float64(p))
		shiftY := int(kSign * uy * float64(p))

		roiA, roiB, w, h := shiftedOverlapROIs(diam, shiftX, shiftY)
		if w == 0 || h == 0 {
			continue
		}

		iaRegion := anchor.I.Region(roiA)
		ibRegion := neighbor.I.Region(roiB)
		i2aRegion := anchor.I2.Region(roiA)
		i2bRegion := neighbor.I2.Region(roiB)

		s := ssimScore(&iaRegion, &ibRegion, &i2aRegion, &i2bRegion)
		iaRegion.Close()
		ibRegion.Close()
		i2aRegion.Close()
		i2bRegion.Close()

		s2 := s * s
		if s2 > bestSSIM2 {
			bestSSIM2 = s2
			bestP = float64(p)
			ok = true
		}
	}
	return bestP, bestSSIM2, ok
}

// shiftedOverlapROIs computes the overlapping sub-rectangles of two
// diam x diam crops, a and b, when b is displaced by (shiftX, shiftY)
// relative to a — the gocv.Mat-Region analogue of mibuf.CropShiftedOverlap.
func shiftedOverlapROIs(diam, shiftX, shiftY int) (roiA, roiB image.Rectangle, w, h int) {
	aX0, bX0, w := overlap1DLocal(diam, shiftX)
	aY0, bY0, h := overlap1DLocal(diam, shiftY)
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, image.Rectangle{}, 0, 0
	}
	roiA = image.Rect(aX0, aY0, aX0+w, aY0+h)
	roiB = image.Rect(bX0, bY0, bX0+w, bY0+h)
	return roiA, roiB, w, h
}

func overlap1DLocal(dim, shift int) (aStart, bStart, length int) {
	if shift >= 0 {
		length = dim - shift
		return 0, shift, length
	}
	length = dim + shift
	return -shift, 0, length
}

// ssimScore computes a single-window SSIM value between the (I, I2) pairs
// of two equally-sized crops, using the precomputed I2 = I.*I moment to
// avoid a second multiply pass, per spec §4.3's SSIM variant.
func ssimScore(ia, ib, i2a, i2b *gocv.Mat) float64 {
	n := float64(ia.Rows() * ia.Cols())
	if n == 0 {
		return 0
	}

	var sumA, sumB, sumA2, sumB2, sumAB float64
	rows, cols := ia.Rows(), ia.Cols()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			va := float64(ia.GetFloatAt(r, c))
			vb := float64(ib.GetFloatAt(r, c))
			sumA += va
			sumB += vb
			sumA2 += float64(i2a.GetFloatAt(r, c))
			sumB2 += float64(i2b.GetFloatAt(r, c))
			sumAB += va * vb
		}
	}

	meanA := sumA / n
	meanB := sumB / n
	varA := sumA2/n - meanA*meanA
	varB := sumB2/n - meanB*meanB
	covAB := sumAB/n - meanA*meanB

	num := (2*meanA*meanB + 1) * (2*covAB + ssimC2)
	den := (meanA*meanA + meanB*meanB + 1) * (varA + varB + ssimC2)
	if den == 0 {
		return 0
	}
	return num / den
}
