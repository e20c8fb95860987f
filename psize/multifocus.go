/*
DESCRIPTION
  multifocus.go implements the multi-focus post-adjustment pass
  (spec.md §4.3 step 4): reconciling patchsizes and render weights
  across near/far focal-length lens groups.

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

package psize

import (
	"math"
	"sort"

	"github.com/ausocean/lightfield/geom"
	"github.com/ausocean/lightfield/mibuf"
	"gonum.org/v1/gonum/stat"
)

// focusBand holds the clipping band computed for one lens-type class.
type focusBand struct {
	mean, std, lo, hi float64
	isNearFocal       bool
}

// applyMultiFocusPostAdjust runs the multi-focus rig post-adjust pass over
// every lens-type class (spec §4.3 Multi-focus post-adjust):
//  1. per-type mean/stddev over the top-K highest-gradient MIs (K ≈
//     totalMIs / (3·16));
//  2. clip every MI of that type into [mean-2σ, mean+2σ];
//  3. smooth outliers against their near-neighbor average;
//  4. set render weight to grads+epsilon.
func applyMultiFocusPostAdjust(arrange geom.Arrange, bridge *Bridge, bufs *mibuf.Buffers, params Params) {
	const numTypes = 3
	byType := make([][]focusSample, numTypes)

	rows := arrange.MIRows()
	total := 0
	for row := 0; row < rows; row++ {
		cols := arrange.MICols(row)
		for col := 0; col < cols; col++ {
			total++
			cell := bufs.At(row, col)
			if !cell.Valid {
				continue
			}
			t := lensType(arrange, MIIndex{row, col})
			byType[t] = append(byType[t], focusSample{row, col, cell.Grads})
		}
	}

	k := total / (3 * 16)
	if k < 1 {
		k = 1
	}

	bands := make([]focusBand, numTypes)
	for t := 0; t < numTypes; t++ {
		samples := byType[t]
		if len(samples) == 0 {
			continue
		}
		sort.Slice(samples, func(i, j int) bool { return samples[i].grads > samples[j].grads })
		kt := k
		if kt > len(samples) {
			kt = len(samples)
		}
		top := samples[:kt]

		psizes := make([]float64, len(top))
		for i, s := range top {
			psizes[i] = bridge.Patchsize(s.row, s.col)
		}
		mean, std := stat.MeanStdDev(psizes, nil)
		if math.IsNaN(std) {
			// A single top-K sample has no spread.
			std = 0
		}
		bands[t] = focusBand{
			mean:        mean,
			std:         std,
			lo:          clampLo(mean-2*std, params),
			hi:          clampHi(mean+2*std, params),
			isNearFocal: t == arrange.NearFocalLenType(),
		}

		for _, s := range samples {
			p := bridge.Patchsize(s.row, s.col)
			if p < bands[t].lo {
				p = bands[t].lo
			} else if p > bands[t].hi {
				p = bands[t].hi
			}
			setPatchsizeKeepMeta(bridge, bufs, s.row, s.col, p)
			bridge.SetWeight(s.row, s.col, s.grads+1e-6)
		}
	}

	smoothOutliers(arrange, bridge, bufs, byType, bands)
}

// smoothOutliers applies spec §4.3's neighbor-average rule: a near-focal-type
// MI for which at least half of its valid near neighbors exceed its type's
// mean+3σ is replaced by their average; a non-near-focal-type MI for which
// at least half of its valid near neighbors fall below its type's mean+2σ
// is likewise smoothed.
func smoothOutliers(arrange geom.Arrange, bridge *Bridge, bufs *mibuf.Buffers, byType [][]focusSample, bands []focusBand) {
	for t, samples := range byType {
		band := bands[t]
		if band.std == 0 && band.mean == 0 {
			continue
		}
		for _, s := range samples {
			idx := MIIndex{s.row, s.col}
			near := NewNearNeighbors(arrange, idx)

			var sum float64
			count, over := 0, 0
			for _, d := range allDirections {
				n, ok := near.At(d)
				if !ok {
					continue
				}
				if !bufs.At(n.Row, n.Col).Valid {
					continue
				}
				count++
				p := bridge.Patchsize(n.Row, n.Col)
				sum += p
				if band.isNearFocal {
					if p > band.mean+3*band.std {
						over++
					}
				} else if p < band.mean+2*band.std {
					over++
				}
			}
			if count == 0 || over*2 < count {
				continue
			}
			setPatchsizeKeepMeta(bridge, bufs, s.row, s.col, sum/float64(count))
		}
	}
}

func setPatchsizeKeepMeta(bridge *Bridge, bufs *mibuf.Buffers, row, col int, p float64) {
	info := Info{
		Patchsize: p,
		Inherited: bridge.Inherited(row, col),
		Dhash:     bufs.At(row, col).Dhash,
	}
	bridge.SetInfo(row, col, info)
}

func clampLo(v float64, p Params) float64 {
	if v < p.MinPsize {
		return p.MinPsize
	}
	return v
}

func clampHi(v float64, p Params) float64 {
	if v >= p.MaxPsize {
		return p.MaxPsize - 1
	}
	return v
}

// focusSample records one valid MI's lattice position and gradient score,
// used to rank MIs within a lens-type class for the top-K clipping band.
type focusSample struct {
	row, col int
	grads    float64
}
