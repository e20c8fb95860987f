package mibuf

import (
	"testing"

	"gocv.io/x/gocv"
)

func newTestGray(size int, fill func(row, col int) byte) gocv.Mat {
	m := gocv.NewMatWithSize(size, size, gocv.MatTypeCV8U)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			m.SetUCharAt(row, col, fill(row, col))
		}
	}
	return m
}

func TestCensusSymmetryZeroShift(t *testing.T) {
	const size = 9
	mi := newTestGray(size, func(row, col int) byte {
		return byte((row*7 + col*13) % 200)
	})
	defer mi.Close()

	mask := CircularMask(size, float64(size)/2)

	map1, mask1 := CensusTransform5x5(&mi, mask)
	map2, mask2 := CensusTransform5x5(&mi, mask)

	ratio, diffBits, maskBits := CompareCensus(map1, mask1, map2, mask2)
	if diffBits != 0 {
		t.Errorf("comparing an MI census against itself: diffBits = %d, want 0", diffBits)
	}
	if ratio != 0 {
		t.Errorf("comparing an MI census against itself: ratio = %v, want 0", ratio)
	}
	if maskBits == 0 {
		t.Error("maskBits = 0, want > 0 for an interior crop")
	}
}

func TestCensusMaskOneBitPerInCircleNeighbor(t *testing.T) {
	const size = 11
	mi := newTestGray(size, func(row, col int) byte { return byte(row + col) })
	defer mi.Close()

	mask := CircularMask(size, float64(size)/2)
	_, censusMask := CensusTransform5x5(&mi, mask)

	// Every set bit in censusMask must correspond to a neighbor that both
	// lies in-image and was marked valid by the input mask (spec §8).
	total := PopcountBytes(censusMask)
	if total < 0 || total > size*size*24 {
		t.Errorf("censusMask popcount %d out of plausible range", total)
	}

	// So each pixel's 24 mask bits hold exactly one set bit per such neighbor.
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			want := 0
			for dr := -2; dr <= 2; dr++ {
				for dc := -2; dc <= 2; dc++ {
					nr, nc := row+dr, col+dc
					if (dr == 0 && dc == 0) || nr < 0 || nr >= size || nc < 0 || nc >= size {
						continue
					}
					if mask[nr*size+nc] != 0 {
						want++
					}
				}
			}
			off := (row*size + col) * 3
			if got := PopcountBytes(censusMask[off : off+3]); got != want {
				t.Errorf("pixel (%d,%d): censusMask popcount = %d, want %d", row, col, got, want)
			}
		}
	}
}

func TestDhashPopcountBounded(t *testing.T) {
	const size = 8
	mi := newTestGray(size, func(row, col int) byte { return byte((row * col) % 255) })
	defer mi.Close()

	h := ComputeDhash(&mi)
	n := DhashDistance(h, 0)
	if n < 0 || n > 16 {
		t.Errorf("popcount(dhash) = %d, want in [0,16]", n)
	}
}

func TestDhashEqualWhenFramesIdentical(t *testing.T) {
	const size = 8
	fill := func(row, col int) byte { return byte((row*3 + col*5) % 255) }
	a := newTestGray(size, fill)
	defer a.Close()
	b := newTestGray(size, fill)
	defer b.Close()

	if ComputeDhash(&a) != ComputeDhash(&b) {
		t.Error("identical MIs produced different dhash values")
	}
}
