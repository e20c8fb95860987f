package geom

import (
	"math"
	"testing"
)

func approxEqual(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want ~%v (tol %v)", name, got, want, tol)
	}
}

func TestCornersArrangeGeometry(t *testing.T) {
	size := Size{W: 3068, H: 4080}
	a := NewCornersArrange(size, 70,
		true,
		Point{38.25, 37.5}, Point{38.25, 4017.5},
		Point{3030.75, 37.5}, Point{3030.75, 4017.5},
		false, false, 0)

	c00 := a.MICenter(0, 0)
	approxEqual(t, "center(0,0).X", c00.X, 37.5, 0.5)
	approxEqual(t, "center(0,0).Y", c00.Y, 38.25, 0.5)

	c10 := a.MICenter(1, 0)
	approxEqual(t, "center(1,0).X", c10.X, 73.3, 1.0)
	approxEqual(t, "center(1,0).Y", c10.Y, 99.2, 1.0)

	c01 := a.MICenter(0, 1)
	approxEqual(t, "center(0,1).X", c01.X, 108.0, 1.0)
	approxEqual(t, "center(0,1).Y", c01.Y, 38.2, 1.0)

	if got, want := a.MIRows(), 66; got != want {
		t.Errorf("MIRows() = %d, want %d", got, want)
	}

	minCols := a.MICols(0)
	for row := 0; row < a.MIRows(); row++ {
		if c := a.MICols(row); c < minCols {
			minCols = c
		}
	}
	if minCols != 42 {
		t.Errorf("MIMinCols = %d, want 42", minCols)
	}
}

func TestArrangeUpsampleIdentity(t *testing.T) {
	a := NewCornersArrange(Size{W: 3068, H: 4080}, 70, true,
		Point{38.25, 37.5}, Point{38.25, 4017.5},
		Point{3030.75, 37.5}, Point{3030.75, 4017.5},
		false, false, 0)

	b := a.Upsample(1)
	if b.Diameter() != a.Diameter() {
		t.Errorf("Upsample(1) changed Diameter: %v -> %v", a.Diameter(), b.Diameter())
	}
	if b.Size() != a.Size() {
		t.Errorf("Upsample(1) changed Size: %v -> %v", a.Size(), b.Size())
	}
	c0 := a.MICenter(2, 1)
	c1 := b.MICenter(2, 1)
	approxEqual(t, "MICenter after Upsample(1)", c1.X, c0.X, 1e-9)
	approxEqual(t, "MICenter after Upsample(1)", c1.Y, c0.Y, 1e-9)
}

func TestArrangeUpsampleScalesLinearly(t *testing.T) {
	a := NewCornersArrange(Size{W: 3068, H: 4080}, 70, true,
		Point{38.25, 37.5}, Point{38.25, 4017.5},
		Point{3030.75, 37.5}, Point{3030.75, 4017.5},
		false, false, 0)

	b := a.Upsample(2)
	if b.Diameter() != a.Diameter()*2 {
		t.Errorf("Upsample(2) Diameter = %v, want %v", b.Diameter(), a.Diameter()*2)
	}
	if b.UpsampleFactor() != 2 {
		t.Errorf("UpsampleFactor() = %d, want 2", b.UpsampleFactor())
	}
}

func TestOffsetArrangeColumnCountDiffersByAtMostOne(t *testing.T) {
	a := NewOffsetArrange(Size{W: 6464, H: 4852}, 37.154, true, Point{30, 20}, false, false, 0)
	for row := 0; row < a.MIRows()-1; row++ {
		d := a.MICols(row) - a.MICols(row+1)
		if d < -1 || d > 1 {
			t.Errorf("row %d: column count differs by %d, want at most 1", row, d)
		}
	}
}

func TestMICenterWithinImage(t *testing.T) {
	a := NewOffsetArrange(Size{W: 6464, H: 4852}, 37.154, true, Point{30, 20}, false, false, 0)
	size := a.Size()
	for row := 0; row < a.MIRows(); row++ {
		for col := 0; col < a.MICols(row); col++ {
			c := a.MICenter(row, col)
			if c.X < 0 || c.X > float64(size.W) || c.Y < 0 || c.Y > float64(size.H) {
				t.Fatalf("MICenter(%d,%d) = %v out of image bounds %v", row, col, c, size)
			}
		}
	}
}
