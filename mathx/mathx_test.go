package mathx_test

import (
	"math"
	"testing"

	"github.jpl.nasa.gov/bdube/aspect/mathx"
)

func TestSafeRangeClampsLow(t *testing.T) {
	start, stop := mathx.SafeRange(-5, 10, 100)
	if start != 0 || stop != 10 {
		t.Errorf("expected (0,10), got (%d,%d)", start, stop)
	}
}

func TestSafeRangeClampsHigh(t *testing.T) {
	start, stop := mathx.SafeRange(90, 150, 100)
	if start != 90 || stop != 100 {
		t.Errorf("expected (90,100), got (%d,%d)", start, stop)
	}
}

func TestSafeRangeNeverInverts(t *testing.T) {
	start, stop := mathx.SafeRange(50, 10, 100)
	if stop < start {
		t.Errorf("range inverted: (%d,%d)", start, stop)
	}
}

func TestLinearFitExactLine(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{1, 3, 5, 7, 9} // y = 1 + 2x
	fit, err := mathx.LinearFit(x, y)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(fit.Intercept-1) > 1e-9 {
		t.Errorf("expected intercept 1, got %v", fit.Intercept)
	}
	if math.Abs(fit.Slope-2) > 1e-9 {
		t.Errorf("expected slope 2, got %v", fit.Slope)
	}
}

func TestLinearFitMismatchedLengths(t *testing.T) {
	_, err := mathx.LinearFit([]float64{1, 2}, []float64{1})
	if err == nil {
		t.Error("expected error for mismatched lengths")
	}
}

func TestModeUniqueMax(t *testing.T) {
	m := mathx.Mode([]int{1, 2, 2, 3})
	if len(m) != 1 || m[0] != 2 {
		t.Errorf("expected [2], got %v", m)
	}
}

func TestModeTie(t *testing.T) {
	m := mathx.Mode([]int{1, 1, 2, 2})
	if len(m) != 2 {
		t.Errorf("expected a tie of size 2, got %v", m)
	}
}

func TestModeEmpty(t *testing.T) {
	m := mathx.Mode([]int{})
	if m != nil {
		t.Errorf("expected nil for empty bag, got %v", m)
	}
}

func TestRotate2DIdentityAtZero(t *testing.T) {
	p := mathx.Rotate2D(0, mathx.Point2D{X: 3, Y: 4})
	if math.Abs(p.X-3) > 1e-9 || math.Abs(p.Y-4) > 1e-9 {
		t.Errorf("expected unchanged point, got %v", p)
	}
}

func TestRotate2D90Degrees(t *testing.T) {
	p := mathx.Rotate2D(90, mathx.Point2D{X: 1, Y: 0})
	if math.Abs(p.X) > 1e-9 || math.Abs(p.Y-1) > 1e-9 {
		t.Errorf("expected (0,1), got %v", p)
	}
}

func TestStdDevPopulation(t *testing.T) {
	d := mathx.StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if math.Abs(d-2.0) > 1e-9 {
		t.Errorf("expected population stddev 2.0, got %v", d)
	}
}
