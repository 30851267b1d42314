// Package mathx provides small numeric primitives shared across this
// repository: the legacy Round helper, safe slice ranges, a 2x2 linear
// least-squares fit with its condition number, mode over a small integer
// bag, and 2-D rotation. The latter four back the aspect pipeline's
// numeric core.
package mathx

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Round rounds a float to the nearest "unit" (0.1 for tenth, 0.01 for hundredth, and so on).
func Round(x, unit float64) float64 {
	return float64(int64(x/unit+0.5)) * unit
}

var (
	errMismatchedLengths = errors.New("mathx: x and y must have the same length")
	errEmptyInput        = errors.New("mathx: x and y must be non-empty")
)

// SafeRange clamps [start, stop) to [0, size), never inverting the range.
// Callers must tolerate a zero-length result.
func SafeRange(start, stop, size int) (int, int) {
	if start < 0 {
		start = 0
	}
	if stop > size {
		stop = size
	}
	if stop < start {
		stop = start
	}
	return start, stop
}

// LinearFitResult holds the solution to a 2x2 normal-equations linear fit.
type LinearFitResult struct {
	// Intercept is the fitted y-intercept.
	Intercept float64

	// Slope is the fitted slope.
	Slope float64

	// ConditionNumber is the ratio of the larger to the smaller eigenvalue
	// of X*X^T, the 2x2 normal-equations matrix. Large values indicate an
	// ill-conditioned fit (e.g. near-collinear x values).
	ConditionNumber float64
}

// LinearFit solves the 2x2 normal equations for y = intercept + slope*x
// via Cholesky decomposition of X^T*X, using gonum. x and y must be the
// same length and non-empty.
func LinearFit(x, y []float64) (LinearFitResult, error) {
	n := len(x)
	if n != len(y) {
		return LinearFitResult{}, errMismatchedLengths
	}
	if n == 0 {
		return LinearFitResult{}, errEmptyInput
	}

	var sx, sxx, sy, sxy float64
	for i := 0; i < n; i++ {
		sx += x[i]
		sxx += x[i] * x[i]
		sy += y[i]
		sxy += x[i] * y[i]
	}

	// normal-equations matrix for [intercept, slope]^T
	A := mat.NewSymDense(2, []float64{
		float64(n), sx,
		sx, sxx,
	})
	b := mat.NewVecDense(2, []float64{sy, sxy})

	var sol mat.VecDense
	var chol mat.Cholesky
	if chol.Factorize(A) {
		if err := chol.SolveVecTo(&sol, b); err != nil {
			return LinearFitResult{}, err
		}
	} else if err := sol.SolveVec(A, b); err != nil {
		return LinearFitResult{}, err
	}

	cond := math.Inf(1)
	var eig mat.EigenSym
	if eig.Factorize(A, false) {
		values := eig.Values(nil)
		lo, hi := values[0], values[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		if lo > 0 {
			cond = hi / lo
		}
	}

	return LinearFitResult{
		Intercept:       sol.AtVec(0),
		Slope:           sol.AtVec(1),
		ConditionNumber: cond,
	}, nil
}

// Mode returns the set of values in bag with the maximum frequency. A
// result of size greater than 1 indicates a tie; an empty bag returns a
// nil slice. Order within the result is unspecified. Counts are kept
// in a map keyed by value.
func Mode[T comparable](bag []T) []T {
	if len(bag) == 0 {
		return nil
	}
	counts := make(map[T]int, len(bag))
	for _, v := range bag {
		counts[v]++
	}
	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	out := make([]T, 0, 2)
	for v, c := range counts {
		if c == max {
			out = append(out, v)
		}
	}
	return out
}

// Mean returns the arithmetic mean of xs, or NaN if xs is empty.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// StdDev returns the population standard deviation of xs (dividing by n,
// not n-1 as gonum/stat.StdDev does), matching the aspect pipeline's
// per-axis error metric.
func StdDev(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return math.NaN()
	}
	mean := Mean(xs)
	var ss float64
	for _, v := range xs {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n))
}

// Point2D is a simple 2-D float64 point used by Rotate2D.
type Point2D struct {
	X, Y float64
}

// Rotate2D rotates p by angleDeg degrees counter-clockwise about the origin.
func Rotate2D(angleDeg float64, p Point2D) Point2D {
	rad := angleDeg * math.Pi / 180
	c, s := math.Cos(rad), math.Sin(rad)
	return Point2D{
		X: c*p.X - s*p.Y,
		Y: s*p.X + c*p.Y,
	}
}
