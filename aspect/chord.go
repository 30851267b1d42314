package aspect

import (
	"math"

	"github.jpl.nasa.gov/bdube/aspect/mathx"
)

// chordCode distinguishes why a chord yielded no usable edge pair from
// two more specific refinement failures, so a caller can tell "nothing
// here" apart from "something here, but the fit broke." estimateCenter
// itself skips every chord whose code is not chordOK.
type chordCode int

const (
	chordOK chordCode = 0

	// chordReject covers every case the original treats identically:
	// too dim, no edges, an unpaired single edge not near a sensor
	// boundary, or a degenerate fit neighborhood.
	chordReject chordCode = -1

	// chordNonFinite means the refined edge position was not finite.
	chordNonFinite chordCode = -2

	// chordOutOfWindow means the refined edge position fell outside
	// the fit neighborhood that produced it.
	chordOutOfWindow chordCode = -3
)

// limbCrossing is one edge of a chord's accepted entering/exiting pair.
// virtual marks a crossing synthesized at a sensor boundary rather than
// fitted from samples, because the disk was judged to continue past the
// edge of the chord.
type limbCrossing struct {
	pos     float64
	virtual bool
}

// findChordCrossings walks one chord (a row or column slice) for the
// pair of edges bounding the solar disk (§4.C). limbThreshold and
// diskThreshold are absolute intensity levels: a transition across
// limbThreshold marks a candidate edge, and the chord is discarded
// outright unless some sample exceeds diskThreshold (too dim to be
// solar).
//
// Edge pairs no more than minLimbWidth apart are discarded as noise.
// A chord on which exactly one edge was detected (before that pruning)
// is still usable if the edge is a falling edge
// within 2*solarRadius of the chord's start, or a rising edge within
// 2*solarRadius of its end — the disk is assumed to continue past the
// chord, and a virtual crossing is synthesized at that boundary (-1 for
// the start, len(samples) for the end) rather than fitted. A non-virtual
// edge is refined to sub-pixel precision by a linear fit of the samples
// within fitWidth of it on either side; chordNonFinite and chordOutOfWindow distinguish
// a fit that broke from one that simply lies outside its own window.
func findChordCrossings(samples []uint8, limbThreshold, diskThreshold float64, fitWidth, solarRadius, minLimbWidth int) ([2]limbCrossing, chordCode) {
	k := len(samples)
	if k < 2 {
		return [2]limbCrossing{}, chordReject
	}

	pixelLower := uint8(limbThreshold)

	var edges []int
	last := samples[0]
	pixelMax := last
	for i := 1; i < k; i++ {
		cur := samples[i]
		if cur > pixelMax {
			pixelMax = cur
		}
		switch {
		case last <= pixelLower && cur > pixelLower:
			edges = append(edges, i)
		case last > pixelLower && cur <= pixelLower:
			edges = append(edges, -(i - 1))
		}
		last = cur
	}

	if float64(pixelMax) < diskThreshold || len(edges) == 0 {
		return [2]limbCrossing{}, chordReject
	}

	if len(edges) == 1 {
		e := edges[0]
		switch {
		case e < 0 && absInt(e) < 2*solarRadius:
			edges = []int{-1, e}
		case e > 0 && e > k-2*solarRadius:
			edges = []int{e, -k}
		default:
			return [2]limbCrossing{}, chordReject
		}
	} else {
		flagged := make([]bool, len(edges))
		for i := 1; i < len(edges); i++ {
			spread := absInt(absInt(edges[i]) - absInt(edges[i-1]))
			if spread <= minLimbWidth {
				flagged[i-1] = true
				flagged[i] = true
			}
		}
		kept := make([]int, 0, len(edges))
		for i, f := range flagged {
			if !f {
				kept = append(kept, edges[i])
			}
		}
		edges = kept
	}

	if len(edges) != 2 || edges[0] < -1 || edges[1] >= 0 {
		return [2]limbCrossing{}, chordReject
	}

	var crossings [2]limbCrossing
	for i := 0; i < 2; i++ {
		if i == 0 && edges[i] == -1 {
			crossings[0] = limbCrossing{pos: -1, virtual: true}
			continue
		}
		if i == 1 && edges[i] == -k {
			crossings[1] = limbCrossing{pos: float64(k), virtual: true}
			continue
		}

		edge := absInt(edges[i])
		lo := edge - fitWidth
		if lo < 0 {
			lo = 0
		}
		hi := edge + fitWidth
		if hi > k {
			hi = k
		}
		if hi-lo+1 < 2 {
			return [2]limbCrossing{}, chordReject
		}

		var xs, ys []float64
		for l := lo; l <= hi && l < k; l++ {
			xs = append(xs, float64(l-edge))
			ys = append(ys, float64(samples[l]))
		}
		fit, err := mathx.LinearFit(xs, ys)
		if err != nil || fit.Slope == 0 {
			return [2]limbCrossing{}, chordNonFinite
		}
		fitted := (limbThreshold-fit.Intercept)/fit.Slope + float64(edge)
		if math.IsNaN(fitted) || math.IsInf(fitted, 0) {
			return [2]limbCrossing{}, chordNonFinite
		}
		if fitted < float64(lo) || fitted > float64(hi) {
			return [2]limbCrossing{}, chordOutOfWindow
		}
		crossings[i] = limbCrossing{pos: fitted}
	}
	return crossings, chordOK
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
