package aspect

import (
	"math"
	"sort"

	"github.jpl.nasa.gov/bdube/aspect/mathx"
)

// fiducialCandidate is one detected fiducial before lattice
// identification: its sub-pixel position (relative to the image it was
// found in) and its correlation score.
type fiducialCandidate struct {
	pos   PixelPoint
	score float64
}

// correlate runs kernel as a matched filter over img, returning a
// same-size correlation surface. Out-of-bounds kernel taps are skipped
// (equivalent to zero-padding the image), which is acceptable since
// candidates are only trusted away from the image edge. Samples are
// clipped at pixelMax before correlation, so a saturated glint can't
// outscore the darker, opaque reticle marks the kernel is shaped for.
func correlate(img Frame, kernel [][]float64, pixelMax uint8) [][]float64 {
	kh := len(kernel)
	kw := 0
	if kh > 0 {
		kw = len(kernel[0])
	}
	halfR, halfC := kh/2, kw/2

	out := make([][]float64, img.Height)
	for r := range out {
		out[r] = make([]float64, img.Width)
	}
	for r := 0; r < img.Height; r++ {
		for c := 0; c < img.Width; c++ {
			var sum float64
			for kr := 0; kr < kh; kr++ {
				ir := r + kr - halfR
				if ir < 0 || ir >= img.Height {
					continue
				}
				for kc := 0; kc < kw; kc++ {
					ic := c + kc - halfC
					if ic < 0 || ic >= img.Width {
						continue
					}
					v := img.At(ic, ir)
					if v > pixelMax {
						v = pixelMax
					}
					sum += kernel[kr][kc] * float64(v)
				}
			}
			out[r][c] = sum
		}
	}
	return out
}

// findFiducials detects fiducial candidates in img by matched-filter
// correlation against a cross kernel (§4.F): local maxima of the
// correlation surface that exceed FiducialThreshold standard deviations
// above the surface's mean are kept, deduplicated against each other
// within a Chebyshev distance of twice FiducialLength (the two should
// never both be real, so the stronger one wins), capped at NumFiducials
// by score, and refined to a sub-pixel centroid around each survivor.
func findFiducials(img Frame, pixelMax uint8, cfg Config) ([]fiducialCandidate, State) {
	if img.Empty() {
		return nil, SolarImageEmpty
	}

	kernel := generateKernel(cfg.FiducialLength, cfg.FiducialWidth)
	corr := correlate(img, kernel, pixelMax)

	flat := make([]float64, 0, img.Width*img.Height)
	for _, row := range corr {
		flat = append(flat, row...)
	}
	mean := mathx.Mean(flat)
	std := mathx.StdDev(flat)
	cutoff := mean + cfg.FiducialThreshold*std

	var raw []fiducialCandidate
	for r := 0; r < img.Height; r++ {
		for c := 0; c < img.Width; c++ {
			v := corr[r][c]
			if v < cutoff || !isLocalMax4(corr, c, r) {
				continue
			}
			raw = append(raw, fiducialCandidate{pos: PixelPoint{X: float32(c), Y: float32(r)}, score: v})
		}
	}
	if len(raw) == 0 {
		return nil, NoFiducials
	}

	sort.Slice(raw, func(i, j int) bool { return raw[i].score > raw[j].score })

	minSep := float64(2 * cfg.FiducialLength)
	var kept []fiducialCandidate
	for _, cand := range raw {
		dup := false
		for _, k := range kept {
			if chebyshev(cand.pos, k.pos) < minSep {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, cand)
		}
	}

	if cfg.NumFiducials > 0 && len(kept) > cfg.NumFiducials {
		kept = kept[:cfg.NumFiducials]
	}

	t2 := mean + (cfg.FiducialThreshold/2)*std
	refined := make([]fiducialCandidate, 0, len(kept))
	for _, k := range kept {
		p := refineCentroid(corr, k.pos, cfg.FiducialWidth, t2)
		if !finitePoint(p) {
			continue
		}
		refined = append(refined, fiducialCandidate{pos: p, score: k.score})
	}

	if len(refined) == 0 {
		return nil, NoFiducials
	}
	if len(refined) < 3 {
		return refined, FewFiducials
	}
	return refined, NoError
}

func isLocalMax4(corr [][]float64, c, r int) bool {
	v := corr[r][c]
	h, w := len(corr), len(corr[0])
	if r > 0 && corr[r-1][c] > v {
		return false
	}
	if r < h-1 && corr[r+1][c] > v {
		return false
	}
	if c > 0 && corr[r][c-1] > v {
		return false
	}
	if c < w-1 && corr[r][c+1] > v {
		return false
	}
	return true
}

func chebyshev(a, b PixelPoint) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dy := math.Abs(float64(a.Y - b.Y))
	if dx > dy {
		return dx
	}
	return dy
}

// refineCentroid recomputes a sub-pixel position as the centroid of the
// correlation surface corr over a (2*fiducialWidth+1)-square window
// centered on the coarse pixel position p, counting only taps above
// t2 — the correlation surface's mean plus half the threshold used to
// find the coarse peaks in the first place. Centroiding the correlation
// peak itself, rather than the underlying image intensity, keeps the
// refined position tied to where the cross-shaped template actually
// matched.
func refineCentroid(corr [][]float64, p PixelPoint, width int, t2 float64) PixelPoint {
	h := len(corr)
	w := 0
	if h > 0 {
		w = len(corr[0])
	}
	cx, cy := int(p.X), int(p.Y)
	loC, hiC := mathx.SafeRange(cx-width, cx+width+1, w)
	loR, hiR := mathx.SafeRange(cy-width, cy+width+1, h)

	var sumW, sumX, sumY float64
	for r := loR; r < hiR; r++ {
		for c := loC; c < hiC; c++ {
			v := corr[r][c]
			if v <= t2 {
				continue
			}
			sumW += v
			sumX += v * float64(c)
			sumY += v * float64(r)
		}
	}
	if sumW == 0 {
		return p
	}
	return PixelPoint{X: float32(sumX / sumW), Y: float32(sumY / sumW)}
}

func finitePoint(p PixelPoint) bool {
	return !math.IsNaN(float64(p.X)) && !math.IsInf(float64(p.X), 0) &&
		!math.IsNaN(float64(p.Y)) && !math.IsInf(float64(p.Y), 0)
}
