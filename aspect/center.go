package aspect

import (
	"math"

	"github.jpl.nasa.gov/bdube/aspect/mathx"
)

// centerResult is the outcome of one center-estimation pass (§4.D)
// before it is folded into Pipeline state: the midpoint-aggregated
// center and its per-axis error, plus every accepted limb crossing. In
// a refined (non-search) pass estimateCenter adds the sub-image offset
// to the center and the crossings before returning, so both are in
// frame coordinates.
type centerResult struct {
	center         PixelPoint
	errorX, errorY float64
	crossings      CoordList
}

// estimateCenter locates the solar limb by sampling numChords row
// chords (localizing the X center) and numChords column chords
// (localizing the Y center), fitting each chord's entering/exiting limb
// pair, and aggregating the resulting chord midpoints' mean and
// standard deviation per axis (§4.D).
//
// search selects whole-frame mode: chords are scanned across all of f,
// and a virtual crossing synthesized at either sensor boundary is
// always trusted. When search is false, f is instead a sub-image of a
// larger frame at offset within it (frameWidth/frameHeight give that
// frame's size); a virtual crossing at the sub-image's near edge is
// only trusted if the sub-image's offset on that axis is exactly zero,
// and one at its far edge only if that edge abuts the frame's far edge
// — anywhere else, a virtual crossing means the sub-image clipped the
// disk, not that the disk ends there, and the chord is discarded.
func estimateCenter(f Frame, cfg Config, numChords int, pixelMin, pixelMax uint8, search bool, offset PixelPoint, frameWidth, frameHeight int) (centerResult, State) {
	if f.Empty() {
		return centerResult{}, FrameEmpty
	}

	limbThreshold := float64(pixelMin) + cfg.LimbThreshold*float64(int(pixelMax)-int(pixelMin))
	diskThreshold := float64(pixelMin) + cfg.DiskThreshold*float64(int(pixelMax)-int(pixelMin))

	rowStep := chordStep(f.Height, numChords)
	colStep := chordStep(f.Width, numChords)
	rowStart, colStart := rowStep/2, colStep/2

	var midX, midY []float64
	var crossings CoordList

	for k := 0; k < numChords; k++ {
		row := rowStart + k*rowStep
		if row >= f.Height {
			continue
		}
		pair, code := findChordCrossings(f.Row(row), limbThreshold, diskThreshold, cfg.LimbFitWidth, cfg.SolarRadius, cfg.MinLimbWidth)
		if code != chordOK {
			continue
		}
		if !acceptRowsPassPair(pair, f.Width, frameWidth, search, offset.X) {
			continue
		}
		crossings.Push(PixelPoint{X: float32(pair[0].pos), Y: float32(row)})
		crossings.Push(PixelPoint{X: float32(pair[1].pos), Y: float32(row)})
		midX = append(midX, (pair[0].pos+pair[1].pos)/2)
	}

	for k := 0; k < numChords; k++ {
		col := colStart + k*colStep
		if col >= f.Width {
			continue
		}
		pair, code := findChordCrossings(f.Col(col), limbThreshold, diskThreshold, cfg.LimbFitWidth, cfg.SolarRadius, cfg.MinLimbWidth)
		if code != chordOK {
			continue
		}
		if !acceptColsPassPair(pair, f.Height, frameHeight, search, offset.Y) {
			continue
		}
		crossings.Push(PixelPoint{X: float32(col), Y: float32(pair[0].pos)})
		crossings.Push(PixelPoint{X: float32(col), Y: float32(pair[1].pos)})
		midY = append(midY, (pair[0].pos+pair[1].pos)/2)
	}

	if crossings.Size() == 0 {
		return centerResult{}, NoLimbCrossings
	}
	if crossings.Size() < 4 {
		return centerResult{}, FewLimbCrossings
	}
	if len(midX) == 0 || len(midY) == 0 {
		return centerResult{}, FewLimbCrossings
	}

	cx, cy := mathx.Mean(midX), mathx.Mean(midY)
	ex, ey := mathx.StdDev(midX), mathx.StdDev(midY)

	if !search {
		cx += float64(offset.X)
		cy += float64(offset.Y)
		for i := range crossings {
			crossings[i].X += offset.X
			crossings[i].Y += offset.Y
		}
	}

	res := centerResult{
		center:    PixelPoint{X: float32(cx), Y: float32(cy)},
		errorX:    ex,
		errorY:    ey,
		crossings: crossings,
	}

	if cx < 0 || cx >= float64(frameWidth) || cy < 0 || cy >= float64(frameHeight) || !isFinite(cx) || !isFinite(cy) {
		return res, CenterOutOfBounds
	}
	if ex > cfg.ErrorLimit || ey > cfg.ErrorLimit || !isFinite(ex) || !isFinite(ey) {
		return res, CenterErrorLarge
	}
	return res, NoError
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// chordStep divides dimension into numChords equal steps, never
// returning less than 1 so a degenerate config can't divide by zero.
func chordStep(dimension, numChords int) int {
	if numChords < 1 {
		numChords = 1
	}
	step := dimension / numChords
	if step < 1 {
		step = 1
	}
	return step
}

// acceptRowsPassPair gates a row chord's accepted pair: a virtual
// crossing at the near edge (-1) is trusted only in search mode or when
// the sub-image's offset on X is exactly zero; one at the far edge
// (rowWidth) only in search mode or when the sub-image's right edge
// abuts the frame's right edge.
func acceptRowsPassPair(pair [2]limbCrossing, rowWidth, frameWidth int, search bool, offsetX float32) bool {
	if pair[0].virtual && !search && offsetX > 0 {
		return false
	}
	if pair[1].virtual && !search && offsetX+float32(rowWidth) < float32(frameWidth) {
		return false
	}
	return true
}

// acceptColsPassPair is acceptRowsPassPair's mirror for column chords,
// gated on Y instead of X.
func acceptColsPassPair(pair [2]limbCrossing, colHeight, frameHeight int, search bool, offsetY float32) bool {
	if pair[0].virtual && !search && offsetY > 0 {
		return false
	}
	if pair[1].virtual && !search && offsetY+float32(colHeight) < float32(frameHeight) {
		return false
	}
	return true
}
