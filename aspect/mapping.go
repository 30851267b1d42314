package aspect

import "github.jpl.nasa.gov/bdube/aspect/mathx"

// Mapping is a fitted, per-axis affine transform from pixel coordinates
// to the instrument-fixed screen coordinate system (§4.H). X and Y are
// fit independently, since the reticle's row and column pitch need not
// agree and the instrument is not expected to be perfectly square to
// the sensor.
type Mapping struct {
	X, Y mathx.LinearFitResult
}

// PixelToScreen evaluates the fitted mapping at a pixel point.
func (m Mapping) PixelToScreen(p PixelPoint) ScreenPoint {
	x := m.X.Intercept + m.X.Slope*float64(p.X)
	y := m.Y.Intercept + m.Y.Slope*float64(p.Y)
	return ScreenPoint{X: float32(x), Y: float32(y)}
}

// fiducialIDtoScreen computes the nominal screen-space location of a
// lattice coordinate. The reticle's rows and columns are cut on a
// piecewise-quadratic pitch that is asymmetric about the origin
// fiducial (the row/column containing it was never cut), and each
// axis couples into the other by a fixed cross term. Both quirks are
// etched into the reticle itself, not measurement noise, so the
// formula is exact rather than fit.
func fiducialIDtoScreen(id FiducialID) ScreenPoint {
	col, row := id.Col, id.Row

	colTerm := 45*col + 3*col*(col-1)
	if col < 0 {
		colTerm = 48*col - 3*col*(col+1)
	}
	rowTerm := 45*row + 3*row*(row-1)
	if row < 0 {
		rowTerm = 48*row - 3*row*(row+1)
	}

	x := 6 * (colTerm - 15*row)
	y := 6 * (rowTerm + 15*col)
	return ScreenPoint{X: float32(x), Y: float32(y)}
}

// fitMapping fits a Mapping from paired pixel positions and their
// identified lattice coordinates. Only fiducials with a Valid ID
// participate. The fit raises MappingIllConditioned if either axis's
// condition number exceeds cfg.MappingConditionThreshold, signaling the
// fiducials used span too little of the frame (or are nearly
// collinear) to trust the extrapolated mapping.
func fitMapping(candidates []fiducialCandidate, ids []FiducialID, cfg Config) (Mapping, State) {
	var pixX, pixY, scrX, scrY []float64
	for i, id := range ids {
		if !id.Valid() {
			continue
		}
		sp := fiducialIDtoScreen(id)
		pixX = append(pixX, float64(candidates[i].pos.X))
		pixY = append(pixY, float64(candidates[i].pos.Y))
		scrX = append(scrX, float64(sp.X))
		scrY = append(scrY, float64(sp.Y))
	}

	if len(pixX) < 2 {
		return Mapping{}, MappingIllConditioned
	}

	fitX, err := mathx.LinearFit(pixX, scrX)
	if err != nil {
		return Mapping{}, MappingIllConditioned
	}
	fitY, err := mathx.LinearFit(pixY, scrY)
	if err != nil {
		return Mapping{}, MappingIllConditioned
	}

	m := Mapping{X: fitX, Y: fitY}
	if fitX.ConditionNumber > cfg.MappingConditionThreshold || fitY.ConditionNumber > cfg.MappingConditionThreshold {
		return m, MappingIllConditioned
	}
	return m, NoError
}
