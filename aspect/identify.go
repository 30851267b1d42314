package aspect

import (
	"math"

	"github.jpl.nasa.gov/bdube/aspect/mathx"
)

// fiducialPair records two candidate indices whose separation matches
// the reticle's short-axis pitch on one axis, letting the long-axis
// separation be looked up in the distance tables.
type fiducialPair struct {
	i, j int
}

// distanceTables returns the 14 absolute pixel gaps between
// consecutive lattice indices along either axis, measured outward from
// the (missing) center row/column the reticle was cut without. Index d
// corresponds to the gap between lattice coordinates d-7 and d-6; the
// asymmetric cut (45s on one side, 48s on the other, §4.H) makes the
// table itself asymmetric, not just its tolerance window.
func distanceTables(spacing float64) [14]float64 {
	var d [14]float64
	for k := 0; k < 14; k++ {
		if k < 7 {
			d[k] = float64(84-6*k) * spacing / 15
		} else {
			d[k] = float64(45+6*(k-7)) * spacing / 15
		}
	}
	return d
}

// identifyFiducials assigns each candidate a FiducialID on the
// reticle's integer lattice (§4.G). Candidates are pre-rotated about
// the origin by cfg.FiducialTwist so the lattice's row/column axes line
// up with the image's. A pair of candidates one short-axis pitch apart
// on one axis votes for both candidates' coordinate on the OTHER axis,
// read off the distance tables; a first pass resolves everything
// reachable this way, and a second pass fills in anything still
// unknown by matching or incrementing from an already-identified
// partner sharing an edge.
func identifyFiducials(candidates []fiducialCandidate, cfg Config) ([]FiducialID, State) {
	k := len(candidates)
	if k == 0 {
		return nil, NoIDs
	}

	rotated := rotateCandidates(candidates, cfg.FiducialTwist)
	mDist := distanceTables(cfg.FiducialSpacing)
	nDist := mDist // the reticle is cut identically along both axes

	var rowPairs, colPairs []fiducialPair
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			rowDiff := float64(rotated[i].Y - rotated[j].Y)
			colDiff := float64(rotated[i].X - rotated[j].X)
			tol := cfg.FiducialSpacingTol

			switch {
			case math.Abs(math.Abs(rowDiff)-cfg.FiducialSpacing) < tol &&
				math.Abs(colDiff) > nDist[7]-tol && math.Abs(colDiff) < nDist[0]+tol:
				colPairs = append(colPairs, fiducialPair{i, j})
			case math.Abs(math.Abs(colDiff)-cfg.FiducialSpacing) < tol &&
				math.Abs(rowDiff) > mDist[7]-tol && math.Abs(rowDiff) < mDist[0]+tol:
				rowPairs = append(rowPairs, fiducialPair{i, j})
			}
		}
	}

	ids := make([]FiducialID, k)
	for i := range ids {
		ids[i] = FiducialID{Col: IDUnknown, Row: IDUnknown}
	}

	rowVotes := make([][]int, k)
	colVotes := make([][]int, k)
	voteAxisPairs(rowPairs, rotated, mDist, cfg.FiducialSpacingTol, rowVotes, true)
	voteAxisPairs(colPairs, rotated, nDist, cfg.FiducialSpacingTol, colVotes, false)

	for i := 0; i < k; i++ {
		ids[i].Row = resolveVotes(rowVotes[i])
		ids[i].Col = resolveVotes(colVotes[i])
	}

	// Second pass: propagate from an already-identified partner across
	// whichever pairs this candidate still lacks an axis for.
	rowVotes = make([][]int, k)
	colVotes = make([][]int, k)

	for _, p := range rowPairs {
		rowDiff := float64(rotated[p.j].Y - rotated[p.i].Y)
		if ids[p.i].Col == IDUnknown && ids[p.j].Col != IDUnknown {
			colVotes[p.i] = append(colVotes[p.i], ids[p.j].Col)
		} else if ids[p.i].Col != IDUnknown && ids[p.j].Col == IDUnknown {
			colVotes[p.j] = append(colVotes[p.j], ids[p.i].Col)
		}
		if ids[p.i].Row == IDUnknown && ids[p.j].Row != IDUnknown {
			if rowDiff >= 0 {
				rowVotes[p.i] = append(rowVotes[p.i], ids[p.j].Row-1)
			} else {
				rowVotes[p.i] = append(rowVotes[p.i], ids[p.j].Row+1)
			}
		} else if ids[p.i].Row != IDUnknown && ids[p.j].Row == IDUnknown {
			if rowDiff >= 0 {
				rowVotes[p.j] = append(rowVotes[p.j], ids[p.i].Row+1)
			} else {
				rowVotes[p.j] = append(rowVotes[p.j], ids[p.i].Row-1)
			}
		}
	}
	for _, p := range colPairs {
		colDiff := float64(rotated[p.i].X - rotated[p.j].X)
		if ids[p.i].Row == IDUnknown && ids[p.j].Row != IDUnknown {
			rowVotes[p.i] = append(rowVotes[p.i], ids[p.j].Row)
		} else if ids[p.i].Row != IDUnknown && ids[p.j].Row == IDUnknown {
			rowVotes[p.j] = append(rowVotes[p.j], ids[p.i].Row)
		}
		if ids[p.i].Col == IDUnknown && ids[p.j].Col != IDUnknown {
			if colDiff >= 0 {
				colVotes[p.i] = append(colVotes[p.i], ids[p.j].Col-1)
			} else {
				colVotes[p.i] = append(colVotes[p.i], ids[p.j].Col+1)
			}
		} else if ids[p.i].Col != IDUnknown && ids[p.j].Col == IDUnknown {
			if colDiff >= 0 {
				colVotes[p.j] = append(colVotes[p.j], ids[p.i].Col+1)
			} else {
				colVotes[p.j] = append(colVotes[p.j], ids[p.i].Col-1)
			}
		}
	}

	for i := 0; i < k; i++ {
		if len(rowVotes[i]) > 0 {
			ids[i].Row = resolveVotes(rowVotes[i])
		}
		if len(colVotes[i]) > 0 {
			ids[i].Col = resolveVotes(colVotes[i])
		}
	}

	valid := 0
	for _, id := range ids {
		if id.Valid() {
			valid++
		}
	}
	if valid == 0 {
		return ids, NoIDs
	}
	if valid < 3 {
		return ids, FewIDs
	}
	return ids, NoError
}

// voteAxisPairs casts first-pass votes from pairs spaced near
// fiducialSpacing on their OTHER axis: a pair's separation along the
// voting axis is matched against dist, and the table index it matches
// (less 7, shifted by one for the far member) is cast as each member's
// vote for that axis. byRow selects whether the difference is read off
// rotated[].Y (true) or rotated[].X (false), matching the asymmetry
// between how rowPairs and colPairs were built.
func voteAxisPairs(pairs []fiducialPair, rotated []PixelPoint, dist [14]float64, tol float64, votes [][]int, byRow bool) {
	for _, p := range pairs {
		var diff float64
		if byRow {
			diff = float64(rotated[p.j].Y - rotated[p.i].Y)
		} else {
			diff = float64(rotated[p.i].X - rotated[p.j].X)
		}
		for d := 0; d < len(dist); d++ {
			if math.Abs(math.Abs(diff)-dist[d]) >= tol {
				continue
			}
			lo, hi := d-7, d+1-7
			if diff > 0 {
				votes[p.i] = append(votes[p.i], lo)
				votes[p.j] = append(votes[p.j], hi)
			} else {
				votes[p.i] = append(votes[p.i], hi)
				votes[p.j] = append(votes[p.j], lo)
			}
		}
	}
}

// resolveVotes reduces a candidate's vote bag to IDUnknown (no votes),
// the unique mode, or IDAmbiguous (a tie).
func resolveVotes(votes []int) int {
	if len(votes) == 0 {
		return IDUnknown
	}
	modes := mathx.Mode(votes)
	if len(modes) != 1 {
		return IDAmbiguous
	}
	return modes[0]
}

// rotateCandidates rotates every candidate position by twistDeg about
// the pixel-coordinate origin, aligning the reticle's row/column axes
// with the frame's before lattice identification. The reticle's
// absolute distance tables are defined relative to that same origin,
// so rotating about a candidate centroid instead would shift every
// pair's measured separation by the centroid's own rotation.
func rotateCandidates(candidates []fiducialCandidate, twistDeg float64) []PixelPoint {
	pts := make([]PixelPoint, len(candidates))
	if twistDeg == 0 {
		for i, c := range candidates {
			pts[i] = c.pos
		}
		return pts
	}
	for i, c := range candidates {
		rp := mathx.Rotate2D(twistDeg, mathx.Point2D{X: float64(c.pos.X), Y: float64(c.pos.Y)})
		pts[i] = PixelPoint{X: float32(rp.X), Y: float32(rp.Y)}
	}
	return pts
}
