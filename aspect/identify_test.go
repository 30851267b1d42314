package aspect

import "testing"

// threeNeighborCandidates builds three candidates spread across the
// reticle's real non-uniform gaps: P0-P1 share the short-axis pitch on
// rows and a long-axis distance-table gap on columns (a colPair); P0-P2
// share the short-axis pitch on columns and the same distance-table gap
// on rows (a rowPair). A uniform col*spacing grid never produces either
// relationship, since the long-axis gap (3x the short pitch at its
// tightest) is never near dx/spacing.
func threeNeighborCandidates(cfg Config) []fiducialCandidate {
	s := cfg.FiducialSpacing
	g := distanceTables(cfg.FiducialSpacing)[7] // tightest long-axis gap, adjacent to the origin fiducial
	return []fiducialCandidate{
		{pos: PixelPoint{X: 0, Y: 0}, score: 1},
		{pos: PixelPoint{X: float32(g), Y: float32(s)}, score: 1},
		{pos: PixelPoint{X: float32(s), Y: float32(g)}, score: 1},
	}
}

func TestIdentifyFiducialsRealReticleGaps(t *testing.T) {
	cfg := DefaultConfig()
	ids, state := identifyFiducials(threeNeighborCandidates(cfg), cfg)
	if state != NoError {
		t.Fatalf("expected NoError, got %v", state)
	}
	for i, id := range ids {
		if !id.Valid() {
			t.Errorf("candidate %d got invalid id %+v", i, id)
		}
	}
	// The second pass must recover candidate 1's row and candidate 2's
	// column, neither of which any single pair votes on directly.
	if ids[1].Row != ids[0].Row {
		t.Errorf("expected candidate 1 to inherit row %d from its colPair partner via the second pass, got %+v", ids[0].Row, ids[1])
	}
	if ids[2].Col != ids[0].Col {
		t.Errorf("expected candidate 2 to inherit col %d from its rowPair partner via the second pass, got %+v", ids[0].Col, ids[2])
	}
}

func TestIdentifyFiducialsEmpty(t *testing.T) {
	_, state := identifyFiducials(nil, DefaultConfig())
	if state != NoIDs {
		t.Errorf("expected NoIDs, got %v", state)
	}
}

func TestDistanceTablesAsymmetricAboutOrigin(t *testing.T) {
	dist := distanceTables(15.6)
	// dist[0] is the outermost gap; the review's quoted figure for the
	// long-axis neighbor gap on the real reticle.
	if got, want := dist[0], 87.36; abs64(got-want) > 1e-9 {
		t.Errorf("dist[0] = %v, want %v", got, want)
	}
	// The gap straddling the origin (index 7, between lattice
	// coordinates 0 and 1) is the tightest, not the widest: the
	// sequence is not symmetric about its midpoint because the
	// reticle's center row/column was never cut.
	if dist[7] >= dist[6] || dist[7] >= dist[8] {
		t.Errorf("expected dist[7]=%v to be the local minimum, got dist[6]=%v dist[8]=%v", dist[7], dist[6], dist[8])
	}
}

func TestResolveVotesTieIsAmbiguous(t *testing.T) {
	if got := resolveVotes([]int{1, 2}); got != IDAmbiguous {
		t.Errorf("expected IDAmbiguous on a tie, got %d", got)
	}
	if got := resolveVotes([]int{3, 3, 4}); got != 3 {
		t.Errorf("expected the majority vote 3, got %d", got)
	}
	if got := resolveVotes(nil); got != IDUnknown {
		t.Errorf("expected IDUnknown with no votes, got %d", got)
	}
}

func abs64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
