package aspect

import "testing"

func TestFindChordCrossingsNoDisk(t *testing.T) {
	samples := make([]uint8, 50)
	for i := range samples {
		samples[i] = 10
	}
	_, code := findChordCrossings(samples, 50, 100, 2, 11, 2)
	if code != chordReject {
		t.Errorf("expected chordReject for a flat dim chord, got %v", code)
	}
}

func TestFindChordCrossingsTwoRealEdges(t *testing.T) {
	samples := make([]uint8, 50)
	for i := range samples {
		if i >= 15 && i < 35 {
			samples[i] = 200
		} else {
			samples[i] = 10
		}
	}
	crossings, code := findChordCrossings(samples, 100, 150, 2, 11, 2)
	if code != chordOK {
		t.Fatalf("expected chordOK, got %v", code)
	}
	if crossings[0].virtual || crossings[1].virtual {
		t.Errorf("expected two real (fitted) edges, got %+v", crossings)
	}
	if crossings[0].pos < 13 || crossings[0].pos > 16 {
		t.Errorf("rising edge position out of expected range: %v", crossings[0].pos)
	}
	if crossings[1].pos < 33 || crossings[1].pos > 36 {
		t.Errorf("falling edge position out of expected range: %v", crossings[1].pos)
	}
}

func TestFindChordCrossingsSingleEdgeSynthesizesVirtual(t *testing.T) {
	samples := make([]uint8, 50)
	for i := range samples {
		if i >= 30 {
			samples[i] = 200
		} else {
			samples[i] = 10
		}
	}
	// solarRadius=11 puts the lone rising edge (30) within 2*solarRadius
	// of the chord's far end, so the falling edge is synthesized there.
	crossings, code := findChordCrossings(samples, 100, 150, 2, 11, 2)
	if code != chordOK {
		t.Fatalf("expected chordOK, got %v", code)
	}
	if crossings[0].virtual {
		t.Errorf("expected the near edge to be fitted, got virtual: %+v", crossings[0])
	}
	if !crossings[1].virtual {
		t.Errorf("expected the far edge to be synthesized virtual, got %+v", crossings[1])
	}
	if crossings[1].pos != 50 {
		t.Errorf("expected virtual far edge at len(samples)=50, got %v", crossings[1].pos)
	}
}

func TestFindChordCrossingsLoneEdgeFarFromEitherBoundaryIsRejected(t *testing.T) {
	samples := make([]uint8, 50)
	for i := range samples {
		if i >= 20 {
			samples[i] = 200
		} else {
			samples[i] = 10
		}
	}
	// solarRadius small enough that edge 20 is not within 2*solarRadius
	// of either boundary (2*3=6).
	_, code := findChordCrossings(samples, 100, 150, 2, 3, 2)
	if code != chordReject {
		t.Errorf("expected chordReject for an unpaired interior edge, got %v", code)
	}
}

func TestFindChordCrossingsCloseEdgePairPrunedByMinLimbWidth(t *testing.T) {
	samples := make([]uint8, 50)
	for i := range samples {
		switch {
		case i >= 15 && i < 18:
			samples[i] = 200 // a narrow spike, not the disk
		case i >= 30 && i < 45:
			samples[i] = 200
		default:
			samples[i] = 10
		}
	}
	// The spike's rising/falling pair (15,-17) has a spread of 2, well
	// under minLimbWidth=5, so both are flagged and erased, leaving the
	// real pair (30,-44) as the surviving two edges.
	crossings, code := findChordCrossings(samples, 100, 150, 2, 11, 5)
	if code != chordOK {
		t.Fatalf("expected chordOK after pruning the spike, got %v", code)
	}
	if crossings[0].pos < 28 || crossings[0].pos > 31 {
		t.Errorf("expected the surviving rising edge near 30, got %v", crossings[0].pos)
	}
}
