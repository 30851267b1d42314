package aspect

import (
	"context"
	"testing"

	"github.jpl.nasa.gov/bdube/aspect/camera"
)

func TestFindFiducialsDetectsCrosses(t *testing.T) {
	// Fiducial marks are opaque: darker than the disk they're etched
	// into, not brighter.
	specs := []camera.FiducialSpec{
		{X: 30, Y: 30, Length: 15, Width: 2, Intensity: 20},
		{X: 100, Y: 30, Length: 15, Width: 2, Intensity: 20},
		{X: 30, Y: 100, Length: 15, Width: 2, Intensity: 20},
		{X: 100, Y: 100, Length: 15, Width: 2, Intensity: 20},
	}
	src := camera.MockSource{Width: 150, Height: 150, Background: 200, Disk: 200, Fiducials: specs}
	frame, _, err := src.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.FiducialThreshold = 3
	candidates, state := findFiducials(frame, 200, cfg)
	if state != NoError {
		t.Fatalf("expected NoError, got %v (%d candidates)", state, len(candidates))
	}
	if len(candidates) < 3 {
		t.Fatalf("expected to detect at least 3 fiducials, got %d", len(candidates))
	}
}

func TestFindFiducialsEmptyImage(t *testing.T) {
	_, state := findFiducials(camera.Frame{}, 255, DefaultConfig())
	if state != SolarImageEmpty {
		t.Errorf("expected SolarImageEmpty, got %v", state)
	}
}

func TestChebyshevDistance(t *testing.T) {
	a := PixelPoint{X: 0, Y: 0}
	b := PixelPoint{X: 3, Y: 5}
	if d := chebyshev(a, b); d != 5 {
		t.Errorf("expected 5, got %v", d)
	}
}

func TestIsLocalMax4(t *testing.T) {
	grid := [][]float64{
		{1, 2, 1},
		{2, 5, 2},
		{1, 2, 1},
	}
	if !isLocalMax4(grid, 1, 1) {
		t.Error("expected center to be a local max")
	}
	if isLocalMax4(grid, 0, 0) {
		t.Error("expected corner to not be a local max")
	}
}
