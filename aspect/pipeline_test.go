package aspect

import (
	"context"
	"testing"

	"github.jpl.nasa.gov/bdube/aspect/camera"
)

func syntheticFrame(t *testing.T) camera.Frame {
	t.Helper()
	cfg := DefaultConfig()
	spacing := cfg.FiducialSpacing * 6 // spread fiducials out in pixel space for visibility
	var fiducials []camera.FiducialSpec
	for row := -1; row <= 1; row++ {
		for col := -1; col <= 1; col++ {
			fiducials = append(fiducials, camera.FiducialSpec{
				X:         300 + float64(col)*spacing,
				Y:         300 + float64(row)*spacing,
				Length:    cfg.FiducialLength,
				Width:     cfg.FiducialWidth,
				Intensity: 20, // opaque: darker than the disk, not brighter
			})
		}
	}
	src := camera.MockSource{
		Width: 600, Height: 600,
		Background: 20, Disk: 200,
		CenterX: 300, CenterY: 300, Radius: float64(cfg.SolarRadius),
		Fiducials: fiducials,
	}
	f, status, err := src.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if status != camera.AcquireOK {
		t.Fatalf("unexpected status %v", status)
	}
	return f
}

func TestNewPipelineStateIsStale(t *testing.T) {
	p := NewPipeline(DefaultConfig())
	if p.State() != StaleData {
		t.Errorf("expected StaleData before any Run, got %v", p.State())
	}
	if _, state := p.GetPixelCenter(); state != StaleData {
		t.Errorf("expected getter to echo StaleData, got %v", state)
	}
}

func TestPipelineLoadFrameEmptyRaisesFrameEmpty(t *testing.T) {
	p := NewPipeline(DefaultConfig())
	p.LoadFrame(camera.Frame{})
	if p.State() != FrameEmpty {
		t.Errorf("expected FrameEmpty, got %v", p.State())
	}
}

func TestPipelineRunFullFrame(t *testing.T) {
	f := syntheticFrame(t)
	p := NewPipeline(DefaultConfig())
	p.LoadFrame(f)
	p.Run()

	center, centerState := p.GetPixelCenter()
	if centerState >= ceilingCenter {
		t.Fatalf("GetPixelCenter returned an error state: %v", centerState)
	}
	if diff := float64(center.X) - 300; diff < -5 || diff > 5 {
		t.Errorf("pixel center X too far off: %v", center.X)
	}
	if diff := float64(center.Y) - 300; diff < -5 || diff > 5 {
		t.Errorf("pixel center Y too far off: %v", center.Y)
	}
}

func TestPipelineGettersEchoStateOnEarlyFailure(t *testing.T) {
	p := NewPipeline(DefaultConfig())
	f := camera.NewFrame(50, 50)
	for i := range f.Pix {
		f.Pix[i] = 10 // flat frame: MinMaxBad almost immediately
	}
	p.LoadFrame(f)
	p.Run()

	if _, state := p.GetPixelCrossings(); state != p.State() {
		t.Errorf("expected GetPixelCrossings to echo pipeline state %v, got %v", p.State(), state)
	}
	if _, state := p.GetMapping(); state != p.State() {
		t.Errorf("expected GetMapping to echo pipeline state %v, got %v", p.State(), state)
	}
}

func TestPipelineSetConfigTakesEffect(t *testing.T) {
	p := NewPipeline(DefaultConfig())
	cfg := p.Config()
	cfg.SolarRadius = 50
	p.SetConfig(cfg)
	if p.Config().SolarRadius != 50 {
		t.Errorf("expected SetConfig to take effect, got %v", p.Config().SolarRadius)
	}
}
