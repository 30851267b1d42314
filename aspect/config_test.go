package aspect

import "testing"

func TestDefaultConfigMatchesDocumentedValues(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.InitialNumChords != 30 || cfg.ChordsPerAxis != 10 {
		t.Errorf("unexpected chord counts: %+v", cfg)
	}
	if cfg.SolarRadius != 98 || cfg.NumFiducials != 12 {
		t.Errorf("unexpected solar/fiducial defaults: %+v", cfg)
	}
	if cfg.MappingConditionThreshold != 1e6 {
		t.Errorf("unexpected mapping condition threshold: %v", cfg.MappingConditionThreshold)
	}
}

func TestSetGetFloatRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SetFloat(LimbThresholdParam, 0.33)
	if got := cfg.GetFloat(LimbThresholdParam); got < 0.329 || got > 0.331 {
		t.Errorf("got %v, want ~0.33", got)
	}
}

func TestSetGetIntegerRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SetInteger(SolarRadiusParam, 120)
	if got := cfg.GetInteger(SolarRadiusParam); got != 120 {
		t.Errorf("got %d, want 120", got)
	}
}

func TestGetFloatUnrecognizedParam(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.GetFloat(FloatParam(999)); got != 0 {
		t.Errorf("expected 0 for unrecognized param, got %v", got)
	}
}
