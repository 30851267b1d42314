package aspect

// Config holds the aspect pipeline's tunable parameters. Configuration
// persists across frames; only the per-frame outputs are cleared at the
// start of each Run.
type Config struct {
	// InitialNumChords is the number of chords per axis used when
	// searching the full frame for the solar center.
	InitialNumChords int

	// ChordsPerAxis is the number of chords per axis used when
	// refining the center within a solar sub-image.
	ChordsPerAxis int

	// LimbThreshold is the fractional intensity, between the robust
	// min and max, marking the background-to-limb transition.
	LimbThreshold float64

	// DiskThreshold is the fractional intensity a chord must exceed
	// somewhere to be considered solar-disk-bearing.
	DiskThreshold float64

	// SolarRadius is the expected solar radius in pixels.
	SolarRadius int

	// RadiusMargin sets the solar sub-image half-size to
	// SolarRadius*(1+RadiusMargin).
	RadiusMargin float64

	// ErrorLimit rejects centers whose per-axis standard deviation
	// exceeds this many pixels.
	ErrorLimit float64

	// LimbFitWidth is the +/- window around a coarse edge used for
	// linear refinement of the sub-pixel limb crossing.
	LimbFitWidth int

	// FiducialLength is the length, in pixels, of a fiducial cross's arms.
	FiducialLength int

	// FiducialWidth is the width, in pixels, of a fiducial cross's arms.
	FiducialWidth int

	// FiducialThreshold is the primary detection threshold, in
	// standard deviations above the correlation image's mean.
	FiducialThreshold float64

	// FiducialSpacing is the short-side distance, in pixels, of a
	// fiducial pair.
	FiducialSpacing float64

	// FiducialSpacingTol is the tolerance, in pixels, allowed around FiducialSpacing.
	FiducialSpacingTol float64

	// FiducialTwist is a pre-rotation, in degrees, applied to detected
	// fiducial coordinates before lattice identification.
	FiducialTwist float64

	// NumFiducials caps how many fiducials the detector will accept.
	NumFiducials int

	// MinLimbWidth bounds the pixel gap between a chord's paired edges:
	// pairs no more than MinLimbWidth apart are rejected as noise.
	MinLimbWidth int

	// MappingConditionThreshold gates MappingIllConditioned: a per-axis
	// linear fit whose condition number exceeds this raises the state.
	MappingConditionThreshold float64
}

// DefaultConfig returns the pipeline's default parameter set.
func DefaultConfig() Config {
	return Config{
		InitialNumChords:          30,
		ChordsPerAxis:             10,
		LimbThreshold:             0.25,
		DiskThreshold:             0.75,
		SolarRadius:               98,
		RadiusMargin:              0.25,
		ErrorLimit:                50,
		LimbFitWidth:              2,
		FiducialLength:            15,
		FiducialWidth:             2,
		FiducialThreshold:         5,
		FiducialSpacing:           15.6,
		FiducialSpacingTol:        1.5,
		FiducialTwist:             0.0,
		NumFiducials:              12,
		MinLimbWidth:              15, // == FiducialLength by default
		MappingConditionThreshold: 1e6,
	}
}

// FloatParam names a float64-valued configuration parameter for the
// GetFloat/SetFloat surface.
type FloatParam int

const (
	LimbThresholdParam FloatParam = iota
	DiskThresholdParam
	ErrorLimitParam
	RadiusMarginParam
	FiducialThresholdParam
	FiducialSpacingParam
	FiducialSpacingTolParam
	FiducialTwistParam
	MappingConditionThresholdParam
)

// IntParam names an int-valued configuration parameter for the
// GetInteger/SetInteger surface.
type IntParam int

const (
	NumChordsSearchingParam IntParam = iota
	NumChordsOperatingParam
	MinLimbWidthParam
	LimbFitWidthParam
	SolarRadiusParam
	FiducialLengthParam
	FiducialWidthParam
	NumFiducialsParam
)

// GetFloat returns the current value of a float parameter, or 0 for an
// unrecognized one.
func (c Config) GetFloat(p FloatParam) float32 {
	switch p {
	case LimbThresholdParam:
		return float32(c.LimbThreshold)
	case DiskThresholdParam:
		return float32(c.DiskThreshold)
	case ErrorLimitParam:
		return float32(c.ErrorLimit)
	case RadiusMarginParam:
		return float32(c.RadiusMargin)
	case FiducialThresholdParam:
		return float32(c.FiducialThreshold)
	case FiducialSpacingParam:
		return float32(c.FiducialSpacing)
	case FiducialSpacingTolParam:
		return float32(c.FiducialSpacingTol)
	case FiducialTwistParam:
		return float32(c.FiducialTwist)
	case MappingConditionThresholdParam:
		return float32(c.MappingConditionThreshold)
	default:
		return 0
	}
}

// SetFloat updates a float parameter in place. Unrecognized params are ignored.
func (c *Config) SetFloat(p FloatParam, value float32) {
	v := float64(value)
	switch p {
	case LimbThresholdParam:
		c.LimbThreshold = v
	case DiskThresholdParam:
		c.DiskThreshold = v
	case ErrorLimitParam:
		c.ErrorLimit = v
	case RadiusMarginParam:
		c.RadiusMargin = v
	case FiducialThresholdParam:
		c.FiducialThreshold = v
	case FiducialSpacingParam:
		c.FiducialSpacing = v
	case FiducialSpacingTolParam:
		c.FiducialSpacingTol = v
	case FiducialTwistParam:
		c.FiducialTwist = v
	case MappingConditionThresholdParam:
		c.MappingConditionThreshold = v
	}
}

// GetInteger returns the current value of an int parameter, or 0 for an
// unrecognized one.
func (c Config) GetInteger(p IntParam) int32 {
	switch p {
	case NumChordsSearchingParam:
		return int32(c.InitialNumChords)
	case NumChordsOperatingParam:
		return int32(c.ChordsPerAxis)
	case MinLimbWidthParam:
		return int32(c.MinLimbWidth)
	case LimbFitWidthParam:
		return int32(c.LimbFitWidth)
	case SolarRadiusParam:
		return int32(c.SolarRadius)
	case FiducialLengthParam:
		return int32(c.FiducialLength)
	case FiducialWidthParam:
		return int32(c.FiducialWidth)
	case NumFiducialsParam:
		return int32(c.NumFiducials)
	default:
		return 0
	}
}

// SetInteger updates an int parameter in place. Unrecognized params are ignored.
func (c *Config) SetInteger(p IntParam, value int32) {
	v := int(value)
	switch p {
	case NumChordsSearchingParam:
		c.InitialNumChords = v
	case NumChordsOperatingParam:
		c.ChordsPerAxis = v
	case MinLimbWidthParam:
		c.MinLimbWidth = v
	case LimbFitWidthParam:
		c.LimbFitWidth = v
	case SolarRadiusParam:
		c.SolarRadius = v
	case FiducialLengthParam:
		c.FiducialLength = v
	case FiducialWidthParam:
		c.FiducialWidth = v
	case NumFiducialsParam:
		c.NumFiducials = v
	}
}
