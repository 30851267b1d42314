package aspect

import "fmt"

// State is the aspect pipeline's sole error channel: errors are values,
// not exceptions. Severity is monotone increasing; lower is better.
// Getters compare the current State against a stage-specific ceiling
// and either return their data or echo State.
type State int

const (
	// NoError means the pipeline completed every stage successfully.
	NoError State = iota

	// DynamicRangeLow means max-min < 32 in the robust histogram pass.
	DynamicRangeLow

	// MinMaxBad means the robust min was not strictly less than the
	// robust max.
	MinMaxBad

	// FrameEmpty means LoadFrame was given a frame with zero area.
	FrameEmpty

	// NoLimbCrossings means the center estimator found zero limb
	// crossings across every chord.
	NoLimbCrossings

	// FewLimbCrossings means fewer than 4 limb crossings were found.
	FewLimbCrossings

	// CenterOutOfBounds means the fitted pixel center fell outside the frame.
	CenterOutOfBounds

	// CenterErrorLarge means a per-axis center error exceeded ErrorLimit.
	CenterErrorLarge

	// SolarImageEmpty means the solar sub-image selection produced zero area.
	SolarImageEmpty

	// SolarImageSmall means the solar sub-image was too small to hold the reticle.
	SolarImageSmall

	// SolarImageOffsetOOB means the solar sub-image's offset placed it
	// outside the frame.
	SolarImageOffsetOOB

	// NoFiducials means the fiducial detector found no candidates.
	NoFiducials

	// FewFiducials means fewer than 3 fiducials were found.
	FewFiducials

	// NoIDs means no fiducial received a valid lattice ID on both axes.
	NoIDs

	// FewIDs means fewer than 3 fiducials received valid lattice IDs.
	FewIDs

	// MappingIllConditioned means a per-axis linear fit's condition
	// number exceeded MappingConditionThreshold, or that the fit could
	// not be made (fewer than 2 validly identified fiducials, or a
	// failed solve).
	MappingIllConditioned

	// StaleData is the pipeline's initial state before any frame has
	// been run, and persists if a getter is queried before Run.
	StaleData
)

func (s State) String() string {
	switch s {
	case NoError:
		return "NoError"
	case DynamicRangeLow:
		return "DynamicRangeLow"
	case MinMaxBad:
		return "MinMaxBad"
	case FrameEmpty:
		return "FrameEmpty"
	case NoLimbCrossings:
		return "NoLimbCrossings"
	case FewLimbCrossings:
		return "FewLimbCrossings"
	case CenterOutOfBounds:
		return "CenterOutOfBounds"
	case CenterErrorLarge:
		return "CenterErrorLarge"
	case SolarImageEmpty:
		return "SolarImageEmpty"
	case SolarImageSmall:
		return "SolarImageSmall"
	case SolarImageOffsetOOB:
		return "SolarImageOffsetOOB"
	case NoFiducials:
		return "NoFiducials"
	case FewFiducials:
		return "FewFiducials"
	case NoIDs:
		return "NoIDs"
	case FewIDs:
		return "FewIDs"
	case MappingIllConditioned:
		return "MappingIllConditioned"
	case StaleData:
		return "StaleData"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// getter ceilings: a getter's data is valid only while State is
// strictly below the ceiling for the stage that produces it. Ceilings
// sit one state past the last member of their stage's failure group,
// mirroring the original's LIMB_ERROR/CENTER_ERROR/FIDUCIAL_ERROR/
// ID_ERROR/MAPPING_ERROR sentinels.
const (
	ceilingMinMax     = FrameEmpty
	ceilingCrossings  = CenterOutOfBounds
	ceilingCenter     = SolarImageEmpty
	ceilingFiducials  = NoIDs
	ceilingFiducialID = MappingIllConditioned
	ceilingMapping    = StaleData
)
