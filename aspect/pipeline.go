// Package aspect implements the solar-pointing aspect-determination
// pipeline: given one camera frame, it locates the solar limb,
// detects reticle fiducial marks, identifies them against the reticle's
// lattice, and fits a pixel-to-screen mapping. The pipeline is a single
// state machine, not a set of independently callable stages — Run
// drives every stage in order and each getter only yields data once its
// stage, and everything before it, completed without raising a State
// past that getter's ceiling (state.go). A Pipeline is not safe for
// concurrent use; callers that need concurrent access should serialize
// through something like the mailbox package.
package aspect

// Pipeline holds one frame's worth of aspect-determination state plus
// the Config governing how it is computed. Its zero value is not ready
// for use; construct with NewPipeline.
type Pipeline struct {
	config Config
	state  State

	frame Frame

	pixelMin, pixelMax uint8

	pixelCenter   PixelPoint
	pixelErrorX   float64
	pixelErrorY   float64
	limbCrossings CoordList

	subImage       Frame
	subImageOffset PixelPoint

	fiducials   []fiducialCandidate
	fiducialIDs []FiducialID

	mapping Mapping
}

// NewPipeline returns a Pipeline with the given Config and State
// StaleData, the pipeline's state before any frame has been run.
func NewPipeline(cfg Config) *Pipeline {
	return &Pipeline{config: cfg, state: StaleData}
}

// Config returns the pipeline's current configuration.
func (p *Pipeline) Config() Config {
	return p.config
}

// SetConfig replaces the pipeline's configuration. It takes effect on
// the next Run.
func (p *Pipeline) SetConfig(cfg Config) {
	p.config = cfg
}

// State returns the pipeline's current State.
func (p *Pipeline) State() State {
	return p.state
}

// Frame returns the frame staged by the most recent LoadFrame,
// regardless of State — a diagnostic recorder needs the image a failed
// run produced just as much as one a successful run did.
func (p *Pipeline) Frame() Frame {
	return p.frame
}

// raise advances p.state to s if s is more severe than the current
// state, preserving the monotone-severity invariant: once a frame has
// failed one way, a later stage's milder-looking result never un-fails
// it.
func (p *Pipeline) raise(s State) {
	if s > p.state {
		p.state = s
	}
}

// LoadFrame resets all per-frame outputs and stages f for Run. It
// raises FrameEmpty immediately if f has zero area, without clearing
// the previous frame's results — a getter queried before a successful
// Run sees stale data, not a crash.
func (p *Pipeline) LoadFrame(f Frame) {
	if f.Empty() {
		p.state = FrameEmpty
		return
	}
	p.frame = f
	p.state = NoError
	p.pixelMin, p.pixelMax = 0, 0
	p.pixelCenter = PixelPoint{}
	p.pixelErrorX, p.pixelErrorY = 0, 0
	p.limbCrossings = nil
	p.subImage = Frame{}
	p.subImageOffset = PixelPoint{}
	p.fiducials = nil
	p.fiducialIDs = nil
	p.mapping = Mapping{}
}

// Run drives every pipeline stage in order on the frame staged by
// LoadFrame: robust min/max, a coarse whole-frame center search, a
// refined center search within the solar sub-image, fiducial detection,
// fiducial identification, and the pixel-to-screen mapping fit. Each
// stage raises p.state on failure but later stages still run where
// doing so is meaningful, so that partial diagnostics remain available
// through the getters whose ceiling they satisfy.
func (p *Pipeline) Run() State {
	if p.frame.Empty() {
		p.raise(FrameEmpty)
		return p.state
	}

	p.findPixelMinMax()
	if p.state >= ceilingMinMax {
		return p.state
	}

	coarse, coarseState := estimateCenter(p.frame, p.config, p.config.InitialNumChords, p.pixelMin, p.pixelMax,
		true, PixelPoint{}, p.frame.Width, p.frame.Height)
	p.raise(coarseState)
	if p.state >= ceilingCrossings {
		return p.state
	}

	if !p.selectSubImage(coarse.center) {
		return p.state
	}

	refined, refinedState := estimateCenter(p.subImage, p.config, p.config.ChordsPerAxis, p.pixelMin, p.pixelMax,
		false, p.subImageOffset, p.frame.Width, p.frame.Height)
	p.limbCrossings = refined.crossings
	p.raise(refinedState)
	if p.state >= ceilingCenter {
		return p.state
	}

	p.pixelCenter = refined.center
	p.pixelErrorX, p.pixelErrorY = refined.errorX, refined.errorY

	return p.FiducialRun()
}

// selectSubImage clips a square region of radius
// SolarRadius*(1+RadiusMargin) around center out of p.frame into
// p.subImage, raising SolarImageOffsetOOB if the requested region falls
// entirely outside the frame, SolarImageEmpty if the clipped region has
// zero area, or SolarImageSmall if it is too small to contain the
// reticle. It returns false if any of those occurred.
func (p *Pipeline) selectSubImage(center PixelPoint) bool {
	half := float64(p.config.SolarRadius) * (1 + p.config.RadiusMargin)

	colStart := int(float64(center.X) - half)
	colStop := int(float64(center.X) + half)
	rowStart := int(float64(center.Y) - half)
	rowStop := int(float64(center.Y) + half)

	if colStop <= 0 || rowStop <= 0 || colStart >= p.frame.Width || rowStart >= p.frame.Height {
		p.raise(SolarImageOffsetOOB)
		return false
	}

	clampedColStart, clampedColStop := clampRange(colStart, colStop, p.frame.Width)
	clampedRowStart, clampedRowStop := clampRange(rowStart, rowStop, p.frame.Height)

	if clampedColStop <= clampedColStart || clampedRowStop <= clampedRowStart {
		p.raise(SolarImageEmpty)
		return false
	}

	p.subImage = p.frame.SubFrame(clampedColStart, clampedColStop, clampedRowStart, clampedRowStop)
	p.subImageOffset = PixelPoint{X: float32(clampedColStart), Y: float32(clampedRowStart)}

	minDim := p.subImage.Width
	if p.subImage.Height < minDim {
		minDim = p.subImage.Height
	}
	if minDim < 2*p.config.FiducialLength {
		p.raise(SolarImageSmall)
		return false
	}
	return true
}

func clampRange(start, stop, size int) (int, int) {
	if start < 0 {
		start = 0
	}
	if stop > size {
		stop = size
	}
	return start, stop
}

// FiducialRun detects, identifies, and maps fiducials within the
// solar sub-image selected by a prior Run. It is split out from Run
// because re-identification against a fresh Config (a different
// FiducialThreshold, say) is occasionally useful without re-running the
// limb search.
//
// If no sub-image has been selected yet — FiducialRun called directly
// off a LoadFrame, for a calibration exposure with no solar disk to
// find — it operates on the whole frame instead, with the sub-image
// offset reset to (0, 0), so fiducials are still reported in frame
// pixel coordinates.
func (p *Pipeline) FiducialRun() State {
	if p.subImage.Empty() {
		p.subImage = p.frame
		p.subImageOffset = PixelPoint{}
		p.findPixelMinMax()
	}

	candidates, fidState := findFiducials(p.subImage, p.pixelMax, p.config)
	// Translate into frame coordinates immediately, same as the
	// original's FindPixelFiducials does while it still has the offset
	// in hand: every later stage (identification, mapping, and the
	// getters) then works in one consistent frame, rather than fitting
	// in the sub-image's frame and evaluating in the frame's.
	for i := range candidates {
		candidates[i].pos.X += p.subImageOffset.X
		candidates[i].pos.Y += p.subImageOffset.Y
	}
	p.fiducials = candidates
	p.raise(fidState)
	if p.state >= ceilingFiducials {
		return p.state
	}

	ids, idState := identifyFiducials(candidates, p.config)
	p.fiducialIDs = ids
	p.raise(idState)
	if p.state >= ceilingFiducialID {
		return p.state
	}

	mapping, mapState := fitMapping(candidates, ids, p.config)
	p.mapping = mapping
	p.raise(mapState)
	return p.state
}

// GetPixelCrossings returns every accepted limb crossing from the most
// recent (refined) center estimation, in frame pixel coordinates, or
// echoes State if that stage did not complete.
func (p *Pipeline) GetPixelCrossings() (CoordList, State) {
	if p.state < ceilingCenter {
		return p.limbCrossings, p.state
	}
	return nil, p.state
}

// GetPixelCenter returns the fitted solar center in frame pixel
// coordinates, or echoes State if the center stage did not complete.
func (p *Pipeline) GetPixelCenter() (PixelPoint, State) {
	if p.state < ceilingCenter {
		return p.pixelCenter, p.state
	}
	return PixelPoint{}, p.state
}

// GetPixelError returns the per-axis standard deviation of the chord
// midpoints backing GetPixelCenter, or echoes State if unavailable.
func (p *Pipeline) GetPixelError() (x, y float64, state State) {
	if p.state < ceilingCenter {
		return p.pixelErrorX, p.pixelErrorY, p.state
	}
	return 0, 0, p.state
}

// GetPixelFiducials returns the detected fiducials' sub-pixel positions
// in frame pixel coordinates, or echoes State if unavailable.
func (p *Pipeline) GetPixelFiducials() ([]PixelPoint, State) {
	if p.state >= ceilingFiducials {
		return nil, p.state
	}
	out := make([]PixelPoint, len(p.fiducials))
	for i, c := range p.fiducials {
		out[i] = c.pos
	}
	return out, p.state
}

// GetFiducialIDs returns the lattice identity assigned to each detected
// fiducial, in the same order as GetPixelFiducials, or echoes State if
// unavailable.
func (p *Pipeline) GetFiducialIDs() ([]FiducialID, State) {
	if p.state < ceilingFiducialID {
		return p.fiducialIDs, p.state
	}
	return nil, p.state
}

// GetMapping returns the fitted pixel-to-screen Mapping, or echoes
// State if unavailable.
func (p *Pipeline) GetMapping() (Mapping, State) {
	if p.state < ceilingMapping {
		return p.mapping, p.state
	}
	return Mapping{}, p.state
}

// GetScreenCenter returns the solar center translated into screen
// coordinates via the fitted Mapping, or echoes State if unavailable.
func (p *Pipeline) GetScreenCenter() (ScreenPoint, State) {
	if p.state < ceilingMapping {
		return p.mapping.PixelToScreen(p.pixelCenter), p.state
	}
	return ScreenPoint{}, p.state
}

// GetScreenFiducials returns every detected fiducial translated into
// screen coordinates via the fitted Mapping, or echoes State if
// unavailable.
func (p *Pipeline) GetScreenFiducials() ([]ScreenPoint, State) {
	if p.state >= ceilingMapping {
		return nil, p.state
	}
	out := make([]ScreenPoint, len(p.fiducials))
	for i, c := range p.fiducials {
		out[i] = p.mapping.PixelToScreen(c.pos)
	}
	return out, p.state
}
