// Package aspect provides a generic HTTP interface to an aspect.Pipeline.
package aspect

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.jpl.nasa.gov/bdube/aspect/aspect"
	"github.jpl.nasa.gov/bdube/aspect/camera"
	"github.jpl.nasa.gov/bdube/aspect/generichttp"
)

// HTTPPipeline wraps an *aspect.Pipeline with an HTTP interface.
type HTTPPipeline struct {
	Pipeline *aspect.Pipeline
}

// NewHTTPPipeline wraps p for HTTP access.
func NewHTTPPipeline(p *aspect.Pipeline) *HTTPPipeline {
	return &HTTPPipeline{Pipeline: p}
}

// floatParams and intParams name every Config field exposed over HTTP,
// each bound at "/"+name with the generichttp float and int getters
// and setters.
var floatParams = map[string]aspect.FloatParam{
	"limb-threshold":              aspect.LimbThresholdParam,
	"disk-threshold":              aspect.DiskThresholdParam,
	"error-limit":                 aspect.ErrorLimitParam,
	"radius-margin":               aspect.RadiusMarginParam,
	"fiducial-threshold":          aspect.FiducialThresholdParam,
	"fiducial-spacing":            aspect.FiducialSpacingParam,
	"fiducial-spacing-tolerance":  aspect.FiducialSpacingTolParam,
	"fiducial-twist":              aspect.FiducialTwistParam,
	"mapping-condition-threshold": aspect.MappingConditionThresholdParam,
}

var intParams = map[string]aspect.IntParam{
	"num-chords-searching": aspect.NumChordsSearchingParam,
	"num-chords-operating": aspect.NumChordsOperatingParam,
	"min-limb-width":       aspect.MinLimbWidthParam,
	"limb-fit-width":       aspect.LimbFitWidthParam,
	"solar-radius":         aspect.SolarRadiusParam,
	"fiducial-length":      aspect.FiducialLengthParam,
	"fiducial-width":       aspect.FiducialWidthParam,
	"num-fiducials":        aspect.NumFiducialsParam,
}

// BindRoutes registers every route this package exposes for h.Pipeline
// on r: a GET/POST pair per Config parameter, read-only GETs for every
// pipeline output, and a POST /run endpoint that loads a raw frame and
// drives the pipeline.
func (h *HTTPPipeline) BindRoutes(r chi.Router) {
	for name, p := range floatParams {
		p := p
		r.Get("/"+name, generichttp.GetFloat(func() (float64, error) {
			return float64(h.Pipeline.Config().GetFloat(p)), nil
		}))
		r.Post("/"+name, generichttp.SetFloat(func(v float64) error {
			cfg := h.Pipeline.Config()
			cfg.SetFloat(p, float32(v))
			h.Pipeline.SetConfig(cfg)
			return nil
		}))
	}
	for name, p := range intParams {
		p := p
		r.Get("/"+name, generichttp.GetInt(func() (int, error) {
			return int(h.Pipeline.Config().GetInteger(p)), nil
		}))
		r.Post("/"+name, generichttp.SetInt(func(v int) error {
			cfg := h.Pipeline.Config()
			cfg.SetInteger(p, int32(v))
			h.Pipeline.SetConfig(cfg)
			return nil
		}))
	}

	r.Get("/state", generichttp.GetString(func() (string, error) {
		return h.Pipeline.State().String(), nil
	}))
	r.Get("/pixel-min-max", h.GetPixelMinMax())
	r.Get("/pixel-crossings", h.GetPixelCrossings())
	r.Get("/pixel-center", h.GetPixelCenter())
	r.Get("/pixel-error", h.GetPixelError())
	r.Get("/pixel-fiducials", h.GetPixelFiducials())
	r.Get("/fiducial-ids", h.GetFiducialIDs())
	r.Get("/mapping", h.GetMapping())
	r.Get("/screen-center", h.GetScreenCenter())
	r.Get("/screen-fiducials", h.GetScreenFiducials())
	r.Post("/run", h.Run())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

// Run accepts a raw, single-channel 8-bit frame in the request body
// (width and height given as query parameters), loads and runs it
// through the pipeline, and replies with the resulting State.
func (h *HTTPPipeline) Run() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		width, err := strconv.Atoi(q.Get("width"))
		if err != nil {
			http.Error(w, "missing or invalid width query parameter", http.StatusBadRequest)
			return
		}
		height, err := strconv.Atoi(q.Get("height"))
		if err != nil {
			http.Error(w, "missing or invalid height query parameter", http.StatusBadRequest)
			return
		}
		pix, err := io.ReadAll(r.Body)
		defer r.Body.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if len(pix) != width*height {
			http.Error(w, "body length does not match width*height", http.StatusBadRequest)
			return
		}
		f := camera.Frame{Width: width, Height: height, Pix: pix}
		h.Pipeline.LoadFrame(f)
		state := h.Pipeline.Run()
		writeJSON(w, map[string]string{"state": state.String()})
	}
}

// GetPixelMinMax replies with the robust min/max computed for the most
// recent frame.
func (h *HTTPPipeline) GetPixelMinMax() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		min, max, state := h.Pipeline.GetPixelMinMax()
		writeJSON(w, map[string]interface{}{"min": min, "max": max, "state": state.String()})
	}
}

// GetPixelCrossings replies with every accepted limb crossing from the
// most recent center estimation.
func (h *HTTPPipeline) GetPixelCrossings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		crossings, state := h.Pipeline.GetPixelCrossings()
		writeJSON(w, map[string]interface{}{"crossings": crossings, "state": state.String()})
	}
}

// GetPixelCenter replies with the fitted solar center in pixel coordinates.
func (h *HTTPPipeline) GetPixelCenter() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		center, state := h.Pipeline.GetPixelCenter()
		writeJSON(w, map[string]interface{}{"center": center, "state": state.String()})
	}
}

// GetPixelError replies with the per-axis standard deviation backing
// the pixel center.
func (h *HTTPPipeline) GetPixelError() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		x, y, state := h.Pipeline.GetPixelError()
		writeJSON(w, map[string]interface{}{"x": x, "y": y, "state": state.String()})
	}
}

// GetPixelFiducials replies with every detected fiducial's pixel position.
func (h *HTTPPipeline) GetPixelFiducials() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fids, state := h.Pipeline.GetPixelFiducials()
		writeJSON(w, map[string]interface{}{"fiducials": fids, "state": state.String()})
	}
}

// GetFiducialIDs replies with every detected fiducial's lattice identity.
func (h *HTTPPipeline) GetFiducialIDs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, state := h.Pipeline.GetFiducialIDs()
		writeJSON(w, map[string]interface{}{"ids": ids, "state": state.String()})
	}
}

// GetMapping replies with the fitted pixel-to-screen Mapping.
func (h *HTTPPipeline) GetMapping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mapping, state := h.Pipeline.GetMapping()
		writeJSON(w, map[string]interface{}{"mapping": mapping, "state": state.String()})
	}
}

// GetScreenCenter replies with the solar center in screen coordinates.
func (h *HTTPPipeline) GetScreenCenter() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		center, state := h.Pipeline.GetScreenCenter()
		writeJSON(w, map[string]interface{}{"center": center, "state": state.String()})
	}
}

// GetScreenFiducials replies with every detected fiducial's screen position.
func (h *HTTPPipeline) GetScreenFiducials() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fids, state := h.Pipeline.GetScreenFiducials()
		writeJSON(w, map[string]interface{}{"fiducials": fids, "state": state.String()})
	}
}
