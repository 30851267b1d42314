package fitsrec

import (
	"encoding/json"
	"go/types"
	"net/http"

	"github.com/go-chi/chi"

	"github.jpl.nasa.gov/bdube/aspect/aspect"
	"github.jpl.nasa.gov/bdube/aspect/server"
)

// HTTPWrapper is an HTTP front for a Recorder that also knows how to
// pull a frame and its diagnostic cards from a *aspect.Pipeline and
// record them together, so a single POST /record call after a pipeline
// Run persists exactly what the pipeline just saw and concluded.
type HTTPWrapper struct {
	*Recorder
}

// NewHTTPWrapper wraps r for HTTP access.
func NewHTTPWrapper(r *Recorder) HTTPWrapper {
	return HTTPWrapper{r}
}

// BindRoutes registers root/prefix/enabled GET and POST routes, plus a
// POST /record route that writes p's current frame and diagnostics.
func (h HTTPWrapper) BindRoutes(r chi.Router, p *aspect.Pipeline) {
	r.Get("/autowrite/root", h.GetRoot)
	r.Post("/autowrite/root", h.SetRoot)
	r.Get("/autowrite/prefix", h.GetPrefix)
	r.Post("/autowrite/prefix", h.SetPrefix)
	r.Get("/autowrite/enabled", h.GetEnabled)
	r.Post("/autowrite/enabled", h.SetEnabled)
	r.Post("/record", h.Record(p))
}

// SetRoot updates the recorder's root folder.
func (h HTTPWrapper) SetRoot(w http.ResponseWriter, r *http.Request) {
	str := server.StrT{}
	if err := json.NewDecoder(r.Body).Decode(&str); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()
	h.Recorder.Root = str.Str
	h.Recorder.updateFolder()
	if _, err := h.Recorder.mkDir(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// GetRoot returns the recorder's root folder.
func (h HTTPWrapper) GetRoot(w http.ResponseWriter, r *http.Request) {
	hp := server.HumanPayload{T: types.String, String: h.Recorder.Root}
	hp.EncodeAndRespond(w, r)
}

// SetPrefix updates the recorder's filename prefix and resets its counter.
func (h HTTPWrapper) SetPrefix(w http.ResponseWriter, r *http.Request) {
	str := server.StrT{}
	if err := json.NewDecoder(r.Body).Decode(&str); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()
	h.Recorder.Prefix = str.Str
	h.Recorder.counter = 0
	w.WriteHeader(http.StatusOK)
}

// GetPrefix returns the recorder's filename prefix.
func (h HTTPWrapper) GetPrefix(w http.ResponseWriter, r *http.Request) {
	hp := server.HumanPayload{T: types.String, String: h.Recorder.Prefix}
	hp.EncodeAndRespond(w, r)
}

// GetEnabled returns the recorder's Enabled flag.
func (h HTTPWrapper) GetEnabled(w http.ResponseWriter, r *http.Request) {
	hp := server.HumanPayload{T: types.Bool, Bool: h.Recorder.Enabled}
	hp.EncodeAndRespond(w, r)
}

// SetEnabled sets the recorder's Enabled flag.
func (h HTTPWrapper) SetEnabled(w http.ResponseWriter, r *http.Request) {
	b := server.BoolT{}
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()
	h.Recorder.Enabled = b.Bool
	w.WriteHeader(http.StatusOK)
}

// Record writes p's currently loaded frame and diagnostic cards to the
// next incrementing-filename FITS file, if the recorder is Enabled.
func (h HTTPWrapper) Record(p *aspect.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.Recorder.Enabled {
			http.Error(w, "recorder is disabled", http.StatusConflict)
			return
		}
		cards := DiagnosticCards(p)
		if err := h.Recorder.WriteFrame(p.Frame(), cards); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
