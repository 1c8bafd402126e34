package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	cs "github.com/setanarut/crossstitch"
	"github.com/setanarut/crossstitch/internal/jobs"
)

const maxUploadSize = 10 * 1024 * 1024

type Handler struct {
	jobStore *jobs.Store
	catalog  []cs.CatalogRecord
	options  cs.Options
}

// New serves conversions against catalog. opt is the base for every job;
// workers are rescaled per image.
func New(store *jobs.Store, catalog []cs.CatalogRecord, opt cs.Options) *Handler {
	return &Handler{
		jobStore: store,
		catalog:  catalog,
		options:  opt,
	}
}

// Routes returns the API mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/convert", h.HandleConvert)
	mux.HandleFunc("GET /api/jobs/{id}", h.HandleStatus)
	mux.HandleFunc("GET /api/jobs/{id}/progress", h.HandleProgress)
	mux.HandleFunc("GET /api/jobs/{id}/{artifact}", h.HandleArtifact)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	return mux
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message, "status", code)
	http.Error(w, message, code)
}

// writeConversionError maps invalid input to 400 and anything else to 500.
func (h *Handler) writeConversionError(w http.ResponseWriter, err error) {
	var (
		catalogErr   *cs.CatalogParseError
		reductionErr *cs.InvalidReductionError
		decodeErr    *cs.ImageDecodeError
		sizeErr      *cs.InvalidSizeError
	)
	switch {
	case errors.As(err, &catalogErr), errors.As(err, &reductionErr),
		errors.As(err, &decodeErr), errors.As(err, &sizeErr):
		h.writeError(w, err.Error(), http.StatusBadRequest)
	default:
		h.writeError(w, "Conversion failed: "+err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) getJobOrError(w http.ResponseWriter, id string) (*jobs.Job, bool) {
	job, exists := h.jobStore.Get(id)
	if !exists {
		h.writeError(w, "Job not found", http.StatusNotFound)
		return nil, false
	}
	return job, true
}
