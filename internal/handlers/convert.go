package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	cs "github.com/setanarut/crossstitch"
)

// HandleConvert accepts a multipart upload ("file" plus "width" or "height"
// and an optional "colors") and starts a conversion job.
func (h *Handler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	fileData, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(fileData) >= maxUploadSize {
		h.writeError(w, "File too large (max 10MB)", http.StatusBadRequest)
		return
	}

	size, ok := h.sizeFromForm(w, r)
	if !ok {
		return
	}
	colors := 0
	if v := r.FormValue("colors"); v != "" {
		colors, err = strconv.Atoi(v)
		if err != nil {
			h.writeError(w, "Invalid colors: "+v, http.StatusBadRequest)
			return
		}
	}

	// Reject bad input before a job exists, so clients get a 400 instead of
	// a failed job.
	img, err := cs.DecodeImage(fileData)
	if err != nil {
		h.writeConversionError(w, err)
		return
	}
	gridW, gridH, err := size.Resolve(img.Bounds().Size())
	if err != nil {
		h.writeConversionError(w, err)
		return
	}
	if colors < 0 || colors > len(h.catalog) {
		h.writeConversionError(w, &cs.InvalidReductionError{K: colors, Available: len(h.catalog)})
		return
	}

	opt := h.options
	opt.Workers = cs.OptionsFromSize(img.Bounds().Size()).Workers
	req := cs.Request{
		Image:   fileData,
		Size:    size,
		Catalog: h.catalog,
		Colors:  colors,
	}
	// The job outlives the request.
	job := h.jobStore.Start(context.WithoutCancel(r.Context()), req, opt)
	slog.Info("Conversion started", "job_id", job.ID, "filename", header.Filename, "size", size.String(), "colors", colors)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	h.writeJSON(w, map[string]any{
		"job_id":  job.ID,
		"message": "Conversion started",
		"width":   gridW,
		"height":  gridH,
	})
}

func (h *Handler) sizeFromForm(w http.ResponseWriter, r *http.Request) (cs.SizeSpec, bool) {
	width, height := r.FormValue("width"), r.FormValue("height")
	switch {
	case width != "" && height != "":
		h.writeError(w, "Specify either width or height, not both", http.StatusBadRequest)
		return cs.SizeSpec{}, false
	case width != "":
		v, err := strconv.Atoi(width)
		if err != nil {
			h.writeError(w, "Invalid width: "+width, http.StatusBadRequest)
			return cs.SizeSpec{}, false
		}
		return cs.ByWidth(v), true
	case height != "":
		v, err := strconv.Atoi(height)
		if err != nil {
			h.writeError(w, "Invalid height: "+height, http.StatusBadRequest)
			return cs.SizeSpec{}, false
		}
		return cs.ByHeight(v), true
	}
	h.writeError(w, "width or height is required", http.StatusBadRequest)
	return cs.SizeSpec{}, false
}
