package handlers

import (
	"bytes"
	"image/png"
	"log/slog"
	"net/http"
	"time"

	"github.com/setanarut/crossstitch/internal/jobs"
	"github.com/setanarut/crossstitch/utils"
)

type statusResponse struct {
	ID        string        `json:"id"`
	Status    jobs.Status   `json:"status"`
	Error     string        `json:"error,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	Report    *utils.Report `json:"report,omitempty"`
}

// HandleStatus reports a job's state and, once complete, its legend.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := h.getJobOrError(w, r.PathValue("id"))
	if !ok {
		return
	}
	status, err := job.Status()
	resp := statusResponse{
		ID:        job.ID,
		Status:    status,
		CreatedAt: job.CreatedAt,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	if res := job.Result(); res != nil {
		report := utils.NewReport(res)
		resp.Report = &report
	}
	h.writeJSON(w, resp)
}

// HandleProgress returns the messages logged since the previous call.
func (h *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	job, ok := h.getJobOrError(w, r.PathValue("id"))
	if !ok {
		return
	}
	status, _ := job.Status()
	h.writeJSON(w, map[string]any{
		"status":   status,
		"messages": job.Drain(),
	})
}

// HandleArtifact renders pattern.png, key.png or legend.yaml for a completed
// job.
func (h *Handler) HandleArtifact(w http.ResponseWriter, r *http.Request) {
	job, ok := h.getJobOrError(w, r.PathValue("id"))
	if !ok {
		return
	}
	artifact := r.PathValue("artifact")
	if artifact != "pattern.png" && artifact != "key.png" && artifact != "legend.yaml" {
		h.writeError(w, "Unknown artifact: "+artifact, http.StatusNotFound)
		return
	}
	res := job.Result()
	if res == nil {
		h.writeError(w, "Job has not completed", http.StatusConflict)
		return
	}

	var buf bytes.Buffer
	var err error
	switch artifact {
	case "pattern.png":
		w.Header().Set("Content-Type", "image/png")
		err = png.Encode(&buf, utils.RenderPattern(res.Pattern, utils.DefaultCellSize))
	case "key.png":
		w.Header().Set("Content-Type", "image/png")
		err = png.Encode(&buf, utils.RenderLegend(res.Legend))
	case "legend.yaml":
		w.Header().Set("Content-Type", "application/yaml")
		err = utils.WriteLegendYAML(&buf, res)
	}
	if err != nil {
		w.Header().Del("Content-Type")
		h.writeError(w, "Failed to render "+artifact+": "+err.Error(), http.StatusInternalServerError)
		return
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("Unable to write artifact", "artifact", artifact, "err", err)
	}
}
