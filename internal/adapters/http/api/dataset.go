package api

import (
	"net/http"
	"time"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/dataset"
)

type reloadResponse struct {
	Status   string          `json:"status"`
	Dataset  dataset.Summary `json:"dataset"`
	Duration string          `json:"duration"`
}

// handleReload handles POST /api/dataset/reload. A failed reload keeps the
// previous dataset.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.reload"
	start := time.Now()
	summary, err := s.deps.Reload(r.Context())
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse{
		Status:   "reloaded",
		Dataset:  summary,
		Duration: time.Since(start).Round(time.Millisecond).String(),
	})
}
