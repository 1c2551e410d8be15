package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/mq/queue"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/render"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/repository"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/model"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/report"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/scoring"
	"github.com/Waldoz-X/PrjEvaluacion360/pkg/logger"
)

// handleReport handles GET /api/report/{subject}?format=html|json|text and
// renders synchronously.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.report"
	q := r.URL.Query()
	format, err := render.ParseFormat(q.Get("format"))
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	renderer, err := render.For(format)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	weights, err := weightsFrom(q, s.deps.DefaultWeights())
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	rep, err := report.Generate(r.Context(), s.deps.Engine(), r.PathValue("subject"), weights)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, rep); err != nil {
		s.fail(w, r, op, err)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// retryAfterSeconds is suggested to clients when report generation is saturated.
const retryAfterSeconds = "5"

// reportRequest mirrors the OpenAPI schema for POST /api/reports. Omitted
// weights fall back to the configured defaults.
type reportRequest struct {
	Subject string           `json:"subject"`
	Format  string           `json:"format"`
	Weights *scoring.Weights `json:"weights"`
}

func (req reportRequest) validate() error {
	if strings.TrimSpace(req.Subject) == "" {
		return errors.New("missing subject")
	}
	return nil
}

type jobResponse struct {
	model.ReportJob
	StatusURL   string `json:"status_url"`
	DownloadURL string `json:"download_url,omitempty"`
}

func newJobResponse(j model.ReportJob) jobResponse { //nolint:gocritic // hugeParam: response copy
	resp := jobResponse{ReportJob: j, StatusURL: "/api/reports/" + j.ID}
	if j.Status == model.JobDone {
		resp.DownloadURL = resp.StatusURL + "/download"
	}
	return resp
}

// handleSubmitReport handles POST /api/reports.
func (s *Server) handleSubmitReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_report"
	var req reportRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	weights := s.deps.DefaultWeights()
	if req.Weights != nil {
		weights = *req.Weights
	}

	job, err := s.deps.SubmitReport(r.Context(), req.Subject, weights, req.Format)
	if err != nil {
		if errors.Is(err, queue.ErrFull) || errors.Is(err, repository.ErrJobStoreFull) {
			w.Header().Set("Retry-After", retryAfterSeconds)
			err = WrapKind("report queue", ErrBackpressure, err)
		}
		s.fail(w, r, op, err)
		return
	}
	w.Header().Set("Location", "/api/reports/"+job.ID)
	writeJSON(w, http.StatusAccepted, newJobResponse(job))
}

// handleReportStatus handles GET /api/reports/{id}.
func (s *Server) handleReportStatus(w http.ResponseWriter, r *http.Request) {
	const op = "api.report_status"
	job, err := s.deps.ReportJob(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, newJobResponse(job))
}

// handleReportDownload handles GET /api/reports/{id}/download.
func (s *Server) handleReportDownload(w http.ResponseWriter, r *http.Request) {
	const op = "api.report_download"
	job, err := s.deps.ReportJob(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	if job.Status != model.JobDone {
		writeJSON(w, http.StatusConflict, errorResponse{
			Code:      "not_ready",
			Message:   "report job is " + string(job.Status),
			RequestID: w.Header().Get(requestIDHeader),
		})
		return
	}
	rc, err := s.deps.OpenReport(r.Context(), job.Key)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	defer rc.Close()

	renderer, err := render.For(render.Format(job.Format))
	if err == nil {
		w.Header().Set("Content-Type", renderer.ContentType())
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+path.Base(job.Key)+`"`)
	w.Header().Set("Last-Modified", job.Finished.UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn(r.Context(), "report download interrupted", logger.String("job_id", job.ID), logger.Error(err))
	}
}
