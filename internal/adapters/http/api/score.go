package api

import (
	"net/http"
)

// handleScore handles GET /api/score/{subject}.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score"
	weights, err := weightsFrom(r.URL.Query(), s.deps.DefaultWeights())
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	res, err := s.deps.Engine().Score(r.Context(), r.PathValue("subject"), weights)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleRanking handles GET /api/ranking?limit=N.
func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	const op = "api.ranking"
	q := r.URL.Query()
	limit, err := limitFrom(q, s.maxLimit)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	weights, err := weightsFrom(q, s.deps.DefaultWeights())
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	entries, err := s.deps.Engine().Ranking(r.Context(), weights, limit)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
