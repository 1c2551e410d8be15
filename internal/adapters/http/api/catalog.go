package api

import (
	"net/http"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/competency"
)

type subjectsResponse struct {
	Subjects []string `json:"subjects"`
	Count    int      `json:"count"`
}

// handleSubjects handles GET /api/subjects.
func (s *Server) handleSubjects(w http.ResponseWriter, r *http.Request) {
	const op = "api.subjects"
	subjects, err := s.deps.Engine().Subjects()
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, subjectsResponse{Subjects: subjects, Count: len(subjects)})
}

type competencyEntry struct {
	Name     string              `json:"name"`
	Category competency.Category `json:"category"`
}

// handleCompetencies handles GET /api/competencies.
func (s *Server) handleCompetencies(w http.ResponseWriter, _ *http.Request) {
	ds := s.deps.Engine().Dataset()
	names := ds.Competencies()
	out := make([]competencyEntry, len(names))
	for i, n := range names {
		c, _ := ds.CategoryOf(n)
		out[i] = competencyEntry{Name: n, Category: c}
	}
	writeJSON(w, http.StatusOK, out)
}

type categoryEntry struct {
	competency.Group
	Color string `json:"color"`
}

// handleCategories handles GET /api/categories.
func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	groups := s.deps.Engine().Categories()
	out := make([]categoryEntry, len(groups))
	for i, g := range groups {
		out[i] = categoryEntry{Group: g, Color: g.Category.Color()}
	}
	writeJSON(w, http.StatusOK, out)
}
