package api

import (
	"net/http"
	"time"

	"github.com/rubiojr/seekr/pkg/search"
	"github.com/rubiojr/seekr/pkg/version"
)

func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	params, err := search.ParseSearchParams(r.URL.Query())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid parameters", err.Error())
		return
	}

	results, err := s.service.Search(r.Context(), params)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, SearchResponse{Results: *results, Error: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, SearchResponse{Results: *results})
}

func (s *Server) HandleTags(w http.ResponseWriter, r *http.Request) {
	params, err := search.ParseSearchParams(r.URL.Query())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid parameters", err.Error())
		return
	}
	// Facets describe the page regardless of the selected tags.
	params.Tags = nil

	results, err := s.service.Search(r.Context(), params)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to compute tags", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, TagsResponse{
		Query: params.Query,
		Tags:  results.Facets,
		Count: len(results.Facets),
	})
}

func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to get stats", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
	}
	if s.hub != nil {
		health.Sessions = s.hub.Size()
	}

	s.writeJSON(w, http.StatusOK, health)
}
