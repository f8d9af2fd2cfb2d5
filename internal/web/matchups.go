package web

import (
	"net/http"

	"tennistinder/internal/back"
)

type previewRequest struct {
	Side1 []int64 `json:"side1"`
	Side2 []int64 `json:"side2"`
}

func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.badRequest(w, err)
		return
	}

	preview, err := s.back.Preview(r.Context(), req.Side1, req.Side2)
	if err != nil {
		s.error(w, err)
		return
	}

	s.response(w, http.StatusOK, preview)
}

func (s *Server) randomMatchup(w http.ResponseWriter, r *http.Request) {
	var req back.MatchupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.badRequest(w, err)
		return
	}

	matchup, err := s.back.GenerateMatchup(r.Context(), req)
	if err != nil {
		s.error(w, err)
		return
	}

	s.response(w, http.StatusOK, matchup)
}
