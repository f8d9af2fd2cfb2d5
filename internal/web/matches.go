package web

import (
	"fmt"
	"net/http"
	"strconv"

	"tennistinder/internal/back"
)

const defaultMatchesLimit = 50

func (s *Server) getMatches(w http.ResponseWriter, r *http.Request) {
	limit := defaultMatchesLimit
	if str := r.URL.Query().Get("limit"); str != "" {
		n, err := strconv.Atoi(str)
		if err != nil || n < 0 {
			s.badRequest(w, fmt.Errorf("invalid limit %q", str))
			return
		}
		limit = n
	}

	matches, err := s.back.ListMatches(r.Context(), limit)
	if err != nil {
		s.error(w, err)
		return
	}

	s.response(w, http.StatusOK, matches)
}

type recordMatchRequest struct {
	Side1  []int64   `json:"side1"`
	Side2  []int64   `json:"side2"`
	Winner back.Side `json:"winner"`
}

func (s *Server) recordMatch(w http.ResponseWriter, r *http.Request) {
	var req recordMatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.badRequest(w, err)
		return
	}

	res, err := s.back.RecordMatch(r.Context(), req.Side1, req.Side2, req.Winner)
	if err != nil {
		s.error(w, err)
		return
	}

	s.response(w, http.StatusCreated, res)
}

type recordTeamMatchRequest struct {
	Team1ID      int64 `json:"team1_id"`
	Team2ID      int64 `json:"team2_id"`
	WinnerTeamID int64 `json:"winner_team_id"`
}

func (s *Server) recordTeamMatch(w http.ResponseWriter, r *http.Request) {
	var req recordTeamMatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.badRequest(w, err)
		return
	}

	res, err := s.back.RecordTeamMatch(r.Context(), req.Team1ID, req.Team2ID, req.WinnerTeamID)
	if err != nil {
		s.error(w, err)
		return
	}

	s.response(w, http.StatusCreated, res)
}
