package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/go-chi/chi"
	"gopkg.in/guregu/null.v4"
)

func (s *Server) getTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.back.ListTeams(r.Context())
	if err != nil {
		s.error(w, err)
		return
	}

	s.response(w, http.StatusOK, teams)
}

type createTeamRequest struct {
	Player1ID int64    `json:"player1_id"`
	Player2ID null.Int `json:"player2_id"`
}

func (s *Server) createTeam(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.badRequest(w, err)
		return
	}

	team, err := s.back.CreateTeam(r.Context(), req.Player1ID, req.Player2ID)
	if err != nil {
		s.error(w, err)
		return
	}

	view, err := s.back.GetTeam(r.Context(), team.ID)
	if err != nil {
		s.error(w, err)
		return
	}

	s.response(w, http.StatusCreated, view)
}

// teamPatch lists what a merge patch can change on a team.
type teamPatch struct {
	Active bool `json:"active"`
}

// patchTeam applies a JSON merge patch (RFC 7386) to a team.
func (s *Server) patchTeam(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.badRequest(w, err)
		return
	}

	patch, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.badRequest(w, err)
		return
	}

	team, err := s.back.GetTeam(r.Context(), id)
	if err != nil {
		s.error(w, err)
		return
	}

	original, err := json.Marshal(teamPatch{Active: team.Active})
	if err != nil {
		s.error(w, err)
		return
	}

	patched, err := jsonpatch.MergePatch(original, patch)
	if err != nil {
		s.badRequest(w, err)
		return
	}

	var next teamPatch
	dec := json.NewDecoder(bytes.NewReader(patched))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&next); err != nil {
		s.badRequest(w, err)
		return
	}

	if next == (teamPatch{Active: team.Active}) {
		s.response(w, http.StatusOK, team)
		return
	}

	team, err = s.back.SetTeamActive(r.Context(), id, next.Active)
	if err != nil {
		s.error(w, err)
		return
	}

	s.response(w, http.StatusOK, team)
}
