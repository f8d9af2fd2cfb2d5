package web

import (
	"net/http"
	"strconv"

	"tennistinder/internal/back"

	"github.com/go-chi/chi"
)

func (s *Server) getPlayers(w http.ResponseWriter, r *http.Request) {
	var group back.Group
	if str := r.URL.Query().Get("group"); str != "" {
		parsed, err := back.ParseGroup(str)
		if err != nil {
			s.error(w, err)
			return
		}
		group = parsed
	}

	players, err := s.back.ListPlayers(r.Context(), group)
	if err != nil {
		s.error(w, err)
		return
	}

	s.response(w, http.StatusOK, players)
}

func (s *Server) getPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.badRequest(w, err)
		return
	}

	player, err := s.back.GetPlayer(r.Context(), id)
	if err != nil {
		s.error(w, err)
		return
	}

	s.response(w, http.StatusOK, player)
}

// importPlayers expects a CSV roster as the request body.
func (s *Server) importPlayers(w http.ResponseWriter, r *http.Request) {
	report, err := s.back.ImportPlayers(r.Context(), http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.error(w, err)
		return
	}

	s.response(w, http.StatusOK, report)
}
