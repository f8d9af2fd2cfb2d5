package web

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"time"

	"tennistinder/internal/back"

	"github.com/go-chi/chi"
)

func (s *Server) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	group, err := back.ParseGroup(chi.URLParam(r, "group"))
	if err != nil {
		s.error(w, err)
		return
	}

	leaderboard, err := s.back.GetLeaderboard(r.Context(), group)
	if err != nil {
		s.error(w, err)
		return
	}

	s.cache(w, "public", 1*time.Minute)
	s.response(w, http.StatusOK, leaderboard)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) getLeaderboardXLSX(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.back.WriteLeaderboardXLSX(r.Context(), &buf); err != nil {
		s.error(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(
		`attachment; filename="leaderboard-%s.xlsx"`,
		time.Now().Format("2006-01-02"),
	))
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("error: unable to send spreadsheet: %s", err)
	}
}
