// Package web exposes the club over a JSON HTTP API.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"tennistinder/internal/back"
	"tennistinder/internal/config"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"
)

// Request bodies larger than this are rejected, rosters included.
const maxBodySize = 1 << 20

func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(timing)

	r.Use(cors.New(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-Id"},
	}).Handler)

	if s.rateLimit > 0 {
		r.Use(rateLimit(s.rateLimit, time.Minute))
	}

	r.NotFound(s.notFound)
	r.Get("/", s.index)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/players", s.getPlayers)
		r.Get("/players/{id}", s.getPlayer)
		r.Post("/players/import", s.importPlayers)

		r.Get("/teams", s.getTeams)
		r.Post("/teams", s.createTeam)
		r.Patch("/teams/{id}", s.patchTeam)

		r.Get("/matches", s.getMatches)
		r.Post("/matches", s.recordMatch)
		r.Post("/matches/teams", s.recordTeamMatch)

		r.Post("/preview", s.preview)
		r.Post("/matchups/random", s.randomMatchup)

		r.Get("/leaderboard/{group}", s.getLeaderboard)
		r.Get("/leaderboard.xlsx", s.getLeaderboardXLSX)
		r.Get("/stats/ratings/{group}.svg", s.statsRatings)
	})

	return r
}

type Server struct {
	http *http.Server
	back *back.Back

	corsOrigins []string
	rateLimit   int
}

func NewServer(back *back.Back, conf *config.Config) *Server {
	s := &Server{
		back:        back,
		corsOrigins: conf.CORSOrigins,
		rateLimit:   conf.RateLimit,
	}

	s.http = &http.Server{
		Addr:         conf.HTTPAddr,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		Handler:      s.setupRouter(),
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Serve blocks until ctx is done or the server fails, in-flight requests are
// given a few seconds to complete.
func (s *Server) Serve(ctx context.Context) error {
	log.Printf("info: starting HTTP server on %s", s.http.Addr)

	errs := make(chan error, 1)
	go func() {
		errs <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("webserver crashed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		log.Printf("warning: unable to close webserver: %s", err)
	}
	log.Println("info: HTTP server closed")

	return nil
}

func (s *Server) response(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")

	response, err := json.Marshal(data)
	if err != nil {
		log.Printf("error: unable to marshal response: %s", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(code)

	if _, err := w.Write(response); err != nil {
		log.Printf("error: unable to send response: %s", err)
	}
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Detail  string `json:"detail,omitempty"`
	} `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, code int, errCode, message, detail string) {
	var resp errorResponse
	resp.Error.Code = errCode
	resp.Error.Message = message
	resp.Error.Detail = detail

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	s.response(w, code, resp)
}

// error maps domain errors to their HTTP status, anything unexpected is
// logged and hidden behind a 500.
func (s *Server) error(w http.ResponseWriter, err error) {
	var (
		validation *back.ValidationError
		notFound   *back.NotFoundError
	)

	switch {
	case errors.As(err, &validation):
		s.writeError(w, http.StatusBadRequest, validation.Rule, validation.Message, string(validation.Kind))
	case errors.As(err, &notFound):
		s.writeError(w, http.StatusNotFound, "not_found", notFound.Error(), notFound.Entity)
	default:
		log.Printf("error: %s", err)
		s.writeError(w, http.StatusInternalServerError, "internal", "internal server error", "")
	}
}

// badRequest reports a request that could not be decoded.
func (s *Server) badRequest(w http.ResponseWriter, err error) {
	s.writeError(w, http.StatusBadRequest, "bad_request", "unable to read request", err.Error())
}

func (s *Server) cache(w http.ResponseWriter, scope string, d time.Duration) {
	w.Header().Set("Cache-Control", fmt.Sprintf("%s,max-age=%d", scope, d/time.Second))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}

	return nil
}
