package web

import (
	_ "embed"
	"log"
	"net/http"
	"time"

	"github.com/russross/blackfriday/v2"
)

//go:embed docs.md
var apiDocs []byte

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Tennis Tinder API</title></head>
<body>
`

// index serves the API documentation.
func (s *Server) index(w http.ResponseWriter, _ *http.Request) {
	s.cache(w, "public", 1*time.Hour)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	page := append([]byte(indexTemplate), blackfriday.Run(apiDocs)...)
	page = append(page, "</body>\n</html>\n"...)

	if _, err := w.Write(page); err != nil {
		log.Printf("error: unable to send response: %s", err)
	}
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, http.StatusNotFound, "not_found", "no such route", r.URL.Path)
}
