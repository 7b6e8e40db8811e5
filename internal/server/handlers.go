// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pdiddy/paper-insights/internal/acquire"
	"github.com/pdiddy/paper-insights/internal/categories"
	"github.com/pdiddy/paper-insights/internal/keywords"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCategories always answers 200; data-source problems travel as
// warnings.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	report := categories.TopCategories(r.Context(), s.cfg.Categories, s.log)
	w.Header().Set("X-Warnings", strconv.Itoa(len(report.Warnings)))
	writeText(w, http.StatusOK, report.String())
}

func (s *Server) handleKeywordsText(w http.ResponseWriter, r *http.Request) {
	paperID := paperIDParam(r)
	n := clampInt(r.URL.Query().Get("n"), s.keywords.Count(), maxKeywords)

	res, err := s.keywords.Run(r.Context(), paperID, n)
	if err != nil {
		s.writeError(w, r, paperID, err)
		return
	}
	writeText(w, http.StatusOK, res.String())
}

// handleKeywordsImage serves the stored word cloud of the paper, running the
// pipeline first when no fresh image exists.
func (s *Server) handleKeywordsImage(w http.ResponseWriter, r *http.Request) {
	paperID, err := acquire.Classify(paperIDParam(r))
	if err != nil {
		s.writeError(w, r, paperIDParam(r), err)
		return
	}

	if path, ok := s.images.Get(paperID); ok && serveImage(w, r, path) {
		return
	}

	res, err := s.keywords.Run(r.Context(), paperID, s.keywords.Count())
	if err != nil {
		s.writeError(w, r, paperID, err)
		return
	}
	if !serveImage(w, r, res.WordCloud) {
		s.writeError(w, r, paperID, errors.New("word cloud missing after rendering"))
	}
}

// paperIDParam returns the rest of the path after the route prefix, so
// old-style identifiers such as hep-th/9901001 arrive whole.
func paperIDParam(r *http.Request) string {
	return chi.URLParam(r, "*")
}

// serveImage writes the PNG at path and reports whether it could be opened.
func serveImage(w http.ResponseWriter, r *http.Request, path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return false
	}
	w.Header().Set("Content-Type", "image/png")
	http.ServeContent(w, r, filepath.Base(path), info.ModTime(), f)
	return true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, paperID string, err error) {
	status := statusFor(err)
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.log.Log(r.Context(), level, "keyword request failed",
		slog.String("paper_id", paperID),
		slog.Int("status", status),
		slog.Any("err", err))
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps pipeline errors to HTTP statuses: malformed id 400,
// unknown paper 404, failed retrieval 502, anything else 500.
func statusFor(err error) int {
	var re *keywords.RetrievalError
	switch {
	case errors.Is(err, acquire.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, acquire.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &re):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func clampInt(raw string, fallback, max int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
