// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the category ranking and the keyword pipeline over
// HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pdiddy/paper-insights/internal/keywords"
	"github.com/pdiddy/paper-insights/pkg/types"
)

const (
	defaultAddr            = "localhost:8080"
	defaultShutdownTimeout = 10 * time.Second
	maxKeywords            = 100
)

// KeywordRunner runs the keyword pipeline for one paper.
type KeywordRunner interface {
	Run(ctx context.Context, paperID string, n int) (keywords.Result, error)
	Count() int
}

// ImageStore returns a fresh word-cloud image for a paper.
type ImageStore interface {
	Get(paperID string) (string, bool)
}

// Server holds the route dependencies.
type Server struct {
	cfg      types.Config
	keywords KeywordRunner
	images   ImageStore
	log      *slog.Logger
}

// New returns a Server. cfg.Categories locates the records served by the
// category route.
func New(cfg types.Config, kw KeywordRunner, images ImageStore, log *slog.Logger) *Server {
	return &Server{cfg: cfg, keywords: kw, images: images, log: log}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/top10_categories", s.handleCategories)
	r.Get("/keywords_txt/*", s.handleKeywordsText)
	r.Get("/keywords_im/*", s.handleKeywordsImage)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.Server.Addr
	if addr == "" {
		addr = defaultAddr
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
	}
	// Keyword runs are bounded by their own timeout; leave room to write.
	if t := s.cfg.Keywords.Timeout; t > 0 {
		httpServer.WriteTimeout = t + 15*time.Second
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", slog.String("addr", addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutdown signal received")
	timeout := s.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("elapsed", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
