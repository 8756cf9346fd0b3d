// Package server is a reference implementation of the planner gateway backed
// by SQLite. It serves the same /api/{Resource} contract the client speaks.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"gorm.io/gorm"

	"planner/internal/model"
	"planner/internal/repository"
)

// Server routes gateway requests to one repository per collection.
type Server struct {
	handler http.Handler
}

func New(db *gorm.DB) *Server {
	r := mux.NewRouter()
	r.Use(accessLog)

	r.Methods(http.MethodGet).Path("/health").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	api := r.PathPrefix("/api").Subrouter()
	register(api, model.Todos, repository.NewEntityRepository(db, model.Todos))
	register(api, model.Weeklies, repository.NewEntityRepository(db, model.Weeklies))
	register(api, model.Monthlies, repository.NewEntityRepository(db, model.Monthlies))
	register(api, model.Goals, repository.NewEntityRepository(db, model.Goals))
	register(api, model.Notes, repository.NewEntityRepository(db, model.Notes))

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	return &Server{handler: c.Handler(r)}
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{Addr: addr, Handler: s.handler, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[info] gateway listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen %s: %w", addr, err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		log.Printf("[info] %s %s status=%d duration=%s", r.Method, r.URL.Path, m.Code, m.Duration)
	})
}
