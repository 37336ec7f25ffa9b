// Package server assembles all HTTP handlers and starts the server.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/matthewbaird/roster/internal/auth"
	"github.com/matthewbaird/roster/internal/handler"
	"github.com/matthewbaird/roster/internal/schema"
	"github.com/matthewbaird/roster/internal/store"
)

// Config holds server configuration.
type Config struct {
	Port        int
	Store       store.Store
	Loader      *schema.Loader
	Auth        *auth.Manager
	RequireAuth bool
	Log         *zap.Logger
}

// Router builds the full route tree. Split out from Run so tests can
// drive it with httptest.
func Router(cfg Config) http.Handler {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	hub := handler.NewHub(cfg.Log)
	h := handler.New(cfg.Store, cfg.Loader, cfg.Auth, hub, cfg.Log)

	r := chi.NewRouter()
	r.Use(handler.Recovery(cfg.Log))
	r.Use(handler.RequestLogger(cfg.Log))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.Logout)
	r.Get("/auth/me", h.Me)

	r.Group(func(r chi.Router) {
		if cfg.RequireAuth {
			r.Use(cfg.Auth.RequireAuth)
		}

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/count", h.CountEmployees)
			r.Post("/bulk-import-file", h.BulkImportFile)
			r.Get("/export-excel", h.ExportExcel)
			r.Get("/{id}", h.GetEmployee)
			r.Put("/{id}", h.UpdateEmployee)
			r.Delete("/{id}", h.DeleteEmployee)
		})

		r.Get("/dashboard-summary", h.DashboardSummary)
		r.Get("/skill-distribution", h.SkillDistribution)

		r.Route("/schema", func(r chi.Router) {
			r.Get("/", h.GetSchema)
			r.Put("/", h.SaveSchema)
			r.Delete("/", h.ClearSchema)
		})

		r.Get("/events/ws", hub.ServeHTTP)
	})

	return r
}

// Run starts the HTTP server and shuts it down when ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           Router(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	cfg.Log.Info("starting server", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
