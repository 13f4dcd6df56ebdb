// Package ui exposes the analysis service over HTTP: JSON endpoints for
// running analyses and retrieving stored runs, plus an HTML report view.
package ui

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"goanova/app"
	"goanova/ports"
)

// App represents the HTTP application
type App struct {
	router  *chi.Mux
	service *app.AnalysisService
	runs    ports.RunRepository
}

// NewApp creates the HTTP application around an analysis service
func NewApp(service *app.AnalysisService, runs ports.RunRepository) *App {
	a := &App{
		router:  chi.NewRouter(),
		service: service,
		runs:    runs,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	// Analysis endpoints
	a.router.Post("/api/anova/one-way", a.handleOneWay)
	a.router.Post("/api/anova/two-way", a.handleTwoWay)
	a.router.Post("/api/posthoc/{method}", a.handlePostHoc)

	// Stored runs
	a.router.Get("/api/runs", a.handleListRuns)
	a.router.Get("/api/runs/{id}", a.handleGetRun)
	a.router.Get("/runs/{id}/report", a.handleRunReport)
}

// Router returns the HTTP handler, for tests and embedding
func (a *App) Router() http.Handler {
	return a.router
}

// Start runs the HTTP server on the given port
func (a *App) Start(port string) error {
	log.Printf("Starting goanova API on :%s", port)
	return http.ListenAndServe(":"+port, a.router)
}
