package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"awardmatch/internal/analyzer"
	"awardmatch/internal/catalog"
	"awardmatch/internal/content"
	"awardmatch/internal/handlers/api"
	"awardmatch/internal/readiness"
	"awardmatch/internal/store"
)

// Deps are the engine components the routes serve.
type Deps struct {
	Catalog    *catalog.Catalog
	Store      store.Store
	Content    content.Source
	Analyzer   *analyzer.Analyzer
	Aggregator *readiness.Aggregator
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(d Deps) {
	// Initialize handlers
	healthHandler := api.NewHealthHandler(d.Store)
	readinessHandler := api.NewReadinessHandler(d.Catalog, d.Aggregator)
	analysisHandler := api.NewAnalysisHandler(d.Analyzer, d.Content)
	criteriaHandler := api.NewCriteriaHandler(d.Catalog, d.Store)

	// Operational routes stay outside the rate limit
	s.App.Get("/healthz", healthHandler.Check)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	apiGroup := s.App.Group("/api")
	if s.Cfg.RateLimitMax > 0 {
		apiGroup.Use(s.apiLimiter())
	}

	apiGroup.Get("/readiness", readinessHandler.Summary)
	apiGroup.Get("/awards", readinessHandler.Awards)
	apiGroup.Get("/awards/:key/checklist", readinessHandler.Checklist)
	apiGroup.Post("/analyze/content", analysisHandler.Content)
	apiGroup.Post("/analyze/all", analysisHandler.All)
	apiGroup.Get("/criteria", criteriaHandler.List)
	apiGroup.Post("/criteria/status", criteriaHandler.UpdateStatus)
}
