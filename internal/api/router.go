package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func NewRouter(svc *Service) *chi.Mux {
	h := NewHandlers(svc)

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/health", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		// Nodes
		r.Post("/nodes", h.AddNode)
		r.Get("/nodes/{id}", h.GetNode)
		r.Delete("/nodes/{id}", h.DeleteNode)

		// Retrieval
		r.Post("/search", h.Search)
		r.Post("/search/multihop", h.MultiHopSearch)
		r.Post("/search/compare", h.CompareStrategies)
		r.Post("/search/smart", h.SmartSearch)
		r.Get("/strategies", h.ExplainStrategies)

		// Summaries
		r.Post("/summaries", h.GenerateSummary)

		// Model routing
		r.Get("/usage", h.GetUsage)
		r.Post("/usage/reset", h.ResetUsage)
		r.Put("/network", h.SetNetwork)
		r.Get("/models", h.ListModels)
	})

	return r
}
