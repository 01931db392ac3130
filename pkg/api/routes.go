package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// SetupRoutes registers the versioned API and the metrics endpoint.
func SetupRoutes(router *mux.Router, handlers *Handlers, metrics *Metrics) {
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/accuracy", handlers.ScoreAccuracy).Methods("POST")
	api.HandleFunc("/mixing", handlers.ComputeMixing).Methods("POST")

	lfrRoutes := api.PathPrefix("/lfr").Subrouter()
	lfrRoutes.HandleFunc("/params", handlers.DeriveLFRParams).Methods("POST")

	api.HandleFunc("/health", handlers.HealthCheck).Methods("GET")

	if metrics != nil {
		router.Handle("/metrics", metrics.Handler()).Methods("GET")
	}
}

// NewRouter builds the full handler: routes, logging, recovery and CORS.
func NewRouter(logger zerolog.Logger, metrics *Metrics, handlers *Handlers, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()
	SetupRoutes(router, handlers, metrics)

	router.Use(LoggingMiddleware(logger, metrics))
	router.Use(RecoveryMiddleware(logger))

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         86400,
	})
	return c.Handler(router)
}
