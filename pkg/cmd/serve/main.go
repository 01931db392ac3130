// Command serve runs the HTTP scoring service.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gilchrisn/lfr-benchmark-tools/pkg/api"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/config"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		addr       = flag.String("addr", "", "listen address (default from config, :8080)")
		configPath = flag.String("config", "", "configuration file")
	)
	flag.Parse()

	cfg := config.NewConfig()
	if *configPath != "" {
		if err := cfg.LoadFromFile(*configPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}
	if *addr != "" {
		cfg.Set("server.addr", *addr)
	}
	logger := cfg.CreateLogger()
	log.Logger = logger

	policy, err := cfg.AccuracyPolicy()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	clamps := cfg.LFRClamps()
	if err := clamps.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid LFR clamps")
	}

	metrics := api.NewMetrics()
	handlers := api.NewHandlers(logger, metrics, api.Options{
		DefaultPolicy: policy,
		Clamps:        clamps,
		MaxBodyBytes:  cfg.ServerMaxBodyBytes(),
	})

	server := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           api.NewRouter(logger, metrics, handlers, cfg.ServerAllowedOrigins()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("address", server.Addr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
}
