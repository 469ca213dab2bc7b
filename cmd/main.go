package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deepgram/mockllm/internal/api/v1/handlers"
	"github.com/deepgram/mockllm/internal/api/v1/middleware"
	"github.com/deepgram/mockllm/internal/config"
	"github.com/deepgram/mockllm/internal/logger"
	"github.com/deepgram/mockllm/internal/services"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

func main() {
	_ = godotenv.Load()

	logger.Init(config.GetLogLevel(), config.GetLogFormat())
	cfg := config.Load()

	svcs, err := services.InitializeServices(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           setupRouter(svcs),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Handle SIGINT/SIGTERM for a clean shutdown in local dev / docker.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("Shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}()

	log.Info().Str("addr", "http://"+cfg.Addr).Msg("Mock LLM server listening")
	log.Info().Msg("Send a POST request to /generate-token to get a test JWT")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("ListenAndServe error")
	}
}

func setupRouter(svcs *services.Services) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogging(logger.Component(logger.HANDLER)))
	handlers.RegisterRoutes(r, svcs)
	return r
}
