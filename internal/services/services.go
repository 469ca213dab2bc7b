package services

import (
	"errors"

	"github.com/deepgram/mockllm/internal/config"
	"github.com/deepgram/mockllm/internal/services/auth"
	"github.com/deepgram/mockllm/internal/services/completion"
	"github.com/rs/zerolog/log"
)

type Services struct {
	authService       *auth.Service
	completionService completion.Service
	authEnabled       bool
}

// InitializeServices builds the services from the loaded configuration
func InitializeServices(cfg config.Config) (*Services, error) {
	log.Info().Msg("Initializing core services")

	if len(cfg.JWTSecret) == 0 {
		return nil, errors.New("JWT secret is required")
	}

	authService := auth.NewService(cfg.JWTSecret, cfg.TokenLifetime)
	log.Info().Dur("token_lifetime", cfg.TokenLifetime).Msg("Initializing auth service")

	completionService := completion.NewResponder(completion.Options{
		TokenDelay: cfg.StreamTokenDelay,
	})
	log.Info().Dur("token_delay", cfg.StreamTokenDelay).Msg("Initializing completion service")

	if !cfg.AuthEnabled {
		log.Warn().Msg("Auth gate disabled - completions are served without a bearer token")
	}

	log.Info().Msg("All services initialized successfully")

	return NewServices(authService, completionService, cfg.AuthEnabled), nil
}

// NewServices assembles already constructed services
func NewServices(authService *auth.Service, completionService completion.Service, authEnabled bool) *Services {
	return &Services{
		authService:       authService,
		completionService: completionService,
		authEnabled:       authEnabled,
	}
}

// GetAuthService returns the auth service
func (s *Services) GetAuthService() *auth.Service {
	return s.authService
}

// GetCompletionService returns the completion service
func (s *Services) GetCompletionService() completion.Service {
	return s.completionService
}

// AuthEnabled reports whether completion routes sit behind the auth gate
func (s *Services) AuthEnabled() bool {
	return s.authEnabled
}
