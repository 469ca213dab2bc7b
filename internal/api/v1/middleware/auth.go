package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/deepgram/mockllm/internal/metrics"
	"github.com/deepgram/mockllm/internal/services/auth"
	"github.com/deepgram/mockllm/pkg/httpext"
)

type contextKey string

const (
	claimsKey contextKey = "claims"
)

// TokenValidator checks a bearer token and returns its claims
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token with a bare 401.
// Claims of accepted tokens are available to handlers through GetClaims.
func RequireAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := hlog.FromRequest(r)

			tokenString, err := auth.ExtractToken(r)
			if err != nil {
				reason := "invalid"
				if errors.Is(err, auth.ErrMissingToken) {
					reason = "missing"
				}
				logger.Warn().Str("reason", reason).Str("path", r.URL.Path).Msg("Rejected request without usable bearer token")
				metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
				httpext.Unauthorized(w)
				return
			}

			claims, err := validator.ValidateToken(tokenString)
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Rejected request with invalid token")
				metrics.AuthRejectionsTotal.WithLabelValues("invalid").Inc()
				httpext.Unauthorized(w)
				return
			}

			logger.Info().
				Str("subject", claims.SubjectValue()).
				Str("company", claims.CompanyValue()).
				Msg("Token validated")

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims retrieves the validated claims from the request context
func GetClaims(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(claimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}
