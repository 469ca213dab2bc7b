package token

import (
	"fmt"
	"net/http"

	"github.com/deepgram/mockllm/pkg/httpext"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/hlog"
)

// use a single instance of Validate, it caches struct info
var validate = validator.New(validator.WithRequiredStructEnabled())

// TokenRequest fields must be present but may be empty strings
type TokenRequest struct {
	UserID  *string `json:"user_id" validate:"required"`
	Company *string `json:"company" validate:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// Issuer signs credentials for a subject and company
type Issuer interface {
	IssueToken(subject, company string) (string, error)
}

// HandleGenerateToken issues a bearer token usable against the completions endpoints.
// It is a testing helper, not an identity provider.
func HandleGenerateToken(issuer Issuer, w http.ResponseWriter, r *http.Request) {
	logger := hlog.FromRequest(r)

	var req TokenRequest
	if err := httpext.DecodeJSON(r.Body, &req); err != nil {
		logger.Warn().Err(err).Msg("Client sent malformed token request")
		httpext.JsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		logger.Warn().Err(err).Msg("Token request validation failed")
		httpext.JsonError(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	token, err := issuer.IssueToken(*req.UserID, *req.Company)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to issue token")
		httpext.JsonError(w, "Error creating token", http.StatusInternalServerError)
		return
	}

	logger.Info().
		Str("subject", *req.UserID).
		Str("company", *req.Company).
		Msg("Token generated")

	httpext.WriteJSON(w, http.StatusOK, TokenResponse{Token: token})
}
