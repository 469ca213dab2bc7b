package chat

import (
	"fmt"
	"net/http"

	"github.com/deepgram/mockllm/internal/api/v1/middleware"
	"github.com/deepgram/mockllm/internal/services/completion"
	"github.com/deepgram/mockllm/pkg/httpext"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/hlog"
)

// doneSentinel terminates every stream regardless of transport
const doneSentinel = "[DONE]"

// use a single instance of Validate, it caches struct info
var validate = validator.New(validator.WithRequiredStructEnabled())

// HandleChatCompletions answers with a single completion, or with an SSE stream when
// the request sets stream to true
func HandleChatCompletions(completionService completion.Service, w http.ResponseWriter, r *http.Request) {
	logger := hlog.FromRequest(r)

	var req completion.ChatRequest
	if err := httpext.DecodeJSON(r.Body, &req); err != nil {
		logger.Warn().Err(err).Msg("Client sent malformed JSON request")
		httpext.JsonError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		logger.Warn().Err(err).Msg("Request validation failed")
		httpext.JsonError(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	event := logger.Info().
		Int("message_count", len(req.Messages)).
		Str("model", req.ModelName()).
		Bool("stream", req.Stream)
	if claims := middleware.GetClaims(r); claims != nil {
		event = event.Str("subject", claims.SubjectValue()).Str("company", claims.CompanyValue())
	}
	event.Msg("Received chat completions request")

	if req.Stream {
		serveSSE(completionService, req.ModelName(), w, r)
		return
	}

	httpext.WriteJSON(w, http.StatusOK, completionService.Complete(req.ModelName()))
}
