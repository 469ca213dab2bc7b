package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/deepgram/mockllm/internal/metrics"
	"github.com/deepgram/mockllm/internal/services/completion"
	"github.com/deepgram/mockllm/pkg/httpext"
	"github.com/rs/zerolog/hlog"
	"github.com/sashabaranov/go-openai"
)

// sseEmitter frames each event as a `data:` line and flushes it immediately
type sseEmitter struct {
	w       io.Writer
	flusher http.Flusher
}

func (e *sseEmitter) EmitChunk(chunk openai.ChatCompletionStreamResponse) error {
	data, err := json.Marshal(chunk)
	if err != nil {
		return fmt.Errorf("failed to encode chunk: %w", err)
	}
	return e.writeEvent(data)
}

func (e *sseEmitter) EmitDone() error {
	return e.writeEvent([]byte(doneSentinel))
}

func (e *sseEmitter) writeEvent(data []byte) error {
	if _, err := fmt.Fprintf(e.w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	e.flusher.Flush()
	return nil
}

func serveSSE(completionService completion.Service, model string, w http.ResponseWriter, r *http.Request) {
	logger := hlog.FromRequest(r)

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.Error().Msg("Response writer does not support flushing")
		httpext.JsonError(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	err := completionService.Stream(r.Context(), model, &sseEmitter{w: w, flusher: flusher})
	outcome := streamOutcome(err)
	metrics.StreamsTotal.WithLabelValues(metrics.TransportSSE, outcome).Inc()

	if err != nil {
		// the client is usually gone by now, nothing more can be written
		logger.Debug().Err(err).Str("outcome", outcome).Msg("Stream abandoned")
		return
	}
	logger.Debug().Msg("Stream completed")
}

func streamOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeCompleted
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCancelled
	default:
		return metrics.OutcomeFailed
	}
}
