package chat

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deepgram/mockllm/internal/metrics"
	"github.com/deepgram/mockllm/internal/services/completion"
	"github.com/deepgram/mockllm/pkg/httpext"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/sashabaranov/go-openai"
)

const (
	writeWait = 10 * time.Second
	closeWait = time.Second
)

var (
	upgrader = websocket.Upgrader{
		// the mock only listens on loopback by default
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
)

// wsEmitter sends every event as its own text message
type wsEmitter struct {
	conn *websocket.Conn
}

func (e *wsEmitter) EmitChunk(chunk openai.ChatCompletionStreamResponse) error {
	if err := e.writeJSON(chunk); err != nil {
		return fmt.Errorf("failed to write chunk: %w", err)
	}
	return nil
}

func (e *wsEmitter) EmitDone() error {
	e.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := e.conn.WriteMessage(websocket.TextMessage, []byte(doneSentinel)); err != nil {
		return fmt.Errorf("failed to write done: %w", err)
	}
	return nil
}

func (e *wsEmitter) writeJSON(v interface{}) error {
	e.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return e.conn.WriteJSON(v)
}

// readRequest decodes the single text message carrying the chat request
func readRequest(conn *websocket.Conn, req *completion.ChatRequest) error {
	_, r, err := conn.NextReader()
	if err != nil {
		return err
	}
	return httpext.DecodeJSON(r, req)
}

// HandleChatCompletionsWebSocket reads a single chat request from the socket and answers
// with the same payloads as the HTTP endpoint, one message per event
func HandleChatCompletionsWebSocket(completionService completion.Service, w http.ResponseWriter, r *http.Request) {
	logger := hlog.FromRequest(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to upgrade connection")
		return
	}
	defer conn.Close()

	var req completion.ChatRequest
	if err := readRequest(conn, &req); err != nil {
		logger.Warn().Err(err).Msg("Client sent malformed JSON request")
		closeWith(conn, logger, websocket.CloseInvalidFramePayloadData, "Invalid request format")
		return
	}

	if err := validate.Struct(req); err != nil {
		logger.Warn().Err(err).Msg("Request validation failed")
		closeWith(conn, logger, websocket.ClosePolicyViolation, "Invalid request")
		return
	}

	logger.Info().
		Int("message_count", len(req.Messages)).
		Str("model", req.ModelName()).
		Bool("stream", req.Stream).
		Msg("Received chat completions request over websocket")

	emitter := &wsEmitter{conn: conn}

	if !req.Stream {
		if err := emitter.writeJSON(completionService.Complete(req.ModelName())); err != nil {
			logger.Debug().Err(err).Msg("Failed to write completion")
			return
		}
		closeWith(conn, logger, websocket.CloseNormalClosure, "")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// A hijacked connection no longer cancels the request context when the
	// client goes away, so watch the read side instead.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	err = completionService.Stream(ctx, req.ModelName(), emitter)
	outcome := streamOutcome(err)
	metrics.StreamsTotal.WithLabelValues(metrics.TransportWebSocket, outcome).Inc()

	if err != nil {
		logger.Debug().Err(err).Str("outcome", outcome).Msg("Stream abandoned")
		return
	}
	closeWith(conn, logger, websocket.CloseNormalClosure, "")
}

func closeWith(conn *websocket.Conn, logger *zerolog.Logger, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWait)); err != nil {
		logger.Debug().Err(err).Msg("Failed to send close frame")
	}
}
