package completion

import (
	"context"
	"fmt"
	"time"

	"github.com/deepgram/mockllm/internal/metrics"
	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
)

const (
	ObjectCompletion = "chat.completion"
	ObjectChunk      = "chat.completion.chunk"

	DefaultMessage = "Hello from your local mock server! This is a non-streaming response."
)

// DefaultStreamTokens concatenate to "Hello from your local mock server! This is a streaming response."
var DefaultStreamTokens = []string{
	"Hello ", "from ", "your ", "local ", "mock ", "server! ",
	"This ", "is ", "a ", "streaming ", "response.",
}

// Service defines the interface for producing completions
type Service interface {
	// Complete returns a single finished completion
	Complete(model string) *openai.ChatCompletionResponse
	// Stream drives emitter through the chunk sequence, ending with the done sentinel
	Stream(ctx context.Context, model string, emitter Emitter) error
}

// Emitter frames stream events for a transport
type Emitter interface {
	EmitChunk(chunk openai.ChatCompletionStreamResponse) error
	EmitDone() error
}

type Options struct {
	Message      string
	StreamTokens []string
	TokenDelay   time.Duration
	NewID        func() string
	Now          func() time.Time
}

type Responder struct {
	opts Options
}

type streamState int

const (
	stateEmitting streamState = iota
	stateFinishing
	stateDone
)

func NewResponder(opts Options) *Responder {
	if opts.Message == "" {
		opts.Message = DefaultMessage
	}
	if opts.StreamTokens == nil {
		opts.StreamTokens = DefaultStreamTokens
	}
	if opts.NewID == nil {
		opts.NewID = newID
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Responder{opts: opts}
}

func newID() string {
	return "cmpl-" + uuid.New().String()
}

func (r *Responder) Complete(model string) *openai.ChatCompletionResponse {
	return &openai.ChatCompletionResponse{
		ID:      r.opts.NewID(),
		Object:  ObjectCompletion,
		Created: r.opts.Now().Unix(),
		Model:   model,
		Choices: []openai.ChatCompletionChoice{
			{
				Index: 0,
				Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: r.opts.Message,
				},
				FinishReason: openai.FinishReasonStop,
			},
		},
	}
}

// Stream emits one chunk per token with TokenDelay after each, then the stop chunk,
// then the done sentinel. It returns ctx.Err() once ctx is cancelled and stops emitting.
func (r *Responder) Stream(ctx context.Context, model string, emitter Emitter) error {
	remaining := r.opts.StreamTokens
	state := stateEmitting
	if len(remaining) == 0 {
		state = stateFinishing
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch state {
		case stateEmitting:
			delta := openai.ChatCompletionStreamChoiceDelta{Content: remaining[0]}
			if err := emitter.EmitChunk(r.chunk(model, delta, "")); err != nil {
				return fmt.Errorf("failed to emit token: %w", err)
			}
			metrics.StreamTokensTotal.Inc()

			remaining = remaining[1:]
			if err := r.pause(ctx); err != nil {
				return err
			}
			if len(remaining) == 0 {
				state = stateFinishing
			}

		case stateFinishing:
			if err := emitter.EmitChunk(r.chunk(model, openai.ChatCompletionStreamChoiceDelta{}, openai.FinishReasonStop)); err != nil {
				return fmt.Errorf("failed to emit stop chunk: %w", err)
			}
			state = stateDone

		case stateDone:
			if err := emitter.EmitDone(); err != nil {
				return fmt.Errorf("failed to emit done: %w", err)
			}
			return nil
		}
	}
}

func (r *Responder) chunk(model string, delta openai.ChatCompletionStreamChoiceDelta, reason openai.FinishReason) openai.ChatCompletionStreamResponse {
	return openai.ChatCompletionStreamResponse{
		ID:      r.opts.NewID(),
		Object:  ObjectChunk,
		Created: r.opts.Now().Unix(),
		Model:   model,
		Choices: []openai.ChatCompletionStreamChoice{
			{
				Index:        0,
				Delta:        delta,
				FinishReason: reason,
			},
		},
	}
}

func (r *Responder) pause(ctx context.Context) error {
	if r.opts.TokenDelay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(r.opts.TokenDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
