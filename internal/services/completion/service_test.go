package completion

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmitter struct {
	chunks  []openai.ChatCompletionStreamResponse
	done    bool
	onChunk func(n int) error
}

func (e *recordingEmitter) EmitChunk(chunk openai.ChatCompletionStreamResponse) error {
	e.chunks = append(e.chunks, chunk)
	if e.onChunk != nil {
		return e.onChunk(len(e.chunks))
	}
	return nil
}

func (e *recordingEmitter) EmitDone() error {
	e.done = true
	return nil
}

func TestComplete(t *testing.T) {
	responder := NewResponder(Options{})

	resp := responder.Complete("mock-1")

	require.Len(t, resp.Choices, 1)
	assert.True(t, strings.HasPrefix(resp.ID, "cmpl-"))
	assert.Equal(t, ObjectCompletion, resp.Object)
	assert.Equal(t, "mock-1", resp.Model)
	assert.NotZero(t, resp.Created)
	assert.Equal(t, 0, resp.Choices[0].Index)
	assert.Equal(t, openai.ChatMessageRoleAssistant, resp.Choices[0].Message.Role)
	assert.Equal(t, DefaultMessage, resp.Choices[0].Message.Content)
	assert.Equal(t, openai.FinishReasonStop, resp.Choices[0].FinishReason)

	other := responder.Complete("mock-1")
	assert.NotEqual(t, resp.ID, other.ID)
}

func TestStreamSequence(t *testing.T) {
	responder := NewResponder(Options{})
	emitter := &recordingEmitter{}

	err := responder.Stream(context.Background(), "mock-1", emitter)
	require.NoError(t, err)

	require.Len(t, emitter.chunks, len(DefaultStreamTokens)+1)
	assert.True(t, emitter.done)

	var assembled strings.Builder
	seen := make(map[string]bool)
	for i, chunk := range emitter.chunks[:len(DefaultStreamTokens)] {
		require.Len(t, chunk.Choices, 1)
		choice := chunk.Choices[0]
		assert.Equal(t, DefaultStreamTokens[i], choice.Delta.Content, "chunk %d", i)
		assert.Empty(t, choice.Delta.Role)
		assert.Empty(t, choice.FinishReason)
		assert.Equal(t, ObjectChunk, chunk.Object)
		assert.Equal(t, "mock-1", chunk.Model)
		assert.False(t, seen[chunk.ID], "chunk id reused: %s", chunk.ID)
		seen[chunk.ID] = true
		assembled.WriteString(choice.Delta.Content)
	}
	assert.Equal(t, "Hello from your local mock server! This is a streaming response.", assembled.String())

	last := emitter.chunks[len(emitter.chunks)-1]
	assert.Equal(t, openai.ChatCompletionStreamChoiceDelta{}, last.Choices[0].Delta)
	assert.Equal(t, openai.FinishReasonStop, last.Choices[0].FinishReason)
}

func TestStreamInjectedTokens(t *testing.T) {
	fixed := time.Unix(1700000000, 0)
	ids := 0
	responder := NewResponder(Options{
		StreamTokens: []string{"a ", "b"},
		NewID: func() string {
			ids++
			return "id-" + string(rune('0'+ids))
		},
		Now: func() time.Time { return fixed },
	})
	emitter := &recordingEmitter{}

	require.NoError(t, responder.Stream(context.Background(), "m", emitter))

	require.Len(t, emitter.chunks, 3)
	assert.Equal(t, "id-1", emitter.chunks[0].ID)
	assert.Equal(t, "id-3", emitter.chunks[2].ID)
	assert.Equal(t, fixed.Unix(), emitter.chunks[1].Created)
	assert.Equal(t, "b", emitter.chunks[1].Choices[0].Delta.Content)
}

func TestStreamWithoutTokens(t *testing.T) {
	responder := NewResponder(Options{StreamTokens: []string{}})
	emitter := &recordingEmitter{}

	require.NoError(t, responder.Stream(context.Background(), "m", emitter))

	require.Len(t, emitter.chunks, 1)
	assert.Equal(t, openai.FinishReasonStop, emitter.chunks[0].Choices[0].FinishReason)
	assert.True(t, emitter.done)
}

func TestStreamChunkWireFormat(t *testing.T) {
	responder := NewResponder(Options{StreamTokens: []string{"hi"}})
	emitter := &recordingEmitter{}
	require.NoError(t, responder.Stream(context.Background(), "m", emitter))

	var content map[string]interface{}
	raw, err := json.Marshal(emitter.chunks[0])
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &content))

	choice := content["choices"].([]interface{})[0].(map[string]interface{})
	assert.Nil(t, choice["finish_reason"])
	assert.Contains(t, choice, "finish_reason")
	assert.Equal(t, map[string]interface{}{"content": "hi"}, choice["delta"])

	var stop map[string]interface{}
	raw, err = json.Marshal(emitter.chunks[1])
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &stop))

	choice = stop["choices"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "stop", choice["finish_reason"])
	assert.Equal(t, map[string]interface{}{}, choice["delta"])
}

func TestStreamPausesBetweenTokens(t *testing.T) {
	responder := NewResponder(Options{
		StreamTokens: []string{"a", "b", "c"},
		TokenDelay:   10 * time.Millisecond,
	})

	start := time.Now()
	require.NoError(t, responder.Stream(context.Background(), "m", &recordingEmitter{}))

	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestStreamStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	responder := NewResponder(Options{TokenDelay: time.Hour})
	emitter := &recordingEmitter{}

	done := make(chan error, 1)
	go func() {
		done <- responder.Stream(ctx, "m", emitter)
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Stream did not stop after cancellation")
	}

	assert.LessOrEqual(t, len(emitter.chunks), 1)
	assert.False(t, emitter.done)
}

func TestStreamStopsAfterCancelMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	responder := NewResponder(Options{})
	emitter := &recordingEmitter{
		onChunk: func(n int) error {
			if n == 3 {
				cancel()
			}
			return nil
		},
	}

	err := responder.Stream(ctx, "m", emitter)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, emitter.chunks, 3)
	assert.False(t, emitter.done)
}

func TestStreamAbortsOnEmitError(t *testing.T) {
	errClosed := errors.New("connection closed")
	responder := NewResponder(Options{})
	emitter := &recordingEmitter{
		onChunk: func(n int) error {
			if n == 2 {
				return errClosed
			}
			return nil
		},
	}

	err := responder.Stream(context.Background(), "m", emitter)

	assert.ErrorIs(t, err, errClosed)
	assert.Len(t, emitter.chunks, 2)
	assert.False(t, emitter.done)
}
