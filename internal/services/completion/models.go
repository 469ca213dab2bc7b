package completion

// Message is a single turn of the conversation sent by the client.
// Content must be present but may be empty.
type Message struct {
	Role    string  `json:"role" validate:"required,oneof=system user assistant"`
	Content *string `json:"content" validate:"required"`
}

// ChatRequest is the body accepted by the chat completions endpoints.
// Messages and Model must be present; an empty list or an empty model name is fine.
// Temperature and MaxTokens are accepted for compatibility and otherwise ignored.
type ChatRequest struct {
	Messages    []Message `json:"messages" validate:"required,dive"`
	Model       *string   `json:"model" validate:"required"`
	Stream      bool      `json:"stream,omitempty"`
	Temperature *float32  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
}

// ModelName returns the requested model, or "" when it was not set
func (r ChatRequest) ModelName() string {
	if r.Model == nil {
		return ""
	}
	return *r.Model
}
