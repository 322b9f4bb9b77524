// File: internal/services/inference/interface.go
package inference

import "context"

// Message is one role/content turn handed to the backend.
type Message struct {
	Role    string
	Content string
}

// Params are the generation parameters for a single request.
type Params struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

// Engine is the inference capability: an opaque, possibly slow, possibly
// failing remote dependency. Generate returns the complete response text;
// GenerateStream delivers it as incremental fragments through onDelta and
// returns once the backend signals completion.
type Engine interface {
	Generate(ctx context.Context, messages []Message, params Params) (string, error)
	GenerateStream(ctx context.Context, messages []Message, params Params, onDelta func(string) error) error
	HealthCheck(ctx context.Context) error
}
