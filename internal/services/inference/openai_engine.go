// File: internal/services/inference/openai_engine.go
package inference

import (
	"context"
	"io"
	"net"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIEngine routes generation requests to an OpenAI-compatible chat
// completions endpoint.
type OpenAIEngine struct {
	config *Config
	client *openai.Client
	retry  *RetryConfig
}

func NewOpenAIEngine(config *Config) (*OpenAIEngine, error) {
	if err := config.Validate(); err != nil {
		return nil, NewError("config", err.Error(), nil)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = config.BaseURL
	// Client timeout bounds the whole exchange (read); the dialer bounds
	// connection establishment separately.
	clientConfig.HTTPClient = &http.Client{
		Timeout: config.ReadTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{Timeout: config.ConnectTimeout}).DialContext,
		},
	}

	return &OpenAIEngine{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
		retry:  DefaultRetryConfig(),
	}, nil
}

func (e *OpenAIEngine) buildRequest(messages []Message, params Params, stream bool) openai.ChatCompletionRequest {
	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	maxTokens := params.MaxTokens
	if maxTokens <= 0 {
		maxTokens = e.config.MaxTokens
	}
	temperature := params.Temperature
	if temperature <= 0 {
		temperature = e.config.Temperature
	}

	return openai.ChatCompletionRequest{
		Model:       params.Model,
		Messages:    chatMessages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Stream:      stream,
	}
}

func (e *OpenAIEngine) Generate(ctx context.Context, messages []Message, params Params) (string, error) {
	request := e.buildRequest(messages, params, false)

	var content string
	err := RetryWithBackoff(ctx, e.retry, func(ctx context.Context) error {
		resp, err := e.client.CreateChatCompletion(ctx, request)
		if err != nil {
			return NewError("generate", "chat completion request failed", err)
		}
		if len(resp.Choices) == 0 {
			return NewError("generate", "backend returned no choices", nil)
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

func (e *OpenAIEngine) GenerateStream(ctx context.Context, messages []Message, params Params, onDelta func(string) error) error {
	stream, err := e.client.CreateChatCompletionStream(ctx, e.buildRequest(messages, params, true))
	if err != nil {
		return NewError("stream", "failed to open completion stream", err)
	}
	defer stream.Close()

	for {
		response, err := stream.Recv()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return NewError("stream", "stream receive error", err)
		}

		if len(response.Choices) > 0 {
			delta := response.Choices[0].Delta.Content
			if delta != "" && onDelta != nil {
				if cbErr := onDelta(delta); cbErr != nil {
					return cbErr
				}
			}
		}
	}
}

// HealthCheck probes the backend's model listing endpoint.
func (e *OpenAIEngine) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return NewError("health_check", "backend unreachable", err)
	}
	return nil
}
