// File: internal/services/inference/mock_engine.go
package inference

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// MockEngine simulates a generation backend for development and tests. It
// satisfies the same Engine contract as OpenAIEngine so the two swap freely
// at startup. One instance serves all request goroutines, so the generator
// is guarded: *rand.Rand is not safe for concurrent use.
type MockEngine struct {
	errorRate float64
	minDelay  time.Duration
	maxDelay  time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockEngine returns a simulated engine. errorRate in [0,1] is the
// probability that a call fails, for exercising failed-run handling.
func NewMockEngine(errorRate float64, minDelay, maxDelay time.Duration) *MockEngine {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &MockEngine{
		errorRate: errorRate,
		minDelay:  minDelay,
		maxDelay:  maxDelay,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

var mockDirections = []string{"bullish", "bearish", "neutral", "consolidating"}

var mockIndicators = []string{
	"divergence in momentum",
	"a support level bounce",
	"a resistance breakdown",
	"oversold conditions",
}

var mockRecommendations = []string{
	"consider buying on dips",
	"wait for confirmation",
	"take profits at resistance",
	"watch support levels",
}

var mockGenericResponses = []string{
	"I understand your question. Based on current conditions this is a complex topic that requires careful analysis.",
	"That's an interesting question. The answer depends on several factors including current conditions and your specific goals.",
	"From a technical perspective, this relates to fundamental principles of market analysis and how they interact.",
	"This is a good question that comes up often. The key is to understand the underlying mechanics involved.",
}

func (e *MockEngine) Generate(ctx context.Context, messages []Message, params Params) (string, error) {
	response, err := e.prepare(messages)
	if err != nil {
		return "", err
	}

	select {
	case <-time.After(e.delay()):
	case <-ctx.Done():
		return "", NewError("generate", "generation canceled", ctx.Err())
	}
	return response, nil
}

// GenerateStream yields the simulated response word by word.
func (e *MockEngine) GenerateStream(ctx context.Context, messages []Message, params Params, onDelta func(string) error) error {
	response, err := e.prepare(messages)
	if err != nil {
		return err
	}

	words := strings.Fields(response)
	chunkDelay := e.delay()
	if len(words) > 0 {
		chunkDelay /= time.Duration(len(words))
	}

	for i, word := range words {
		select {
		case <-time.After(chunkDelay):
		case <-ctx.Done():
			return NewError("stream", "stream canceled", ctx.Err())
		}

		chunk := word
		if i < len(words)-1 {
			chunk += " "
		}
		if onDelta != nil {
			if err := onDelta(chunk); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *MockEngine) HealthCheck(ctx context.Context) error { return nil }

func (e *MockEngine) prepare(messages []Message) (string, error) {
	if e.errorRate > 0 && e.randFloat64() < e.errorRate {
		return "", NewError("generate", "simulated inference failure", nil)
	}

	var lastUser string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			lastUser = strings.ToLower(messages[i].Content)
			break
		}
	}
	return e.respond(lastUser), nil
}

func (e *MockEngine) respond(lastUser string) string {
	tradingKeywords := []string{"market", "stock", "price", "trend", "technical", "support", "resistance"}
	for _, kw := range tradingKeywords {
		if strings.Contains(lastUser, kw) {
			return fmt.Sprintf(
				"Based on current market conditions, the broader trend looks %s. Technical indicators show %s, so %s.",
				e.pick(mockDirections), e.pick(mockIndicators), e.pick(mockRecommendations),
			)
		}
	}
	return e.pick(mockGenericResponses)
}

func (e *MockEngine) pick(options []string) string {
	return options[e.randIntn(len(options))]
}

func (e *MockEngine) delay() time.Duration {
	if e.maxDelay <= e.minDelay {
		return e.minDelay
	}
	return e.minDelay + time.Duration(e.randInt63n(int64(e.maxDelay-e.minDelay)))
}

func (e *MockEngine) randFloat64() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Float64()
}

func (e *MockEngine) randIntn(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Intn(n)
}

func (e *MockEngine) randInt63n(n int64) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Int63n(n)
}
