// File: internal/services/inference/mock_engine_test.go
package inference

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestMockEngineGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("market questions get the analysis template", func(t *testing.T) {
		e := NewMockEngine(0, 0, 0)
		out, err := e.Generate(ctx, []Message{
			{Role: "user", Content: "What is the market trend right now?"},
		}, Params{Model: "gpt-4"})
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if !strings.HasPrefix(out, "Based on current market conditions") {
			t.Fatalf("unexpected response %q", out)
		}
	})

	t.Run("other questions get a generic response", func(t *testing.T) {
		e := NewMockEngine(0, 0, 0)
		out, err := e.Generate(ctx, []Message{
			{Role: "user", Content: "Tell me about gardening."},
		}, Params{Model: "gpt-4"})
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		found := false
		for _, candidate := range mockGenericResponses {
			if out == candidate {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("response %q is not one of the generic templates", out)
		}
	})

	t.Run("error rate of one always fails", func(t *testing.T) {
		e := NewMockEngine(1, 0, 0)
		for i := 0; i < 10; i++ {
			if _, err := e.Generate(ctx, []Message{{Role: "user", Content: "hi"}}, Params{}); !IsInferenceError(err) {
				t.Fatalf("attempt %d: expected inference error, got %v", i, err)
			}
		}
	})
}

func TestMockEngineGenerateStream(t *testing.T) {
	ctx := context.Background()

	t.Run("deltas concatenate to a complete response", func(t *testing.T) {
		e := NewMockEngine(0, 0, 0)

		var chunks []string
		err := e.GenerateStream(ctx, []Message{
			{Role: "user", Content: "Where is the nearest support level?"},
		}, Params{}, func(delta string) error {
			chunks = append(chunks, delta)
			return nil
		})
		if err != nil {
			t.Fatalf("GenerateStream: %v", err)
		}
		if len(chunks) < 2 {
			t.Fatalf("expected multiple deltas, got %d", len(chunks))
		}

		full := strings.Join(chunks, "")
		if !strings.HasPrefix(full, "Based on current market conditions") {
			t.Fatalf("unexpected aggregate %q", full)
		}
		if strings.Contains(full, "  ") {
			t.Fatalf("aggregate has doubled spacing: %q", full)
		}
	})

	t.Run("error rate of one always fails", func(t *testing.T) {
		e := NewMockEngine(1, 0, 0)
		err := e.GenerateStream(ctx, []Message{{Role: "user", Content: "hi"}}, Params{}, func(string) error {
			t.Fatal("no delta should be delivered")
			return nil
		})
		if !IsInferenceError(err) {
			t.Fatalf("expected inference error, got %v", err)
		}
	})

	t.Run("cancellation stops the stream", func(t *testing.T) {
		e := NewMockEngine(0, 50*time.Millisecond, 50*time.Millisecond)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := e.GenerateStream(ctx, []Message{{Role: "user", Content: "hi"}}, Params{}, func(string) error {
			return nil
		})
		if !IsInferenceError(err) {
			t.Fatalf("expected inference error, got %v", err)
		}
	})
}

func TestMockEngineConcurrentGenerate(t *testing.T) {
	// One engine instance serves every request goroutine in production, so
	// its random source must tolerate parallel callers. Run with -race.
	e := NewMockEngine(0.5, 0, 0)
	ctx := context.Background()
	messages := []Message{{Role: "user", Content: "What is the market trend?"}}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				out, err := e.Generate(ctx, messages, Params{})
				if err == nil && out == "" {
					t.Error("successful generation returned empty text")
					return
				}
				if err != nil && !IsInferenceError(err) {
					t.Errorf("unexpected error kind: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestMockEngineHealthCheck(t *testing.T) {
	e := NewMockEngine(1, 0, 0)
	if err := e.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}
