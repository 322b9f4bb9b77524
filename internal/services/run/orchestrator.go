// File: internal/services/run/orchestrator.go
package run

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sovereignai/assistant-api/internal/domain"
	"github.com/sovereignai/assistant-api/internal/services/inference"
	"github.com/sovereignai/assistant-api/internal/services/state"
	"github.com/sovereignai/assistant-api/internal/tokenutil"
)

// Logger matches services.Logger so sub-packages stay decoupled.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// StateManager is the slice of the state manager the orchestrator needs.
type StateManager interface {
	GetThread(ctx context.Context, id string) (*domain.Thread, error)
	GetAssistant(ctx context.Context, id string) (*domain.Assistant, error)
	GetThreadContext(ctx context.Context, threadID string) (*state.ThreadContext, error)
	AddMessage(ctx context.Context, threadID, role, content string, tokenCount int) (*domain.Message, error)
}

// Orchestrator executes exactly one inference cycle per call. It owns no
// persistent state: entities live in the state manager, and a run record
// exists only in the response.
type Orchestrator struct {
	stateManager StateManager
	engine       inference.Engine
	logger       Logger
}

func NewOrchestrator(stateManager StateManager, engine inference.Engine, logger Logger) (*Orchestrator, error) {
	if stateManager == nil {
		return nil, state.NewValidationError("constructor", "state manager is required")
	}
	if engine == nil {
		return nil, state.NewValidationError("constructor", "inference engine is required")
	}
	if logger == nil {
		return nil, state.NewValidationError("constructor", "logger is required")
	}
	return &Orchestrator{stateManager: stateManager, engine: engine, logger: logger}, nil
}

// Create runs one synchronous inference cycle: resolve thread and assistant,
// load the ordered context, generate, persist the completion. Missing
// entities propagate as NotFound before any inference call; inference or
// persistence failures come back as a Failed run record, not as an error.
func (o *Orchestrator) Create(ctx context.Context, req CreateRunRequest) (*Run, error) {
	r := &Run{
		ID:          uuid.NewString(),
		ThreadID:    req.ThreadID,
		AssistantID: req.AssistantID,
		Status:      StatusQueued,
		CreatedAt:   time.Now().UTC(),
	}
	o.logger.Info("creating run", "run_id", r.ID, "thread_id", req.ThreadID)

	assistant, messages, err := o.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	r.Status = StatusInProgress
	text, err := o.engine.Generate(ctx, messages, inference.Params{Model: assistant.Model})
	if err != nil {
		return o.fail(r, err), nil
	}

	return o.complete(ctx, r, text), nil
}

// Stream runs one inference cycle delivering the response incrementally
// through onDelta. After the stream ends normally the aggregate text is
// persisted as an assistant message, same as the non-streaming path, and the
// terminal run record is returned.
func (o *Orchestrator) Stream(ctx context.Context, req CreateRunRequest, onDelta func(string) error) (*Run, error) {
	r := &Run{
		ID:          uuid.NewString(),
		ThreadID:    req.ThreadID,
		AssistantID: req.AssistantID,
		Status:      StatusQueued,
		CreatedAt:   time.Now().UTC(),
	}
	o.logger.Info("creating streaming run", "run_id", r.ID, "thread_id", req.ThreadID)

	assistant, messages, err := o.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	r.Status = StatusInProgress
	var aggregate strings.Builder
	err = o.engine.GenerateStream(ctx, messages, inference.Params{Model: assistant.Model}, func(delta string) error {
		aggregate.WriteString(delta)
		return onDelta(delta)
	})
	if err != nil {
		return o.fail(r, err), nil
	}

	return o.complete(ctx, r, aggregate.String()), nil
}

// resolve performs the request-level existence checks and context assembly.
// Errors here are caller mistakes and propagate; the run never reaches
// in_progress and the engine is never called.
func (o *Orchestrator) resolve(ctx context.Context, req CreateRunRequest) (*domain.Assistant, []inference.Message, error) {
	if _, err := o.stateManager.GetThread(ctx, req.ThreadID); err != nil {
		return nil, nil, err
	}

	assistant, err := o.stateManager.GetAssistant(ctx, req.AssistantID)
	if err != nil {
		return nil, nil, err
	}

	threadContext, err := o.stateManager.GetThreadContext(ctx, req.ThreadID)
	if err != nil {
		return nil, nil, err
	}

	messages := make([]inference.Message, 0, len(threadContext.Messages)+1)
	if instructions := strings.TrimSpace(req.Instructions); instructions != "" {
		messages = append(messages, inference.Message{
			Role:    domain.RoleSystem.String(),
			Content: instructions,
		})
	}
	for _, m := range threadContext.Messages {
		messages = append(messages, inference.Message{
			Role:    m.Role.String(),
			Content: m.Content,
		})
	}
	return assistant, messages, nil
}

func (o *Orchestrator) complete(ctx context.Context, r *Run, text string) *Run {
	_, err := o.stateManager.AddMessage(ctx, r.ThreadID, domain.RoleAssistant.String(), text, tokenutil.Estimate(text))
	if err != nil {
		return o.fail(r, err)
	}

	completedAt := time.Now().UTC()
	r.Status = StatusCompleted
	r.CompletedAt = &completedAt
	o.logger.Info("run completed", "run_id", r.ID, "thread_id", r.ThreadID)
	return r
}

// fail converts a generation or persistence failure into a terminal run
// record. A run failing to produce a response is a reportable business
// outcome, not a transport error.
func (o *Orchestrator) fail(r *Run, err error) *Run {
	r.Status = StatusFailed
	r.CompletedAt = nil
	r.LastError = err.Error()
	o.logger.Error("run failed", "run_id", r.ID, "thread_id", r.ThreadID, "error", err)
	return r
}
