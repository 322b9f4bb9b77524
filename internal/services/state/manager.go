// File: internal/services/state/manager.go
package state

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sovereignai/assistant-api/internal/domain"
	"github.com/sovereignai/assistant-api/internal/repository/assistant"
	"github.com/sovereignai/assistant-api/internal/repository/message"
	"github.com/sovereignai/assistant-api/internal/repository/thread"
)

const DefaultModel = "gpt-4"

// Logger matches services.Logger so sub-packages stay decoupled.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Manager is the sole mutation and query surface for assistants, threads and
// messages. Every operation opens a fresh transactional scope and commits or
// rolls back before returning; entities handed back are detached snapshots.
type Manager struct {
	db            *gorm.DB
	assistantRepo assistant.AssistantRepository
	threadRepo    thread.ThreadRepository
	messageRepo   message.MessageRepository
	logger        Logger
}

func NewManager(
	db *gorm.DB,
	assistantRepo assistant.AssistantRepository,
	threadRepo thread.ThreadRepository,
	messageRepo message.MessageRepository,
	logger Logger,
) (*Manager, error) {
	if db == nil {
		return nil, NewValidationError("constructor", "database handle is required")
	}
	if assistantRepo == nil {
		return nil, NewValidationError("constructor", "assistant repository is required")
	}
	if threadRepo == nil {
		return nil, NewValidationError("constructor", "thread repository is required")
	}
	if messageRepo == nil {
		return nil, NewValidationError("constructor", "message repository is required")
	}
	if logger == nil {
		return nil, NewValidationError("constructor", "logger is required")
	}
	return &Manager{
		db:            db,
		assistantRepo: assistantRepo,
		threadRepo:    threadRepo,
		messageRepo:   messageRepo,
		logger:        logger,
	}, nil
}

// ===== ASSISTANT OPERATIONS =====

// CreateAssistant stores a new assistant configuration. An empty id gets a
// generated UUID; an empty model falls back to DefaultModel.
func (m *Manager) CreateAssistant(ctx context.Context, name, instructions, model, id string) (*domain.Assistant, error) {
	if strings.TrimSpace(instructions) == "" {
		return nil, NewValidationError("create_assistant", "instructions cannot be empty")
	}
	if id == "" {
		id = uuid.NewString()
	}
	if model == "" {
		model = DefaultModel
	}

	a := &domain.Assistant{
		ID:           id,
		Name:         name,
		Instructions: instructions,
		Model:        model,
	}
	created, err := m.assistantRepo.Create(ctx, a)
	if err != nil {
		return nil, NewStorageError("create_assistant", err)
	}

	m.logger.Info("created assistant", "assistant_id", created.ID)
	return created, nil
}

func (m *Manager) GetAssistant(ctx context.Context, id string) (*domain.Assistant, error) {
	a, err := m.assistantRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, assistant.ErrAssistantNotFound) {
			return nil, NewNotFoundError(EntityAssistant, id)
		}
		return nil, NewStorageError("get_assistant", err)
	}
	return a, nil
}

// UpdateAssistantParams carries partial updates; nil fields are untouched.
type UpdateAssistantParams struct {
	Name         *string
	Instructions *string
	Model        *string
}

// UpdateAssistant applies the supplied fields and refreshes the update
// timestamp. Lookup and write share one transaction.
func (m *Manager) UpdateAssistant(ctx context.Context, id string, params UpdateAssistantParams) (*domain.Assistant, error) {
	if params.Instructions != nil && strings.TrimSpace(*params.Instructions) == "" {
		return nil, NewValidationError("update_assistant", "instructions cannot be empty")
	}

	var updated *domain.Assistant
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := m.assistantRepo.WithTx(tx)

		a, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, assistant.ErrAssistantNotFound) {
				return NewNotFoundError(EntityAssistant, id)
			}
			return NewStorageError("update_assistant", err)
		}

		if params.Name != nil {
			a.Name = *params.Name
		}
		if params.Instructions != nil {
			a.Instructions = *params.Instructions
		}
		if params.Model != nil {
			a.Model = *params.Model
		}
		a.UpdatedAt = time.Now().UTC()

		if err := repo.Save(ctx, a); err != nil {
			return NewStorageError("update_assistant", err)
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("updated assistant", "assistant_id", id)
	return updated, nil
}

// DeleteAssistant removes the assistant together with all of its threads and
// their messages in a single transaction.
func (m *Manager) DeleteAssistant(ctx context.Context, id string) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		assistantRepo := m.assistantRepo.WithTx(tx)
		threadRepo := m.threadRepo.WithTx(tx)
		messageRepo := m.messageRepo.WithTx(tx)

		exists, err := assistantRepo.ExistsByID(ctx, id)
		if err != nil {
			return NewStorageError("delete_assistant", err)
		}
		if !exists {
			return NewNotFoundError(EntityAssistant, id)
		}

		threadIDs, err := threadRepo.FindIDsByAssistantID(ctx, id)
		if err != nil {
			return NewStorageError("delete_assistant", err)
		}
		if err := messageRepo.DeleteByThreadIDs(ctx, threadIDs); err != nil {
			return NewStorageError("delete_assistant", err)
		}
		if err := threadRepo.DeleteByAssistantID(ctx, id); err != nil {
			return NewStorageError("delete_assistant", err)
		}
		if err := assistantRepo.Delete(ctx, id); err != nil {
			return NewStorageError("delete_assistant", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("deleted assistant and associated data", "assistant_id", id)
	return nil
}

// ListAssistants returns a page ordered by creation time, newest first.
func (m *Manager) ListAssistants(ctx context.Context, skip, limit int) ([]domain.Assistant, error) {
	assistants, err := m.assistantRepo.FindAll(ctx, skip, limit)
	if err != nil {
		return nil, NewStorageError("list_assistants", err)
	}
	return assistants, nil
}

// ===== THREAD OPERATIONS =====

// CreateThread opens a new conversation under an existing assistant. The
// existence check and the insert share one transaction, so a concurrently
// deleted assistant cannot leave an orphan thread behind.
func (m *Manager) CreateThread(ctx context.Context, assistantID, id string, metadata map[string]any) (*domain.Thread, error) {
	if id == "" {
		id = uuid.NewString()
	}

	metadataJSON, err := marshalMetadata(metadata)
	if err != nil {
		return nil, NewValidationError("create_thread", "metadata is not serializable")
	}

	var created *domain.Thread
	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := m.assistantRepo.WithTx(tx).ExistsByID(ctx, assistantID)
		if err != nil {
			return NewStorageError("create_thread", err)
		}
		if !exists {
			return NewNotFoundError(EntityAssistant, assistantID)
		}

		t := &domain.Thread{
			ID:          id,
			AssistantID: assistantID,
			Metadata:    metadataJSON,
		}
		created, err = m.threadRepo.WithTx(tx).Create(ctx, t)
		if err != nil {
			return NewStorageError("create_thread", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("created thread", "thread_id", created.ID, "assistant_id", assistantID)
	return created, nil
}

func (m *Manager) GetThread(ctx context.Context, id string) (*domain.Thread, error) {
	t, err := m.threadRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, thread.ErrThreadNotFound) {
			return nil, NewNotFoundError(EntityThread, id)
		}
		return nil, NewStorageError("get_thread", err)
	}
	return t, nil
}

// UpdateThread replaces the thread metadata when one is supplied and
// refreshes the update timestamp either way.
func (m *Manager) UpdateThread(ctx context.Context, id string, metadata map[string]any) (*domain.Thread, error) {
	var updated *domain.Thread
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := m.threadRepo.WithTx(tx)

		t, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, thread.ErrThreadNotFound) {
				return NewNotFoundError(EntityThread, id)
			}
			return NewStorageError("update_thread", err)
		}

		if metadata != nil {
			metadataJSON, err := marshalMetadata(metadata)
			if err != nil {
				return NewValidationError("update_thread", "metadata is not serializable")
			}
			t.Metadata = metadataJSON
		}
		t.UpdatedAt = time.Now().UTC()

		if err := repo.Save(ctx, t); err != nil {
			return NewStorageError("update_thread", err)
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("updated thread", "thread_id", id)
	return updated, nil
}

// DeleteThread removes the thread and all of its messages in one transaction.
func (m *Manager) DeleteThread(ctx context.Context, id string) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		threadRepo := m.threadRepo.WithTx(tx)
		messageRepo := m.messageRepo.WithTx(tx)

		exists, err := threadRepo.ExistsByID(ctx, id)
		if err != nil {
			return NewStorageError("delete_thread", err)
		}
		if !exists {
			return NewNotFoundError(EntityThread, id)
		}

		if err := messageRepo.DeleteByThreadID(ctx, id); err != nil {
			return NewStorageError("delete_thread", err)
		}
		if err := threadRepo.Delete(ctx, id); err != nil {
			return NewStorageError("delete_thread", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("deleted thread and associated messages", "thread_id", id)
	return nil
}

// ListThreads returns a page of threads newest-first, optionally filtered by
// owning assistant when assistantID is non-empty.
func (m *Manager) ListThreads(ctx context.Context, assistantID string, skip, limit int) ([]domain.Thread, error) {
	threads, err := m.threadRepo.FindAll(ctx, assistantID, skip, limit)
	if err != nil {
		return nil, NewStorageError("list_threads", err)
	}
	return threads, nil
}

// ===== MESSAGE OPERATIONS =====

// AddMessage appends one turn to a thread. The thread existence check, the
// sequence assignment and the insert share one transaction.
func (m *Manager) AddMessage(ctx context.Context, threadID, role, content string, tokenCount int) (*domain.Message, error) {
	parsedRole, err := domain.ParseRole(role)
	if err != nil {
		return nil, NewValidationError("add_message", err.Error())
	}
	if tokenCount < 0 {
		return nil, NewValidationError("add_message", "token count cannot be negative")
	}

	var created *domain.Message
	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := m.threadRepo.WithTx(tx).ExistsByID(ctx, threadID)
		if err != nil {
			return NewStorageError("add_message", err)
		}
		if !exists {
			return NewNotFoundError(EntityThread, threadID)
		}

		msg := &domain.Message{
			ID:         uuid.NewString(),
			ThreadID:   threadID,
			Role:       parsedRole,
			Content:    content,
			TokenCount: tokenCount,
		}
		created, err = m.messageRepo.WithTx(tx).Create(ctx, msg)
		if err != nil {
			return NewStorageError("add_message", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Debug("added message", "message_id", created.ID, "thread_id", threadID, "role", role)
	return created, nil
}

// GetMessages returns a page of a thread's messages oldest-first — replay
// order, the inverse of the entity listings.
func (m *Manager) GetMessages(ctx context.Context, threadID string, skip, limit int) ([]domain.Message, error) {
	if _, err := m.GetThread(ctx, threadID); err != nil {
		return nil, err
	}

	messages, err := m.messageRepo.FindByThreadID(ctx, threadID, skip, limit)
	if err != nil {
		return nil, NewStorageError("get_messages", err)
	}
	return messages, nil
}

// ContextMessage is one turn reduced to what inference needs.
type ContextMessage struct {
	ID         string             `json:"id"`
	Role       domain.MessageRole `json:"role"`
	Content    string             `json:"content"`
	CreatedAt  time.Time          `json:"created_at"`
	TokenCount int                `json:"token_count"`
}

// ThreadContext is the full ordered snapshot handed to the inference layer.
type ThreadContext struct {
	ThreadID    string           `json:"thread_id"`
	AssistantID string           `json:"assistant_id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Messages    []ContextMessage `json:"messages"`
}

// GetThreadContext assembles the complete conversation history of a thread
// in chronological order, read in a single transactional scope.
func (m *Manager) GetThreadContext(ctx context.Context, threadID string) (*ThreadContext, error) {
	var snapshot *ThreadContext
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := m.threadRepo.WithTx(tx).FindByID(ctx, threadID)
		if err != nil {
			if errors.Is(err, thread.ErrThreadNotFound) {
				return NewNotFoundError(EntityThread, threadID)
			}
			return NewStorageError("get_thread_context", err)
		}

		messages, err := m.messageRepo.WithTx(tx).FindAllByThreadID(ctx, threadID)
		if err != nil {
			return NewStorageError("get_thread_context", err)
		}

		contextMessages := make([]ContextMessage, 0, len(messages))
		for _, msg := range messages {
			contextMessages = append(contextMessages, ContextMessage{
				ID:         msg.ID,
				Role:       msg.Role,
				Content:    msg.Content,
				CreatedAt:  msg.CreatedAt,
				TokenCount: msg.TokenCount,
			})
		}

		snapshot = &ThreadContext{
			ThreadID:    t.ID,
			AssistantID: t.AssistantID,
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   t.UpdatedAt,
			Messages:    contextMessages,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Debug("loaded thread context", "thread_id", threadID, "messages", len(snapshot.Messages))
	return snapshot, nil
}

// DeleteOldMessages prunes a thread down to its keepCount most recent
// messages and reports how many were removed. Only the oldest prefix is ever
// deleted; keepCount >= total is a no-op.
func (m *Manager) DeleteOldMessages(ctx context.Context, threadID string, keepCount int) (int, error) {
	if keepCount < 0 {
		return 0, NewValidationError("delete_old_messages", "keep count cannot be negative")
	}

	deleted := 0
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		threadRepo := m.threadRepo.WithTx(tx)
		messageRepo := m.messageRepo.WithTx(tx)

		exists, err := threadRepo.ExistsByID(ctx, threadID)
		if err != nil {
			return NewStorageError("delete_old_messages", err)
		}
		if !exists {
			return NewNotFoundError(EntityThread, threadID)
		}

		messages, err := messageRepo.FindAllByThreadID(ctx, threadID)
		if err != nil {
			return NewStorageError("delete_old_messages", err)
		}

		deleteCount := len(messages) - keepCount
		if deleteCount <= 0 {
			return nil
		}

		ids := make([]string, 0, deleteCount)
		for _, msg := range messages[:deleteCount] {
			ids = append(ids, msg.ID)
		}

		rows, err := messageRepo.DeleteByIDs(ctx, threadID, ids)
		if err != nil {
			return NewStorageError("delete_old_messages", err)
		}
		deleted = int(rows)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		m.logger.Info("pruned old messages", "thread_id", threadID, "deleted", deleted, "kept", keepCount)
	}
	return deleted, nil
}

func marshalMetadata(metadata map[string]any) (datatypes.JSON, error) {
	if metadata == nil {
		return datatypes.JSON([]byte("{}")), nil
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
