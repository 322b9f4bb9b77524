// File: internal/repository/message/message_repository.go
package message

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/sovereignai/assistant-api/internal/domain"
	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("message not found")

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) WithTx(tx *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: tx}
}

// Create inserts a new message row, assigning the next per-thread sequence
// number. Two messages with colliding timestamps still get a total order.
// Callers run this inside a transaction when sequencing matters.
func (r *gormMessageRepository) Create(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	if err := r.validateMessageInput(m); err != nil {
		log.Printf("[MessageRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var maxSeq int64
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("thread_id = ?", m.ThreadID).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&maxSeq).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error reading sequence for thread %q: %v", m.ThreadID, err)
		return nil, errors.New("database error creating message")
	}
	m.Seq = maxSeq + 1

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		log.Printf("[MessageRepository] Database error during message creation for thread %q: %v", m.ThreadID, err)
		return nil, errors.New("database error creating message")
	}

	return m, nil
}

// FindByThreadID returns a page of messages in conversational replay order
// (oldest first).
func (r *gormMessageRepository) FindByThreadID(ctx context.Context, threadID string, offset, limit int) ([]domain.Message, error) {
	if threadID == "" {
		return nil, errors.New("invalid thread ID")
	}
	if limit <= 0 || limit > 1000 {
		return nil, errors.New("invalid limit: must be between 1 and 1000")
	}
	if offset < 0 {
		return nil, errors.New("invalid offset: must be >= 0")
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC, seq ASC").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error finding messages for thread %q: %v", threadID, err)
		return nil, errors.New("database error fetching messages")
	}
	return messages, nil
}

// FindAllByThreadID loads the full ordered history of a thread. Used for
// context assembly and pruning, where the whole sequence is needed.
func (r *gormMessageRepository) FindAllByThreadID(ctx context.Context, threadID string) ([]domain.Message, error) {
	if threadID == "" {
		return nil, errors.New("invalid thread ID")
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC, seq ASC").
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error loading history for thread %q: %v", threadID, err)
		return nil, errors.New("database error fetching messages")
	}
	return messages, nil
}

// DeleteByIDs removes the given messages, constrained to one thread so a
// stray ID can never touch another conversation. Returns rows deleted.
func (r *gormMessageRepository) DeleteByIDs(ctx context.Context, threadID string, ids []string) (int64, error) {
	if threadID == "" {
		return 0, errors.New("invalid thread ID")
	}
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Where("id IN ? AND thread_id = ?", ids, threadID).
		Delete(&domain.Message{})
	if result.Error != nil {
		log.Printf("[MessageRepository] Database error in bulk delete for thread %q: %v", threadID, result.Error)
		return 0, errors.New("database error deleting messages")
	}
	return result.RowsAffected, nil
}

func (r *gormMessageRepository) DeleteByThreadID(ctx context.Context, threadID string) error {
	if threadID == "" {
		return errors.New("invalid thread ID")
	}

	result := r.db.WithContext(ctx).Where("thread_id = ?", threadID).Delete(&domain.Message{})
	if result.Error != nil {
		log.Printf("[MessageRepository] Database error deleting messages for thread %q: %v", threadID, result.Error)
		return errors.New("database error deleting messages")
	}
	return nil
}

func (r *gormMessageRepository) DeleteByThreadIDs(ctx context.Context, threadIDs []string) error {
	if len(threadIDs) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Where("thread_id IN ?", threadIDs).Delete(&domain.Message{})
	if result.Error != nil {
		log.Printf("[MessageRepository] Database error deleting messages for %d threads: %v", len(threadIDs), result.Error)
		return errors.New("database error deleting messages")
	}
	return nil
}

func (r *gormMessageRepository) CountByThreadID(ctx context.Context, threadID string) (int64, error) {
	if threadID == "" {
		return 0, errors.New("invalid thread ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).Where("thread_id = ?", threadID).Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error counting messages for thread %q: %v", threadID, err)
		return 0, errors.New("database error counting messages")
	}
	return count, nil
}

func (r *gormMessageRepository) validateMessageInput(m *domain.Message) error {
	if m == nil {
		return errors.New("message cannot be nil")
	}
	if m.ID == "" {
		return errors.New("message ID is required")
	}
	if m.ThreadID == "" {
		return errors.New("message thread ID is required")
	}
	if _, err := domain.ParseRole(string(m.Role)); err != nil {
		return err
	}
	return nil
}
