// File: internal/repository/thread/thread_repository.go
package thread

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/sovereignai/assistant-api/internal/domain"
	"gorm.io/gorm"
)

var ErrThreadNotFound = errors.New("thread not found")

type gormThreadRepository struct {
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &gormThreadRepository{db: db}
}

func (r *gormThreadRepository) WithTx(tx *gorm.DB) ThreadRepository {
	return &gormThreadRepository{db: tx}
}

// Create inserts a new thread row. The assistant foreign key is enforced by
// the schema; callers are expected to have verified it already.
func (r *gormThreadRepository) Create(ctx context.Context, t *domain.Thread) (*domain.Thread, error) {
	if err := r.validateThreadInput(t); err != nil {
		log.Printf("[ThreadRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		log.Printf("[ThreadRepository] Database error during thread creation for assistant %q: %v", t.AssistantID, err)
		return nil, errors.New("database error creating thread")
	}

	return t, nil
}

func (r *gormThreadRepository) FindByID(ctx context.Context, id string) (*domain.Thread, error) {
	if id == "" {
		return nil, errors.New("invalid thread ID")
	}

	var t domain.Thread
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThreadNotFound
		}
		log.Printf("[ThreadRepository] Database error finding thread %q: %v", id, err)
		return nil, errors.New("database error fetching thread")
	}
	return &t, nil
}

// FindAll returns a page of threads newest-first, optionally filtered by
// owning assistant when assistantID is non-empty.
func (r *gormThreadRepository) FindAll(ctx context.Context, assistantID string, offset, limit int) ([]domain.Thread, error) {
	if limit <= 0 || limit > 1000 {
		return nil, errors.New("invalid limit: must be between 1 and 1000")
	}
	if offset < 0 {
		return nil, errors.New("invalid offset: must be >= 0")
	}

	query := r.db.WithContext(ctx).Model(&domain.Thread{})
	if assistantID != "" {
		query = query.Where("assistant_id = ?", assistantID)
	}

	var threads []domain.Thread
	err := query.
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&threads).Error
	if err != nil {
		log.Printf("[ThreadRepository] Database error listing threads: %v", err)
		return nil, errors.New("database error listing threads")
	}
	return threads, nil
}

func (r *gormThreadRepository) FindIDsByAssistantID(ctx context.Context, assistantID string) ([]string, error) {
	if assistantID == "" {
		return nil, errors.New("invalid assistant ID")
	}

	var ids []string
	err := r.db.WithContext(ctx).
		Model(&domain.Thread{}).
		Where("assistant_id = ?", assistantID).
		Pluck("id", &ids).Error
	if err != nil {
		log.Printf("[ThreadRepository] Database error listing thread IDs for assistant %q: %v", assistantID, err)
		return nil, errors.New("database error listing thread IDs")
	}
	return ids, nil
}

func (r *gormThreadRepository) Save(ctx context.Context, t *domain.Thread) error {
	if t.ID == "" {
		return errors.New("invalid thread ID")
	}

	result := r.db.WithContext(ctx).Save(t)
	if result.Error != nil {
		log.Printf("[ThreadRepository] Database error updating thread %q: %v", t.ID, result.Error)
		return errors.New("database error updating thread")
	}
	if result.RowsAffected == 0 {
		return ErrThreadNotFound
	}
	return nil
}

func (r *gormThreadRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("invalid thread ID")
	}

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Thread{})
	if result.Error != nil {
		log.Printf("[ThreadRepository] Database error deleting thread %q: %v", id, result.Error)
		return errors.New("database error deleting thread")
	}
	if result.RowsAffected == 0 {
		return ErrThreadNotFound
	}
	return nil
}

// DeleteByAssistantID removes every thread owned by the assistant. Deleting
// zero rows is not an error here: an assistant may own no threads.
func (r *gormThreadRepository) DeleteByAssistantID(ctx context.Context, assistantID string) error {
	if assistantID == "" {
		return errors.New("invalid assistant ID")
	}

	result := r.db.WithContext(ctx).Where("assistant_id = ?", assistantID).Delete(&domain.Thread{})
	if result.Error != nil {
		log.Printf("[ThreadRepository] Database error deleting threads for assistant %q: %v", assistantID, result.Error)
		return errors.New("database error deleting threads")
	}
	return nil
}

func (r *gormThreadRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, errors.New("invalid thread ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Thread{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		log.Printf("[ThreadRepository] Database error checking thread existence %q: %v", id, err)
		return false, errors.New("database error checking thread existence")
	}
	return count > 0, nil
}

func (r *gormThreadRepository) validateThreadInput(t *domain.Thread) error {
	if t == nil {
		return errors.New("thread cannot be nil")
	}
	if t.ID == "" {
		return errors.New("thread ID is required")
	}
	if t.AssistantID == "" {
		return errors.New("thread assistant ID is required")
	}
	return nil
}
