// File: internal/repository/assistant/assistant_repository.go
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/sovereignai/assistant-api/internal/domain"
	"gorm.io/gorm"
)

var ErrAssistantNotFound = errors.New("assistant not found")

type gormAssistantRepository struct {
	db *gorm.DB
}

func NewAssistantRepository(db *gorm.DB) AssistantRepository {
	return &gormAssistantRepository{db: db}
}

func (r *gormAssistantRepository) WithTx(tx *gorm.DB) AssistantRepository {
	return &gormAssistantRepository{db: tx}
}

// Create inserts a new assistant row.
func (r *gormAssistantRepository) Create(ctx context.Context, a *domain.Assistant) (*domain.Assistant, error) {
	if err := r.validateAssistantInput(a); err != nil {
		log.Printf("[AssistantRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		log.Printf("[AssistantRepository] Database error during assistant creation %q: %v", a.ID, err)
		return nil, errors.New("database error creating assistant")
	}

	return a, nil
}

func (r *gormAssistantRepository) FindByID(ctx context.Context, id string) (*domain.Assistant, error) {
	if id == "" {
		return nil, errors.New("invalid assistant ID")
	}

	var a domain.Assistant
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssistantNotFound
		}
		log.Printf("[AssistantRepository] Database error finding assistant %q: %v", id, err)
		return nil, errors.New("database error fetching assistant")
	}
	return &a, nil
}

// FindAll returns a page of assistants ordered newest-first. The id tiebreak
// keeps the ordering total so non-overlapping pages never share rows.
func (r *gormAssistantRepository) FindAll(ctx context.Context, offset, limit int) ([]domain.Assistant, error) {
	if limit <= 0 || limit > 1000 {
		return nil, errors.New("invalid limit: must be between 1 and 1000")
	}
	if offset < 0 {
		return nil, errors.New("invalid offset: must be >= 0")
	}

	var assistants []domain.Assistant
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&assistants).Error
	if err != nil {
		log.Printf("[AssistantRepository] Database error listing assistants: %v", err)
		return nil, errors.New("database error listing assistants")
	}
	return assistants, nil
}

func (r *gormAssistantRepository) Save(ctx context.Context, a *domain.Assistant) error {
	if a.ID == "" {
		return errors.New("invalid assistant ID")
	}
	if err := r.validateAssistantInput(a); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	result := r.db.WithContext(ctx).Save(a)
	if result.Error != nil {
		log.Printf("[AssistantRepository] Database error updating assistant %q: %v", a.ID, result.Error)
		return errors.New("database error updating assistant")
	}
	if result.RowsAffected == 0 {
		return ErrAssistantNotFound
	}
	return nil
}

func (r *gormAssistantRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("invalid assistant ID")
	}

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Assistant{})
	if result.Error != nil {
		log.Printf("[AssistantRepository] Database error deleting assistant %q: %v", id, result.Error)
		return errors.New("database error deleting assistant")
	}
	if result.RowsAffected == 0 {
		return ErrAssistantNotFound
	}
	return nil
}

func (r *gormAssistantRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, errors.New("invalid assistant ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Assistant{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		log.Printf("[AssistantRepository] Database error checking assistant existence %q: %v", id, err)
		return false, errors.New("database error checking assistant existence")
	}
	return count > 0, nil
}

func (r *gormAssistantRepository) validateAssistantInput(a *domain.Assistant) error {
	if a == nil {
		return errors.New("assistant cannot be nil")
	}
	if a.ID == "" {
		return errors.New("assistant ID is required")
	}
	if strings.TrimSpace(a.Instructions) == "" {
		return errors.New("assistant instructions cannot be empty")
	}
	return nil
}
