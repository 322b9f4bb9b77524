package thread

import (
	"context"

	"github.com/sovereignai/assistant-api/internal/domain"
	"gorm.io/gorm"
)

// ThreadRepository handles conversation-thread data operations.
type ThreadRepository interface {
	Create(ctx context.Context, t *domain.Thread) (*domain.Thread, error)
	FindByID(ctx context.Context, id string) (*domain.Thread, error)
	FindAll(ctx context.Context, assistantID string, offset, limit int) ([]domain.Thread, error)
	FindIDsByAssistantID(ctx context.Context, assistantID string) ([]string, error)
	Save(ctx context.Context, t *domain.Thread) error
	Delete(ctx context.Context, id string) error
	DeleteByAssistantID(ctx context.Context, assistantID string) error
	ExistsByID(ctx context.Context, id string) (bool, error)

	// WithTx returns a repository bound to the given transaction handle.
	WithTx(tx *gorm.DB) ThreadRepository
}
