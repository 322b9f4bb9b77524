package assistant

import (
	"context"

	"github.com/sovereignai/assistant-api/internal/domain"
	"gorm.io/gorm"
)

// AssistantRepository handles assistant data operations.
type AssistantRepository interface {
	Create(ctx context.Context, a *domain.Assistant) (*domain.Assistant, error)
	FindByID(ctx context.Context, id string) (*domain.Assistant, error)
	FindAll(ctx context.Context, offset, limit int) ([]domain.Assistant, error)
	Save(ctx context.Context, a *domain.Assistant) error
	Delete(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)

	// WithTx returns a repository bound to the given transaction handle so
	// multi-entity operations can share one transactional scope.
	WithTx(tx *gorm.DB) AssistantRepository
}
