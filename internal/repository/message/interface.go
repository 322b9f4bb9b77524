package message

import (
	"context"

	"github.com/sovereignai/assistant-api/internal/domain"
	"gorm.io/gorm"
)

// MessageRepository handles message data operations.
type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) (*domain.Message, error)
	FindByThreadID(ctx context.Context, threadID string, offset, limit int) ([]domain.Message, error)
	FindAllByThreadID(ctx context.Context, threadID string) ([]domain.Message, error)
	DeleteByIDs(ctx context.Context, threadID string, ids []string) (int64, error)
	DeleteByThreadID(ctx context.Context, threadID string) error
	DeleteByThreadIDs(ctx context.Context, threadIDs []string) error
	CountByThreadID(ctx context.Context, threadID string) (int64, error)

	// WithTx returns a repository bound to the given transaction handle.
	WithTx(tx *gorm.DB) MessageRepository
}
