// File: internal/dtos/message.go
package dtos

import (
	"github.com/sovereignai/assistant-api/internal/domain"
)

// CreateMessageRequestDTO represents the expected payload to append a message.
type CreateMessageRequestDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MessageResponseDTO defines what fields to expose in message API responses.
type MessageResponseDTO struct {
	ID         string `json:"id"`
	Object     string `json:"object"`
	ThreadID   string `json:"thread_id"`
	Role       string `json:"role"`
	Content    string `json:"content"`
	TokenCount int    `json:"token_count"`
	CreatedAt  int64  `json:"created_at"`
}

// FromMessage maps a domain.Message to MessageResponseDTO.
func FromMessage(m *domain.Message) MessageResponseDTO {
	return MessageResponseDTO{
		ID:         m.ID,
		Object:     "thread.message",
		ThreadID:   m.ThreadID,
		Role:       m.Role.String(),
		Content:    m.Content,
		TokenCount: m.TokenCount,
		CreatedAt:  m.CreatedAt.Unix(),
	}
}

// FromMessageSlice maps a slice of domain.Message to response DTOs.
func FromMessageSlice(messages []domain.Message) []MessageResponseDTO {
	out := make([]MessageResponseDTO, len(messages))
	for i := range messages {
		out[i] = FromMessage(&messages[i])
	}
	return out
}
