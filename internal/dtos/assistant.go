// File: internal/dtos/assistant.go
package dtos

import (
	"github.com/sovereignai/assistant-api/internal/domain"
)

// CreateAssistantRequestDTO represents the expected payload to create an assistant.
type CreateAssistantRequestDTO struct {
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
	Model        string `json:"model,omitempty"`
}

// UpdateAssistantRequestDTO represents a partial assistant update. Absent
// fields keep their current values.
type UpdateAssistantRequestDTO struct {
	Name         *string `json:"name,omitempty"`
	Instructions *string `json:"instructions,omitempty"`
	Model        *string `json:"model,omitempty"`
}

// AssistantResponseDTO defines what fields to expose in assistant API responses.
type AssistantResponseDTO struct {
	ID           string `json:"id"`
	Object       string `json:"object"`
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
	Model        string `json:"model"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

// FromAssistant maps a domain.Assistant to AssistantResponseDTO.
func FromAssistant(a *domain.Assistant) AssistantResponseDTO {
	return AssistantResponseDTO{
		ID:           a.ID,
		Object:       "assistant",
		Name:         a.Name,
		Instructions: a.Instructions,
		Model:        a.Model,
		CreatedAt:    a.CreatedAt.Unix(),
		UpdatedAt:    a.UpdatedAt.Unix(),
	}
}

// FromAssistantSlice maps a slice of domain.Assistant to response DTOs.
func FromAssistantSlice(assistants []domain.Assistant) []AssistantResponseDTO {
	out := make([]AssistantResponseDTO, len(assistants))
	for i := range assistants {
		out[i] = FromAssistant(&assistants[i])
	}
	return out
}
