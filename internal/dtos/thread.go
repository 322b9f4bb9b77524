// File: internal/dtos/thread.go
package dtos

import (
	"encoding/json"

	"github.com/sovereignai/assistant-api/internal/domain"
)

// CreateThreadRequestDTO represents the expected payload to create a thread.
type CreateThreadRequestDTO struct {
	AssistantID string                 `json:"assistant_id"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// UpdateThreadRequestDTO replaces a thread's metadata document.
type UpdateThreadRequestDTO struct {
	Metadata map[string]interface{} `json:"metadata"`
}

// ThreadResponseDTO defines what fields to expose in thread API responses.
type ThreadResponseDTO struct {
	ID          string          `json:"id"`
	Object      string          `json:"object"`
	AssistantID string          `json:"assistant_id"`
	Metadata    json.RawMessage `json:"metadata"`
	CreatedAt   int64           `json:"created_at"`
	UpdatedAt   int64           `json:"updated_at"`
}

// FromThread maps a domain.Thread to ThreadResponseDTO.
func FromThread(t *domain.Thread) ThreadResponseDTO {
	metadata := json.RawMessage(t.Metadata)
	if len(metadata) == 0 {
		metadata = json.RawMessage("{}")
	}
	return ThreadResponseDTO{
		ID:          t.ID,
		Object:      "thread",
		AssistantID: t.AssistantID,
		Metadata:    metadata,
		CreatedAt:   t.CreatedAt.Unix(),
		UpdatedAt:   t.UpdatedAt.Unix(),
	}
}

// FromThreadSlice maps a slice of domain.Thread to response DTOs.
func FromThreadSlice(threads []domain.Thread) []ThreadResponseDTO {
	out := make([]ThreadResponseDTO, len(threads))
	for i := range threads {
		out[i] = FromThread(&threads[i])
	}
	return out
}
