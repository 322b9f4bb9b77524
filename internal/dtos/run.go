// File: internal/dtos/run.go
package dtos

import (
	"github.com/sovereignai/assistant-api/internal/services/run"
)

// CreateRunRequestDTO represents the expected payload to execute a run on a
// thread. Instructions, when set, override the assistant's stored
// instructions for this run only. Stream selects server-sent-event delivery.
type CreateRunRequestDTO struct {
	AssistantID  string `json:"assistant_id"`
	Instructions string `json:"instructions,omitempty"`
	Stream       bool   `json:"stream,omitempty"`
}

// RunResponseDTO defines what fields to expose in run API responses.
type RunResponseDTO struct {
	ID          string `json:"id"`
	Object      string `json:"object"`
	ThreadID    string `json:"thread_id"`
	AssistantID string `json:"assistant_id"`
	Status      string `json:"status"`
	CreatedAt   int64  `json:"created_at"`
	CompletedAt *int64 `json:"completed_at,omitempty"`
	LastError   string `json:"last_error,omitempty"`
}

// FromRun maps a run record to RunResponseDTO.
func FromRun(r *run.Run) RunResponseDTO {
	dto := RunResponseDTO{
		ID:          r.ID,
		Object:      "thread.run",
		ThreadID:    r.ThreadID,
		AssistantID: r.AssistantID,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt.Unix(),
		LastError:   r.LastError,
	}
	if r.CompletedAt != nil {
		completedAt := r.CompletedAt.Unix()
		dto.CompletedAt = &completedAt
	}
	return dto
}
