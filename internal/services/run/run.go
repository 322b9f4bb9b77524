// File: internal/services/run/run.go
package run

import "time"

// Status is the run state machine. Queued and InProgress are transient and
// never observed by callers in the synchronous design; a returned run is
// always Completed or Failed.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Run is the terminal record of one inference cycle against a thread.
type Run struct {
	ID          string     `json:"id"`
	ThreadID    string     `json:"thread_id"`
	AssistantID string     `json:"assistant_id"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
}

// CreateRunRequest configures one inference cycle. Instructions, when
// non-empty, override the assistant's stored system prompt for this run.
type CreateRunRequest struct {
	ThreadID     string
	AssistantID  string
	Instructions string
}
