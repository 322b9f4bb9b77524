// File: internal/domain/message.go
package domain

import (
	"fmt"
	"time"
)

// MessageRole is the closed set of conversation roles.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ParseRole validates a caller-supplied role string against the closed set.
func ParseRole(s string) (MessageRole, error) {
	switch MessageRole(s) {
	case RoleSystem, RoleUser, RoleAssistant:
		return MessageRole(s), nil
	}
	return "", fmt.Errorf("invalid role %q: must be one of system, user, assistant", s)
}

func (r MessageRole) String() string { return string(r) }

// Message is one conversational turn within a thread. Seq is assigned inside
// the insert transaction and breaks ties between messages created at the same
// timestamp, so (created_at, seq) is the canonical conversation order.
type Message struct {
	ID         string      `json:"id" gorm:"primaryKey;size:36"`
	Seq        int64       `json:"-" gorm:"not null;index:idx_message_thread_seq,priority:2"`
	ThreadID   string      `json:"thread_id" gorm:"size:36;not null;index;index:idx_message_thread_seq,priority:1"`
	Role       MessageRole `json:"role" gorm:"size:16;not null;index"`
	Content    string      `json:"content" gorm:"type:text;not null"`
	TokenCount int         `json:"token_count" gorm:"not null;default:0"`
	CreatedAt  time.Time   `json:"created_at" gorm:"not null;index"`
}

func (Message) TableName() string { return "messages" }
