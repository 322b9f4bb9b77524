// File: internal/domain/thread.go
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Thread is a single conversation scope owned by an assistant.
type Thread struct {
	ID          string         `json:"id" gorm:"primaryKey;size:36"`
	AssistantID string         `json:"assistant_id" gorm:"size:36;not null;index"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"` // opaque, caller-supplied
	CreatedAt   time.Time      `json:"created_at" gorm:"not null;index"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"not null"`

	Messages []Message `json:"-" gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE"`
}

func (Thread) TableName() string { return "threads" }
