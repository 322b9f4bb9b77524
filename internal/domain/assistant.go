// File: internal/domain/assistant.go
package domain

import "time"

// Assistant is a named, reusable system-prompt + model configuration.
type Assistant struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Name         string    `json:"name" gorm:"size:255;not null;index"`
	Instructions string    `json:"instructions" gorm:"type:text;not null"`
	Model        string    `json:"model" gorm:"size:100;not null;default:gpt-4"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null;index"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"not null"`

	Threads []Thread `json:"-" gorm:"foreignKey:AssistantID;constraint:OnDelete:CASCADE"`
}

func (Assistant) TableName() string { return "assistants" }
