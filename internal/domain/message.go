// File: internal/domain/message.go
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// MaxUserMessageLength caps inbound user text at the service boundary.
const MaxUserMessageLength = 5000

// Message is a single entry within a conversation, totally ordered by
// creation time. Metadata records which model answered, token usage, which
// detection mode ran and whether database grounding was injected.
type Message struct {
	ID             uint              `gorm:"primarykey" json:"id"`
	ConversationID uint              `gorm:"not null;index" json:"conversation_id"`
	Role           string            `gorm:"not null;size:20" json:"role"`
	Content        string            `gorm:"not null" json:"content"`
	Metadata       datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt      time.Time         `gorm:"index" json:"created_at"`
}

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}
