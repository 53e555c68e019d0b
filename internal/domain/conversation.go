// File: internal/domain/conversation.go
package domain

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Closed set of keys stored in a conversation's context map. Reads go through
// the typed accessors below; absent keys always resolve to explicit defaults.
const (
	contextKeyLastQuery     = "last_database_query"
	contextKeyLastQueryMode = "last_database_query_mode"
	contextKeyLastQueryAt   = "last_database_query_at"
)

// Conversation is a single assistant thread owned by one tenant and one user.
// Deletion is a reversible lifecycle transition backed by the soft-delete
// column; Restore moves it back to active.
type Conversation struct {
	ID             uint              `gorm:"primarykey" json:"id"`
	TenantID       uint              `gorm:"not null;index" json:"tenant_id"`
	UserID         uint              `gorm:"not null;index" json:"user_id"`
	Title          string            `gorm:"size:200" json:"title"`
	Context        datatypes.JSONMap `json:"context"`
	LastActivityAt time.Time         `gorm:"index" json:"last_activity_at"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	DeletedAt      gorm.DeletedAt    `gorm:"index" json:"-"`
}

// LastDataQuery describes the most recent grounded database query recorded on
// the conversation, used for continuity across turns.
type LastDataQuery struct {
	Type string
	Mode string
	At   time.Time
}

// SetLastDataQuery records which catalog query grounded the latest turn.
func (c *Conversation) SetLastDataQuery(queryType string, mode DetectionMode, at time.Time) {
	if c.Context == nil {
		c.Context = datatypes.JSONMap{}
	}
	c.Context[contextKeyLastQuery] = queryType
	c.Context[contextKeyLastQueryMode] = string(mode)
	c.Context[contextKeyLastQueryAt] = at.UTC().Format(time.RFC3339)
}

// GetLastDataQuery returns the recorded query info, or ok=false when the
// conversation has never been grounded.
func (c *Conversation) GetLastDataQuery() (LastDataQuery, bool) {
	if c.Context == nil {
		return LastDataQuery{}, false
	}
	queryType, _ := c.Context[contextKeyLastQuery].(string)
	if queryType == "" {
		return LastDataQuery{}, false
	}
	mode, _ := c.Context[contextKeyLastQueryMode].(string)
	out := LastDataQuery{Type: queryType, Mode: mode}
	if raw, _ := c.Context[contextKeyLastQueryAt].(string); raw != "" {
		if at, err := time.Parse(time.RFC3339, raw); err == nil {
			out.At = at
		}
	}
	return out, true
}
