package audit

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

type Entry struct {
	ActorID     string
	Action      string
	Severity    Severity
	Description string
	EntityType  string
	EntityID    string
	OldValue    string
	NewValue    string
}

type Log struct {
	ID          uint64         `gorm:"primaryKey;column:id" json:"-"`
	ActorID     string         `gorm:"size:32;index:idx_audit_actor" json:"actor_id"`
	Action      string         `gorm:"size:64" json:"action"`
	Severity    Severity       `gorm:"size:16" json:"severity"`
	Description string         `gorm:"type:text" json:"description"`
	EntityType  string         `gorm:"size:32;index:idx_audit_entity" json:"entity_type"`
	EntityID    string         `gorm:"size:36;index:idx_audit_entity" json:"entity_id"`
	OldValue    string         `gorm:"type:text" json:"old_value,omitempty"`
	NewValue    string         `gorm:"type:text" json:"new_value,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Log) TableName() string { return "audit_logs" }

// Recorder is called after every state transition. A recording failure is
// logged by the caller and never rolls back the financial mutation.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}
