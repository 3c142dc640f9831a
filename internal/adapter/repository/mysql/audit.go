package mysql

import (
	"context"

	"gorm.io/gorm"

	domain "corebank/internal/domain/audit"
)

type AuditRecorder struct{ db *gorm.DB }

func NewAuditRecorder(db *gorm.DB) *AuditRecorder { return &AuditRecorder{db: db} }

func (r *AuditRecorder) Record(ctx context.Context, e domain.Entry) error {
	row := &domain.Log{
		ActorID:     e.ActorID,
		Action:      e.Action,
		Severity:    e.Severity,
		Description: e.Description,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		OldValue:    e.OldValue,
		NewValue:    e.NewValue,
	}
	return r.db.WithContext(ctx).Create(row).Error
}
