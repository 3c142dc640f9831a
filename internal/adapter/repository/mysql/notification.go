package mysql

import (
	"context"

	"gorm.io/gorm"

	domain "corebank/internal/domain/notification"
)

// NotificationOutbox satisfies notification.Notifier by persisting rows;
// the delivery transport drains the table outside this core.
type NotificationOutbox struct{ db *gorm.DB }

func NewNotificationOutbox(db *gorm.DB) *NotificationOutbox { return &NotificationOutbox{db: db} }

func (o *NotificationOutbox) Notify(ctx context.Context, userID string, typ domain.Type, title, message, link string) error {
	n := &domain.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
		Link:    link,
	}
	return o.db.WithContext(ctx).Create(n).Error
}
