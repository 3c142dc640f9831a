package notification

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Type string

const (
	TypeLoanPaymentDue  Type = "LOAN_PAYMENT_DUE"
	TypeLoanDelinquent  Type = "LOAN_DELINQUENT"
	TypeLoanDefaulted   Type = "LOAN_DEFAULTED"
	TypeLoanClosed      Type = "LOAN_CLOSED"
	TypeBillGenerated   Type = "BILL_GENERATED"
	TypeBillOverdue     Type = "BILL_OVERDUE"
	TypeTransactionDone Type = "TRANSACTION_COMPLETED"
)

// Notification is the persisted outbox row; delivery transport picks rows
// up from here and is outside this core.
type Notification struct {
	ID        uint64         `gorm:"primaryKey;column:id" json:"-"`
	UserID    string         `gorm:"size:32;index:idx_notifications_user" json:"user_id"`
	Type      Type           `gorm:"size:40" json:"type"`
	Title     string         `gorm:"size:255" json:"title"`
	Message   string         `gorm:"type:text" json:"message"`
	Link      string         `gorm:"type:text" json:"link"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Notification) TableName() string { return "notifications" }

// Notifier is fire-and-forget: callers log a returned error and move on,
// a failed notification never fails a settlement transition.
type Notifier interface {
	Notify(ctx context.Context, userID string, typ Type, title, message, link string) error
}
