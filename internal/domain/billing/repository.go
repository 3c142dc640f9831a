package billing

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, b *Billing) error
	GetByBillingID(ctx context.Context, billingID string) (*Billing, error)
	GetByBillingIDForUpdate(ctx context.Context, billingID string) (*Billing, error)
	ListByHolderID(ctx context.Context, holderID string) ([]*Billing, error)
	// ListRecurringPaid returns PAID bills that carry a frequency.
	ListRecurringPaid(ctx context.Context) ([]*Billing, error)
	// ListUnpaidDueBefore returns PENDING/SENT bills whose due date is
	// strictly before t.
	ListUnpaidDueBefore(ctx context.Context, t time.Time) ([]*Billing, error)
	// ExistsForPeriod reports whether a bill already exists for the given
	// holder, type and due date. Guards recurrence generation.
	ExistsForPeriod(ctx context.Context, holderID string, billType Type, dueDate time.Time) (bool, error)
	Save(ctx context.Context, b *Billing) error
}
