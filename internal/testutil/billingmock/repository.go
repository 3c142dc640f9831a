package billingmock

import (
	"context"
	"time"

	domain "corebank/internal/domain/billing"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies billing.Repository.
type Repo struct {
	CreateFn                  func(ctx context.Context, b *domain.Billing) error
	GetByBillingIDFn          func(ctx context.Context, billingID string) (*domain.Billing, error)
	GetByBillingIDForUpdateFn func(ctx context.Context, billingID string) (*domain.Billing, error)
	ListByHolderIDFn          func(ctx context.Context, holderID string) ([]*domain.Billing, error)
	ListRecurringPaidFn       func(ctx context.Context) ([]*domain.Billing, error)
	ListUnpaidDueBeforeFn     func(ctx context.Context, t time.Time) ([]*domain.Billing, error)
	ExistsForPeriodFn         func(ctx context.Context, holderID string, billType domain.Type, dueDate time.Time) (bool, error)
	SaveFn                    func(ctx context.Context, b *domain.Billing) error
}

func (m *Repo) Create(ctx context.Context, b *domain.Billing) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, b)
	}
	return nil
}

func (m *Repo) GetByBillingID(ctx context.Context, billingID string) (*domain.Billing, error) {
	if m.GetByBillingIDFn != nil {
		return m.GetByBillingIDFn(ctx, billingID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByBillingIDForUpdate(ctx context.Context, billingID string) (*domain.Billing, error) {
	if m.GetByBillingIDForUpdateFn != nil {
		return m.GetByBillingIDForUpdateFn(ctx, billingID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListByHolderID(ctx context.Context, holderID string) ([]*domain.Billing, error) {
	if m.ListByHolderIDFn != nil {
		return m.ListByHolderIDFn(ctx, holderID)
	}
	return nil, nil
}

func (m *Repo) ListRecurringPaid(ctx context.Context) ([]*domain.Billing, error) {
	if m.ListRecurringPaidFn != nil {
		return m.ListRecurringPaidFn(ctx)
	}
	return nil, nil
}

func (m *Repo) ListUnpaidDueBefore(ctx context.Context, t time.Time) ([]*domain.Billing, error) {
	if m.ListUnpaidDueBeforeFn != nil {
		return m.ListUnpaidDueBeforeFn(ctx, t)
	}
	return nil, nil
}

func (m *Repo) ExistsForPeriod(ctx context.Context, holderID string, billType domain.Type, dueDate time.Time) (bool, error) {
	if m.ExistsForPeriodFn != nil {
		return m.ExistsForPeriodFn(ctx, holderID, billType, dueDate)
	}
	return false, nil
}

func (m *Repo) Save(ctx context.Context, b *domain.Billing) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, b)
	}
	return nil
}
