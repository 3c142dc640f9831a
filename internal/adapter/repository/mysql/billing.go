package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "corebank/internal/domain/billing"
)

type BillingRepository struct{ db *gorm.DB }

func NewBillingRepository(db *gorm.DB) *BillingRepository { return &BillingRepository{db: db} }

func (r *BillingRepository) Create(ctx context.Context, b *domain.Billing) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BillingRepository) Save(ctx context.Context, b *domain.Billing) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BillingRepository) GetByBillingID(ctx context.Context, billingID string) (*domain.Billing, error) {
	var out domain.Billing
	res := r.db.WithContext(ctx).Where("billing_id = ?", billingID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return &out, res.Error
}

func (r *BillingRepository) GetByBillingIDForUpdate(ctx context.Context, billingID string) (*domain.Billing, error) {
	var out domain.Billing
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("billing_id = ?", billingID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return &out, res.Error
}

func (r *BillingRepository) ListByHolderID(ctx context.Context, holderID string) ([]*domain.Billing, error) {
	var out []*domain.Billing
	res := r.db.WithContext(ctx).
		Where("holder_id = ?", holderID).
		Order("due_date DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *BillingRepository) ListRecurringPaid(ctx context.Context) ([]*domain.Billing, error) {
	var out []*domain.Billing
	res := r.db.WithContext(ctx).
		Where("status = ? AND frequency IS NOT NULL", domain.StatusPaid).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *BillingRepository) ListUnpaidDueBefore(ctx context.Context, t time.Time) ([]*domain.Billing, error) {
	var out []*domain.Billing
	res := r.db.WithContext(ctx).
		Where("status IN ?", []domain.Status{domain.StatusPending, domain.StatusSent}).
		Where("due_date < ?", t).
		Order("due_date ASC, id ASC").
		Find(&out)
	return out, res.Error
}

// ExistsForPeriod matches on the calendar day of the due date, which is
// what makes recurrence generation idempotent.
func (r *BillingRepository) ExistsForPeriod(ctx context.Context, holderID string, billType domain.Type, dueDate time.Time) (bool, error) {
	day := dueDate.UTC().Truncate(24 * time.Hour)
	var n int64
	res := r.db.WithContext(ctx).
		Model(&domain.Billing{}).
		Where("holder_id = ? AND type = ?", holderID, billType).
		Where("due_date >= ? AND due_date < ?", day, day.AddDate(0, 0, 1)).
		Count(&n)
	return n > 0, res.Error
}
