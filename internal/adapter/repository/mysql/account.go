package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "corebank/internal/domain/account"
)

type AccountRepository struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) *AccountRepository { return &AccountRepository{db: db} }

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AccountRepository) Save(ctx context.Context, a *domain.Account) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *AccountRepository) GetByAccountID(ctx context.Context, accountID string) (*domain.Account, error) {
	var out domain.Account
	res := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return &out, res.Error
}

// GetByAccountIDForUpdate takes a row lock; only meaningful inside a
// transaction opened by the unit of work.
func (r *AccountRepository) GetByAccountIDForUpdate(ctx context.Context, accountID string) (*domain.Account, error) {
	var out domain.Account
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_id = ?", accountID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return &out, res.Error
}

func (r *AccountRepository) ListByHolderID(ctx context.Context, holderID string) ([]*domain.Account, error) {
	var out []*domain.Account
	res := r.db.WithContext(ctx).
		Where("holder_id = ?", holderID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
