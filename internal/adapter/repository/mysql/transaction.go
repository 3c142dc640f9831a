package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "corebank/internal/domain/transaction"
)

type TransactionRepository struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepository) Save(ctx context.Context, t *domain.Transaction) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *TransactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	var out domain.Transaction
	res := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return &out, res.Error
}

func (r *TransactionRepository) GetByTransactionIDForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	var out domain.Transaction
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("transaction_id = ?", transactionID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return &out, res.Error
}

func (r *TransactionRepository) ListByAccountIDs(ctx context.Context, accountIDs []string) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	res := r.db.WithContext(ctx).
		Where("from_account_id IN ? OR to_account_id IN ?", accountIDs, accountIDs).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *TransactionRepository) ListCompletedByAccountIDsSince(ctx context.Context, accountIDs []string, since time.Time) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	res := r.db.WithContext(ctx).
		Where("status = ?", domain.StatusCompleted).
		Where("created_at >= ?", since).
		Where("from_account_id IN ? OR to_account_id IN ?", accountIDs, accountIDs).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}
