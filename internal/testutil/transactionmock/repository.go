package transactionmock

import (
	"context"
	"time"

	domain "corebank/internal/domain/transaction"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies transaction.Repository.
type Repo struct {
	CreateFn                         func(ctx context.Context, t *domain.Transaction) error
	GetByTransactionIDFn             func(ctx context.Context, transactionID string) (*domain.Transaction, error)
	GetByTransactionIDForUpdateFn    func(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListByAccountIDsFn               func(ctx context.Context, accountIDs []string) ([]*domain.Transaction, error)
	ListCompletedByAccountIDsSinceFn func(ctx context.Context, accountIDs []string, since time.Time) ([]*domain.Transaction, error)
	SaveFn                           func(ctx context.Context, t *domain.Transaction) error
}

func (m *Repo) Create(ctx context.Context, t *domain.Transaction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}

func (m *Repo) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	if m.GetByTransactionIDFn != nil {
		return m.GetByTransactionIDFn(ctx, transactionID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByTransactionIDForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	if m.GetByTransactionIDForUpdateFn != nil {
		return m.GetByTransactionIDForUpdateFn(ctx, transactionID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListByAccountIDs(ctx context.Context, accountIDs []string) ([]*domain.Transaction, error) {
	if m.ListByAccountIDsFn != nil {
		return m.ListByAccountIDsFn(ctx, accountIDs)
	}
	return nil, nil
}

func (m *Repo) ListCompletedByAccountIDsSince(ctx context.Context, accountIDs []string, since time.Time) ([]*domain.Transaction, error) {
	if m.ListCompletedByAccountIDsSinceFn != nil {
		return m.ListCompletedByAccountIDsSinceFn(ctx, accountIDs, since)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, t *domain.Transaction) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, t)
	}
	return nil
}
