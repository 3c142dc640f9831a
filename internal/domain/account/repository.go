package account

import "context"

type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByAccountID(ctx context.Context, accountID string) (*Account, error)
	// GetByAccountIDForUpdate locks the account row for the duration of the
	// surrounding transaction.
	GetByAccountIDForUpdate(ctx context.Context, accountID string) (*Account, error)
	ListByHolderID(ctx context.Context, holderID string) ([]*Account, error)
	Save(ctx context.Context, a *Account) error
}
