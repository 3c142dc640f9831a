package transaction

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	GetByTransactionID(ctx context.Context, transactionID string) (*Transaction, error)
	GetByTransactionIDForUpdate(ctx context.Context, transactionID string) (*Transaction, error)
	// ListByAccountIDs returns every transaction that debits or credits one
	// of the given accounts, newest first.
	ListByAccountIDs(ctx context.Context, accountIDs []string) ([]*Transaction, error)
	// ListCompletedByAccountIDsSince narrows ListByAccountIDs to COMPLETED
	// transactions created at or after since.
	ListCompletedByAccountIDsSince(ctx context.Context, accountIDs []string, since time.Time) ([]*Transaction, error)
	Save(ctx context.Context, t *Transaction) error
}
