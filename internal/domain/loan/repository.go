package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	ListByHolderID(ctx context.Context, holderID string) ([]*Loan, error)
	ListByStatuses(ctx context.Context, statuses ...Status) ([]*Loan, error)
	Save(ctx context.Context, l *Loan) error
}
