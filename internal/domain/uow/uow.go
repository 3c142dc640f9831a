package uow

import (
	"context"

	"corebank/internal/domain/account"
	"corebank/internal/domain/billing"
	"corebank/internal/domain/loan"
	"corebank/internal/domain/transaction"
)

type Repos struct {
	Accounts     account.Repository
	Transactions transaction.Repository
	Loans        loan.Repository
	Billings     billing.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the entity row first, then pass it in. Account rows
	// are locked by the Transaction Engine inside WithinTx, so there is no
	// account-scoped variant.
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
	WithinBillingTx(ctx context.Context, billingID string, fn func(r Repos, b *billing.Billing) error) error
}
