package uowmock

import (
	"context"
	"errors"

	"corebank/internal/domain/billing"
	"corebank/internal/domain/loan"
	"corebank/internal/domain/uow"
)

var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn        func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLoanTxFn    func(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error
	WithinBillingTxFn func(ctx context.Context, billingID string, fn func(r uow.Repos, b *billing.Billing) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough runs every transaction body directly against the given repos
// with no transactional boundary. The entity-scoped variants resolve the
// row through the repos' ForUpdate getters, same as the real implementation.
func Passthrough(r uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(uow.Repos) error) error {
			return fn(r)
		},
		WithinLoanTxFn: func(ctx context.Context, loanID string, fn func(uow.Repos, *loan.Loan) error) error {
			l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
			if err != nil {
				return err
			}
			return fn(r, l)
		},
		WithinBillingTxFn: func(ctx context.Context, billingID string, fn func(uow.Repos, *billing.Billing) error) error {
			b, err := r.Billings.GetByBillingIDForUpdate(ctx, billingID)
			if err != nil {
				return err
			}
			return fn(r, b)
		},
	}
}

func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	if m.WithinLoanTxFn != nil {
		return m.WithinLoanTxFn(ctx, loanID, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinBillingTx(ctx context.Context, billingID string, fn func(r uow.Repos, b *billing.Billing) error) error {
	if m.WithinBillingTxFn != nil {
		return m.WithinBillingTxFn(ctx, billingID, fn)
	}
	return errUnimplemented
}
