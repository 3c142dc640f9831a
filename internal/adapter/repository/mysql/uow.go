package mysql

import (
	"context"

	"gorm.io/gorm"

	"corebank/internal/domain/billing"
	"corebank/internal/domain/loan"
	"corebank/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Accounts:     &AccountRepository{db: tx},
		Transactions: &TransactionRepository{db: tx},
		Loans:        &LoanRepository{db: tx},
		Billings:     &BillingRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(u.repos(tx))
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := u.repos(tx)
		// lock the loan row up-front to prevent races
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}

func (u *GormUoW) WithinBillingTx(ctx context.Context, billingID string, fn func(r uow.Repos, b *billing.Billing) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := u.repos(tx)
		b, err := r.Billings.GetByBillingIDForUpdate(ctx, billingID)
		if err != nil {
			return err
		}
		return fn(r, b)
	})
}
