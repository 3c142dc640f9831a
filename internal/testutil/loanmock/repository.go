package loanmock

import (
	"context"

	domain "corebank/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies loan.Repository.
type Repo struct {
	CreateFn               func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn          func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn func(ctx context.Context, loanID string) (*domain.Loan, error)
	ListByHolderIDFn       func(ctx context.Context, holderID string) ([]*domain.Loan, error)
	ListByStatusesFn       func(ctx context.Context, statuses ...domain.Status) ([]*domain.Loan, error)
	SaveFn                 func(ctx context.Context, l *domain.Loan) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListByHolderID(ctx context.Context, holderID string) ([]*domain.Loan, error) {
	if m.ListByHolderIDFn != nil {
		return m.ListByHolderIDFn(ctx, holderID)
	}
	return nil, nil
}

func (m *Repo) ListByStatuses(ctx context.Context, statuses ...domain.Status) ([]*domain.Loan, error) {
	if m.ListByStatusesFn != nil {
		return m.ListByStatusesFn(ctx, statuses...)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}
