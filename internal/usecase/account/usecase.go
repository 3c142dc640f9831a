package account

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	domain "corebank/internal/domain/account"
	"corebank/pkg/id"
)

type Usecase struct{ repo domain.Repository }

func NewUsecase(r domain.Repository) *Usecase { return &Usecase{repo: r} }

type OpenAccountInput struct {
	HolderID       string          `json:"holder_id"`
	Currency       string          `json:"currency"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

type AccountDTO struct {
	AccountID        string          `json:"account_id"`
	HolderID         string          `json:"holder_id"`
	Currency         string          `json:"currency"`
	Balance          decimal.Decimal `json:"balance"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	OpenedAt         time.Time       `json:"opened_at"`
}

func toDTO(a *domain.Account) *AccountDTO {
	return &AccountDTO{
		AccountID:        a.AccountID,
		HolderID:         a.HolderID,
		Currency:         a.Currency,
		Balance:          a.Balance,
		AvailableBalance: a.AvailableBalance,
		OpenedAt:         a.OpenedAt,
	}
}

func (u *Usecase) Open(ctx context.Context, in OpenAccountInput) (*AccountDTO, error) {
	if len(in.HolderID) != 32 || len(in.Currency) != 3 {
		return nil, fmt.Errorf("%w: holder id and currency are required", domain.ErrInvalidInput)
	}
	if in.OpeningBalance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance must not be negative", domain.ErrInvalidInput)
	}
	a := &domain.Account{
		AccountID:        id.NewID32(),
		HolderID:         in.HolderID,
		Currency:         in.Currency,
		Balance:          in.OpeningBalance.Round(2),
		AvailableBalance: in.OpeningBalance.Round(2),
	}
	if err := u.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return toDTO(a), nil
}

func (u *Usecase) Get(ctx context.Context, accountID string) (*AccountDTO, error) {
	a, err := u.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return toDTO(a), nil
}

func (u *Usecase) ListByHolder(ctx context.Context, holderID string) ([]*AccountDTO, error) {
	as, err := u.repo.ListByHolderID(ctx, holderID)
	if err != nil {
		return nil, err
	}
	out := make([]*AccountDTO, 0, len(as))
	for _, a := range as {
		out = append(out, toDTO(a))
	}
	return out, nil
}
