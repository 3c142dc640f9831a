package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	domain "corebank/internal/domain/transaction"
)

type DepositInput struct {
	ToAccountID string          `json:"to_account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Channel     string          `json:"channel"`
	Description string          `json:"description"`
}

type WithdrawalInput struct {
	FromAccountID string          `json:"from_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Channel       string          `json:"channel"`
	Description   string          `json:"description"`
}

type TransferInput struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Channel       string          `json:"channel"`
	Description   string          `json:"description"`
}

type TransactionDTO struct {
	TransactionID string          `json:"transaction_id"`
	Reference     string          `json:"reference"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	FromAccountID *string         `json:"from_account_id,omitempty"`
	ToAccountID   *string         `json:"to_account_id,omitempty"`
	Channel       string          `json:"channel"`
	FailureReason string          `json:"failure_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	ProcessedAt   *time.Time      `json:"processed_at,omitempty"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
}

func toDTO(t *domain.Transaction) *TransactionDTO {
	return &TransactionDTO{
		TransactionID: t.TransactionID,
		Reference:     t.Reference,
		Type:          string(t.Type),
		Status:        string(t.Status),
		Amount:        t.Amount,
		Currency:      t.Currency,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Channel:       t.Channel,
		FailureReason: t.FailureReason,
		CreatedAt:     t.CreatedAt,
		ProcessedAt:   t.ProcessedAt,
		CompletedAt:   t.CompletedAt,
	}
}
