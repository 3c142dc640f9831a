package billing

import (
	"time"

	"github.com/shopspring/decimal"

	domain "corebank/internal/domain/billing"
)

type CreateBillInput struct {
	HolderID          string            `json:"holder_id"`
	PayerAccountID    string            `json:"payer_account_id"`
	Type              domain.Type       `json:"type"`
	Description       string            `json:"description"`
	Amount            decimal.Decimal   `json:"amount"`
	TaxAmount         decimal.Decimal   `json:"tax_amount"`
	DiscountAmount    decimal.Decimal   `json:"discount_amount"`
	Frequency         *domain.Frequency `json:"frequency,omitempty"`
	DueDate           time.Time         `json:"due_date"`
	SubscriptionStart *time.Time        `json:"subscription_start,omitempty"`
	SubscriptionEnd   *time.Time        `json:"subscription_end,omitempty"`
}

type BillingDTO struct {
	BillingID       string          `json:"billing_id"`
	Reference       string          `json:"reference"`
	HolderID        string          `json:"holder_id"`
	PayerAccountID  string          `json:"payer_account_id"`
	Type            string          `json:"type"`
	Status          string          `json:"status"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	Frequency       string          `json:"frequency,omitempty"`
	DueDate         time.Time       `json:"due_date"`
	NextBillingDate *time.Time      `json:"next_billing_date,omitempty"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

func toDTO(b *domain.Billing) *BillingDTO {
	dto := &BillingDTO{
		BillingID:       b.BillingID,
		Reference:       b.Reference,
		HolderID:        b.HolderID,
		PayerAccountID:  b.PayerAccountID,
		Type:            string(b.Type),
		Status:          string(b.Status),
		Description:     b.Description,
		Amount:          b.Amount,
		TaxAmount:       b.TaxAmount,
		DiscountAmount:  b.DiscountAmount,
		TotalAmount:     b.TotalAmount,
		PaidAmount:      b.PaidAmount,
		DueDate:         b.DueDate,
		NextBillingDate: b.NextBillingDate,
		PaidAt:          b.PaidAt,
		CreatedAt:       b.CreatedAt,
	}
	if b.Frequency != nil {
		dto.Frequency = string(*b.Frequency)
	}
	return dto
}
