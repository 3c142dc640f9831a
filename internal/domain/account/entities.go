package account

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCurrencyMismatch  = errors.New("currency mismatch")
	ErrInvalidInput      = errors.New("invalid account input")
)

type Account struct {
	ID               uint64          `gorm:"primaryKey;column:id" json:"-"`
	AccountID        string          `gorm:"size:32;uniqueIndex:ux_accounts_account_id_active" json:"account_id"`
	HolderID         string          `gorm:"size:32;index:idx_accounts_holder" json:"holder_id"`
	Currency         string          `gorm:"size:3" json:"currency"`
	Balance          decimal.Decimal `gorm:"type:decimal(18,2)" json:"balance"`
	AvailableBalance decimal.Decimal `gorm:"type:decimal(18,2)" json:"available_balance"`
	OpenedAt         time.Time       `gorm:"autoCreateTime" json:"opened_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Account) TableName() string { return "accounts" }

// CanDebit reports whether amount can leave the account without the
// available balance going negative.
func (a *Account) CanDebit(amount decimal.Decimal) bool {
	return a.AvailableBalance.GreaterThanOrEqual(amount)
}

// Debit removes amount from both balances. Callers must hold the account
// row lock and have checked CanDebit first.
func (a *Account) Debit(amount decimal.Decimal) error {
	if !a.CanDebit(amount) {
		return ErrInsufficientFunds
	}
	a.Balance = a.Balance.Sub(amount)
	a.AvailableBalance = a.AvailableBalance.Sub(amount)
	return nil
}

// Credit adds amount to both balances.
func (a *Account) Credit(amount decimal.Decimal) {
	a.Balance = a.Balance.Add(amount)
	a.AvailableBalance = a.AvailableBalance.Add(amount)
}
