package transaction

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("transaction not found")
	ErrInvalidTransition = errors.New("transaction is not pending")
	ErrInvalidAmount     = errors.New("amount must be positive")
)

type Type string

const (
	TypeDeposit    Type = "DEPOSIT"
	TypeWithdrawal Type = "WITHDRAWAL"
	TypeTransfer   Type = "TRANSFER"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
	StatusCancelled  Status = "CANCELLED"
)

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

type Transaction struct {
	ID            uint64          `gorm:"primaryKey;column:id" json:"-"`
	TransactionID string          `gorm:"size:32;uniqueIndex:ux_transactions_txn_id_active" json:"transaction_id"`
	Reference     string          `gorm:"size:36;uniqueIndex:ux_transactions_reference" json:"reference"`
	Type          Type            `gorm:"type:enum('DEPOSIT','WITHDRAWAL','TRANSFER')" json:"type"`
	Status        Status          `gorm:"type:enum('PENDING','PROCESSING','COMPLETED','FAILED','CANCELLED');default:'PENDING'" json:"status"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	Currency      string          `gorm:"size:3" json:"currency"`
	FromAccountID *string         `gorm:"size:32;index:idx_transactions_from" json:"from_account_id,omitempty"`
	ToAccountID   *string         `gorm:"size:32;index:idx_transactions_to" json:"to_account_id,omitempty"`
	Channel       string          `gorm:"size:32" json:"channel"`
	Description   string          `gorm:"type:text" json:"description"`
	FailureReason string          `gorm:"type:text" json:"failure_reason,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	ProcessedAt   *time.Time      `json:"processed_at,omitempty"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Transaction) TableName() string { return "transactions" }

// Touches reports whether the transaction debits or credits accountID.
func (t *Transaction) Touches(accountID string) bool {
	if t.FromAccountID != nil && *t.FromAccountID == accountID {
		return true
	}
	return t.ToAccountID != nil && *t.ToAccountID == accountID
}
