package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Wallet struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	UserID    uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Wallet) TableName() string {
	return "wallets"
}

type TransactionType string
type TransactionStatus string

const (
	TransactionDeposit TransactionType = "deposit"
	TransactionDebit   TransactionType = "debit"
	TransactionCredit  TransactionType = "credit"
	TransactionRefund  TransactionType = "refund"
)

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction is an append-only ledger entry against a wallet.
type Transaction struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	WalletID    uint              `gorm:"not null;index" json:"wallet_id"`
	EscrowID    *uint             `gorm:"index" json:"escrow_id,omitempty"`
	Type        TransactionType   `gorm:"type:varchar(20);not null" json:"type"`
	Status      TransactionStatus `gorm:"type:varchar(20);not null;default:'completed'" json:"status"`
	Amount      decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Reference   string            `gorm:"uniqueIndex;not null;size:64" json:"reference"`
	Description string            `gorm:"type:text" json:"description"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
