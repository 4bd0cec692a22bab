package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type EscrowStatus string

const (
	EscrowHeld     EscrowStatus = "held"
	EscrowReleased EscrowStatus = "released"
	EscrowRefunded EscrowStatus = "refunded"
)

// Escrow holds a customer's funds against one funded milestone.
// CustomerID and ProviderID are user ids.
type Escrow struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	JobID       uint            `gorm:"not null;index" json:"job_id"`
	MilestoneID uint            `gorm:"not null;index" json:"milestone_id"`
	CustomerID  uint            `gorm:"not null;index" json:"customer_id"`
	ProviderID  uint            `gorm:"not null;index" json:"provider_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status      EscrowStatus    `gorm:"type:varchar(20);not null;default:'held'" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	ReleasedAt  *time.Time      `json:"released_at,omitempty"`
	RefundedAt  *time.Time      `json:"refunded_at,omitempty"`

	Milestone JobMilestone `gorm:"foreignKey:MilestoneID" json:"milestone,omitempty"`
}

func (Escrow) TableName() string {
	return "escrows"
}
