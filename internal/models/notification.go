package models

import (
	"time"

	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationMilestoneFunded    NotificationType = "milestone_funded"
	NotificationMilestoneCompleted NotificationType = "milestone_completed"
	NotificationJobCompleted       NotificationType = "job_completed"
	NotificationEscrowReleased     NotificationType = "escrow_released"
	NotificationEscrowRefunded     NotificationType = "escrow_refunded"
	NotificationMessageReceived    NotificationType = "message_received"
	NotificationDepositSuccess     NotificationType = "deposit_success"
)

type Notification struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	UserID    uint             `json:"user_id" gorm:"not null;index"`
	Type      NotificationType `json:"type" gorm:"type:varchar(50);not null"`
	Title     string           `json:"title" gorm:"type:varchar(255);not null"`
	Message   string           `json:"message" gorm:"type:text;not null"`
	IsRead    bool             `json:"is_read" gorm:"default:false;index"`
	Data      string           `json:"data" gorm:"type:text"`
	CreatedAt time.Time        `json:"created_at"`
	ReadAt    *time.Time       `json:"read_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate hook
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	return nil
}
