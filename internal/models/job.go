package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type JobStatus string

const (
	JobCreated    JobStatus = "created"
	JobAccepted   JobStatus = "accepted"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobClosed     JobStatus = "closed"
)

// Valid reports whether s is one of the known job statuses.
func (s JobStatus) Valid() bool {
	switch s {
	case JobCreated, JobAccepted, JobInProgress, JobCompleted, JobClosed:
		return true
	}
	return false
}

type Job struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CustomerID   uint      `gorm:"not null;index" json:"customer_id"`
	ProviderID   uint      `gorm:"not null;index" json:"provider_id"`
	ServiceID    uint      `gorm:"not null;index" json:"service_id"`
	Status       JobStatus `gorm:"type:varchar(20);not null;default:'created'" json:"status"`
	ScheduledFor time.Time `gorm:"not null" json:"scheduled_for"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Customer   User            `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Provider   ProviderProfile `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
	Service    ProviderService `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Milestones []JobMilestone  `gorm:"foreignKey:JobID" json:"milestones,omitempty"`
}

func (Job) TableName() string {
	return "jobs"
}

type JobStatusLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	JobID     uint      `gorm:"not null;index" json:"job_id"`
	Status    JobStatus `gorm:"type:varchar(20);not null" json:"status"`
	Timestamp time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

func (JobStatusLog) TableName() string {
	return "job_status_logs"
}

type JobMilestone struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	JobID     uint            `gorm:"not null;index" json:"job_id"`
	Title     string          `gorm:"not null;size:255" json:"title"`
	Amount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Completed bool            `gorm:"not null;default:false" json:"completed"`
	Funded    bool            `gorm:"not null;default:false" json:"funded"`
	CreatedAt time.Time       `json:"created_at"`

	Job *Job `gorm:"foreignKey:JobID" json:"-"`
}

func (JobMilestone) TableName() string {
	return "job_milestones"
}

type Booking struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	JobID         uint      `gorm:"uniqueIndex;not null" json:"job_id"`
	Confirmed     bool      `gorm:"default:false" json:"confirmed"`
	PaymentStatus string    `gorm:"size:50;not null;default:'pending'" json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`

	Job Job `gorm:"foreignKey:JobID" json:"job"`
}

func (Booking) TableName() string {
	return "bookings"
}
