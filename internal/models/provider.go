package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProviderProfile struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	UserID         uint            `gorm:"uniqueIndex;not null" json:"-"`
	Slug           string          `gorm:"uniqueIndex;not null;size:160" json:"slug"`
	Bio            string          `gorm:"type:text" json:"bio"`
	Location       string          `gorm:"size:255" json:"location"`
	Rating         decimal.Decimal `gorm:"type:decimal(3,2);not null;default:0" json:"rating"`
	Avatar         string          `gorm:"type:text" json:"avatar,omitempty"`
	AvatarPublicID string          `gorm:"type:text" json:"-"`
	CreatedAt      time.Time       `json:"created_at"`

	User     User              `gorm:"foreignKey:UserID" json:"user"`
	Services []ProviderService `gorm:"foreignKey:ProviderID" json:"services,omitempty"`
}

func (ProviderProfile) TableName() string {
	return "provider_profiles"
}

type ServiceCategory struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (ServiceCategory) TableName() string {
	return "service_categories"
}

type ProviderService struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	ProviderID  uint            `gorm:"not null;uniqueIndex:idx_provider_category_title" json:"provider"`
	CategoryID  uint            `gorm:"not null;uniqueIndex:idx_provider_category_title" json:"-"`
	Title       string          `gorm:"not null;size:100;uniqueIndex:idx_provider_category_title" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt   time.Time       `json:"created_at"`

	Category ServiceCategory `gorm:"foreignKey:CategoryID" json:"category"`
}

func (ProviderService) TableName() string {
	return "provider_services"
}
