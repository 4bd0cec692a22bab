package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role may be chosen at registration.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleProvider
}

type User struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	Username           string         `gorm:"uniqueIndex;not null;size:150" json:"username"`
	Email              string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone              string         `gorm:"size:20" json:"phone"`
	Password           string         `gorm:"not null" json:"-"`
	Role               Role           `gorm:"type:varchar(10);not null" json:"role"`
	VerificationStatus bool           `gorm:"default:false" json:"verification_status"`
	IsStaff            bool           `gorm:"default:false" json:"is_staff"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate hook to set default role
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	return nil
}

func (u *User) IsProvider() bool {
	return u.Role == RoleProvider
}

func (u *User) IsCustomer() bool {
	return u.Role == RoleCustomer
}

// RevokedToken records refresh tokens invalidated by logout.
type RevokedToken struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	JTI       string    `gorm:"uniqueIndex;not null;size:64" json:"jti"`
	UserID    uint      `gorm:"index" json:"user_id"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (RevokedToken) TableName() string {
	return "revoked_tokens"
}
