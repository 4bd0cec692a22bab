// Package authz maps user roles to capabilities. It has no dependency on the
// HTTP layer; middleware and services both ask a Principal what it can do.
package authz

import "MimiPlatform/internal/models"

type Capability string

const (
	JobCreate       Capability = "job:create"
	JobListOwn      Capability = "job:list_own"
	MilestoneFund   Capability = "milestone:fund"
	MilestoneManage Capability = "milestone:manage"
	EscrowRelease   Capability = "escrow:release"
	EscrowRefund    Capability = "escrow:refund"
	BookingCreate   Capability = "booking:create"
	BookingConfirm  Capability = "booking:confirm"
	ServiceManage   Capability = "service:manage"
	ProfileManage   Capability = "profile:manage"
	CategoryManage  Capability = "category:manage"
	CustomerArea    Capability = "area:customer"
	ProviderArea    Capability = "area:provider"
)

var roleCapabilities = map[models.Role][]Capability{
	models.RoleCustomer: {
		JobCreate, JobListOwn, MilestoneFund, EscrowRelease, BookingCreate, CustomerArea,
	},
	models.RoleProvider: {
		MilestoneManage, EscrowRefund, BookingConfirm, ServiceManage, ProfileManage, ProviderArea,
	},
	models.RoleAdmin: {
		CategoryManage, EscrowRefund,
	},
}

var staffCapabilities = []Capability{CategoryManage, EscrowRefund}

// Principal is the authenticated caller of an operation.
type Principal struct {
	UserID  uint
	Role    models.Role
	IsStaff bool
}

// FromUser builds a Principal from a stored user.
func FromUser(u *models.User) Principal {
	return Principal{UserID: u.ID, Role: u.Role, IsStaff: u.IsStaff}
}

// Can reports whether the principal holds the capability.
func (p Principal) Can(c Capability) bool {
	if p.UserID == 0 {
		return false
	}
	for _, granted := range roleCapabilities[p.Role] {
		if granted == c {
			return true
		}
	}
	if p.IsStaff {
		for _, granted := range staffCapabilities {
			if granted == c {
				return true
			}
		}
	}
	return false
}

func (p Principal) IsProvider() bool {
	return p.UserID != 0 && p.Role == models.RoleProvider
}

func (p Principal) IsCustomer() bool {
	return p.UserID != 0 && p.Role == models.RoleCustomer
}
