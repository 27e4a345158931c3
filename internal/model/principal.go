package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleAdmin   UserRole = "ADMIN"
	UserRoleManager UserRole = "MANAGER"
	UserRoleAgent   UserRole = "AGENT"
)

type Principal struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Role     UserRole
}

func (p Principal) IsAdmin() bool {
	return p.Role == UserRoleAdmin
}

func (p Principal) IsManager() bool {
	return p.Role == UserRoleManager
}

// CanManageRates reports whether the principal may edit the rate catalog.
func (p Principal) CanManageRates() bool {
	return p.IsAdmin() || p.IsManager()
}
