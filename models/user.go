package models

import "time"

// Role values stored in users.role
const (
	RoleAdmin    = "Admin"
	RoleManager  = "Manager"
	RoleStaff    = "Staff"
	RoleCustomer = "Customer"
)

// Roles lists every valid role
var Roles = []string{RoleAdmin, RoleManager, RoleStaff, RoleCustomer}

// StaffRoles are the roles that can be assigned complaints
var StaffRoles = []string{RoleStaff, RoleManager, RoleAdmin}

// User represents a registered account, keyed by the identity provider's subject
type User struct {
	UserID    string    `gorm:"primaryKey;size:128" json:"user_id"` // identity provider 'sub' claim
	FullName  string    `gorm:"not null" json:"full_name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"not null;default:'Customer';index" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsValidRole reports whether role is one of the known roles
func IsValidRole(role string) bool {
	return contains(Roles, role)
}

// IsStaffRole reports whether role can be assigned complaints
func IsStaffRole(role string) bool {
	return contains(StaffRoles, role)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
