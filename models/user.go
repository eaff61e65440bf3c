package models

import (
	"time"
)

// User roles
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User represents a staff member or administrator. The inventory core
// only references users for attribution on orders and ledger entries.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;not null;size:50" json:"username"`
	HashedPassword string    `gorm:"not null" json:"-"`
	FullName       *string   `gorm:"size:100" json:"full_name"`
	Role           string    `gorm:"not null;default:'staff';size:20" json:"role"` // "admin" or "staff"
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
