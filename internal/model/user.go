package model

import "strings"

// Roles a User can hold.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// DeviceNeverLoggedIn is last_device before the first successful login.
const DeviceNeverLoggedIn = "No Login Yet"

// User represents an admin or superadmin account.
type User struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Email      string `json:"email" gorm:"uniqueIndex;size:100;not null"`
	Password   string `json:"-" gorm:"size:100;not null"` // bcrypt hash; never exposed in JSON
	Role       string `json:"role" gorm:"size:20;not null;index"`
	LastDevice string `json:"last_device" gorm:"size:255;not null;default:'No Login Yet'"`
}

// TableName keeps the table name of databases created by earlier deployments.
func (User) TableName() string {
	return "user"
}

// HasHashedPassword reports whether Password holds a bcrypt hash rather than
// a legacy plain-text value.
func (u *User) HasHashedPassword() bool {
	return strings.HasPrefix(u.Password, "$2a$") ||
		strings.HasPrefix(u.Password, "$2b$") ||
		strings.HasPrefix(u.Password, "$2y$")
}
