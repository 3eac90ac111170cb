package model

import (
	"strings"
	"time"
)

// Role determines which order operations a user may perform.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleSalesRep  Role = "SALES_REP"
	RoleWarehouse Role = "WAREHOUSE"
)

// User represents an account that owns orders and drives transitions.
type User struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Username  string    `json:"username" gorm:"type:varchar(150);uniqueIndex;not null"`
	FirstName string    `json:"first_name" gorm:"type:varchar(150)"`
	LastName  string    `json:"last_name" gorm:"type:varchar(150)"`
	Email     string    `json:"email" gorm:"type:varchar(255)"`
	Role      Role      `json:"role" gorm:"type:varchar(20);not null;default:'SALES_REP'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName returns the full name, falling back to the username.
func (u *User) DisplayName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full == "" {
		return u.Username
	}
	return full
}

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	UserID   uint
	Username string
	Role     Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
