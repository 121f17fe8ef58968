package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Role is the marketplace role a user acts under.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// ParseRole converts a raw string into a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("%q is not a role", s)
}

// User represents a user of the marketplace.
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Username  string         `json:"username" gorm:"uniqueIndex;type:varchar(100);not null" validate:"required,min=3,max=100"`
	Email     string         `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,email"`
	Password  string         `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash
	Role      Role           `json:"role" gorm:"type:varchar(20);not null;default:buyer"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Actor is the identity on whose behalf an operation runs.
type Actor struct {
	ID   uint `json:"id"`
	Role Role `json:"role"`
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
