package user

import (
	"time"
)

// Role is the actor kind used for transition authorization.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleVendor, RoleAdmin:
		return true
	default:
		return false
	}
}

// User is a marketplace account. Accounts are never hard-deleted; blocked
// and verified flags gate what they can do.
type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Email        string     `gorm:"type:varchar(255);not null;unique" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role       `gorm:"type:varchar(20);not null;default:customer" json:"role"`
	Phone        string     `gorm:"type:varchar(20)" json:"phone,omitempty"`
	PhotoURL     string     `gorm:"type:varchar(2048)" json:"photo_url,omitempty"`
	IsVerified   bool       `gorm:"default:false" json:"is_verified"`
	IsBlocked    bool       `gorm:"default:false" json:"is_blocked"`
	LastLogin    *time.Time `json:"last_login,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Public is the redacted projection returned by auth operations.
type Public struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	IsVerified bool   `json:"is_verified"`
}

func (u *User) Public() Public {
	return Public{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
	}
}
