package session

import (
	"time"
)

// Session binds a hashed refresh credential to a user. A user may hold
// several concurrent sessions (multi-device); logout deletes them all.
type Session struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID           uint      `gorm:"not null;index" json:"user_id"`
	RefreshTokenHash string    `gorm:"type:varchar(255);not null" json:"-"`
	ExpiresAt        time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// IsExpired checks whether the session row itself has lapsed, independent
// of the embedded token expiry claim.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
