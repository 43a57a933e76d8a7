package otp

import (
	"time"
)

// Purpose identifies what an OTP proves.
type Purpose string

const (
	PurposeRegistration  Purpose = "registration"
	PurposeLogin         Purpose = "login"
	PurposeBookingVerify Purpose = "booking_verify"
)

// OTP is a hashed one-time code bound to an email address. Issuing a new
// code marks every prior unused code for the same email as used, so at most
// one row per email is ever live.
type OTP struct {
	ID       uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Email    string  `gorm:"type:varchar(255);not null;index" json:"email"`
	OTPHash  string  `gorm:"type:varchar(255);not null" json:"-"`
	Purpose  Purpose `gorm:"type:varchar(50);not null" json:"purpose"`
	IsUsed   bool    `gorm:"default:false" json:"is_used"`
	Attempts int     `gorm:"default:0" json:"attempts"`

	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsExpired checks if the OTP has expired.
func (o *OTP) IsExpired() bool {
	return time.Now().After(o.ExpiresAt)
}

// IsValid checks if the OTP is usable (not used and not expired).
func (o *OTP) IsValid() bool {
	return !o.IsUsed && !o.IsExpired()
}
