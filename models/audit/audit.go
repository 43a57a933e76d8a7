package audit

import (
	"time"
)

// AuditLog records security-relevant events (login, OTP issuance and
// verification, token refresh, logout). Never contains secret material.
type AuditLog struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID *uint  `gorm:"index" json:"user_id,omitempty"`
	Email  string `gorm:"type:varchar(255);index" json:"email,omitempty"`
	Event  string `gorm:"type:varchar(50);not null" json:"event"`
	Detail string `gorm:"type:text" json:"detail,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
