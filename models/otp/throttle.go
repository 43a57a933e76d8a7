package otp

import (
	"time"
)

// ThrottleWindowDuration is the fixed (non-sliding) send window length.
const ThrottleWindowDuration = time.Hour

// MaxSendsPerWindow is the send allowance inside one window.
const MaxSendsPerWindow = 3

// Throttle is the single active send window for an email. The unique index
// on Email keeps two windows from ever coexisting; an aged-out window is
// reset in place rather than inserted beside.
type Throttle struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email       string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	SendCount   int       `gorm:"not null;default:0" json:"send_count"`
	WindowStart time.Time `gorm:"not null" json:"window_start"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// WindowExpired reports whether the window has aged out of the lookback.
func (t *Throttle) WindowExpired() bool {
	return time.Now().After(t.WindowStart.Add(ThrottleWindowDuration))
}
