package notification

import (
	"time"
)

// Notification is a user-facing alert row. Delivery transport is out of
// scope; the dispatcher only inserts.
type Notification struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Type   string `gorm:"type:varchar(50);not null" json:"type"`
	Title  string `gorm:"type:varchar(255);not null" json:"title"`
	Body   string `gorm:"type:text" json:"body"`
	Data   string `gorm:"type:text" json:"data,omitempty"`
	IsRead bool   `gorm:"default:false;index" json:"is_read"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
