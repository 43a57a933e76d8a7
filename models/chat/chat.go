package chat

import (
	"time"
)

// Chat is the paired channel created alongside a booking. Message storage
// and polling live outside this core.
type Chat struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID    uint      `gorm:"not null;uniqueIndex" json:"booking_id"`
	CustomerID   uint      `gorm:"not null;index" json:"customer_id"`
	VendorUserID uint      `gorm:"not null;index" json:"vendor_user_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
