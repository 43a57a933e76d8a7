package rating

import (
	"time"
)

// Rating is a customer's score for a completed booking. One per booking;
// it is held back until PublishAt elapses and a sweep flips IsPublished.
type Rating struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID  uint   `gorm:"not null;uniqueIndex" json:"booking_id"`
	CustomerID uint   `gorm:"not null;index" json:"customer_id"`
	VendorID   uint   `gorm:"not null;index" json:"vendor_id"`
	Score      int    `gorm:"not null" json:"score"`
	Review     string `gorm:"type:text" json:"review,omitempty"`

	IsPublished bool      `gorm:"default:false;index" json:"is_published"`
	PublishAt   time.Time `gorm:"not null" json:"publish_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
