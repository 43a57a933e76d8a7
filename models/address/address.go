package address

import (
	"time"
)

// Address is a customer service address a booking is scheduled at.
type Address struct {
	ID      uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID  uint    `gorm:"not null;index" json:"user_id"`
	Label   string  `gorm:"type:varchar(50)" json:"label,omitempty"`
	Line1   string  `gorm:"type:varchar(255);not null" json:"line1"`
	Line2   string  `gorm:"type:varchar(255)" json:"line2,omitempty"`
	City    string  `gorm:"type:varchar(100)" json:"city,omitempty"`
	State   string  `gorm:"type:varchar(100)" json:"state,omitempty"`
	Pincode string  `gorm:"type:varchar(20)" json:"pincode,omitempty"`
	Lat     float64 `json:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty"`

	// At most one default per user, maintained by the profile service.
	IsDefault bool `gorm:"default:false" json:"is_default"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
