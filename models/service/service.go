package service

import (
	"time"
)

// Service is a catalog entry (e.g. "Plumbing", "AC Repair").
type Service struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// VendorService is a vendor's priced offering of a catalog service. Its
// BasePrice seeds the booking price computation.
type VendorService struct {
	ID              uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	VendorID        uint    `gorm:"not null;index" json:"vendor_id"`
	ServiceID       uint    `gorm:"not null;index" json:"service_id"`
	BasePrice       float64 `gorm:"not null" json:"base_price"`
	DurationMinutes int     `gorm:"default:60" json:"duration_minutes"`
	Description     string  `gorm:"type:text" json:"description,omitempty"`
	IsActive        bool    `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
