package payment

import (
	"time"
)

// Payment is an opaque ledger row. Capture mechanics are out of scope; the
// core only appends rows.
type Payment struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID      uint       `gorm:"not null;index" json:"booking_id"`
	CustomerID     uint       `gorm:"not null;index" json:"customer_id"`
	VendorID       uint       `gorm:"not null;index" json:"vendor_id"`
	Amount         float64    `gorm:"not null" json:"amount"`
	Method         string     `gorm:"type:varchar(20);not null;default:cash" json:"method"`
	Status         string     `gorm:"type:varchar(20);not null;default:pending" json:"status"`
	TransactionRef string     `gorm:"type:varchar(64);not null" json:"transaction_ref"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
