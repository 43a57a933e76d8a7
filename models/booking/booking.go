package booking

import (
	"time"
)

// Booking is a scheduled service engagement between a customer and a
// vendor-offered service. Rows are only mutated through the state machine;
// terminal states are immutable afterwards.
type Booking struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	CustomerID uint `gorm:"not null;index" json:"customer_id"`
	VendorID   uint `gorm:"not null;index" json:"vendor_id"`
	ServiceID  uint `gorm:"not null;index" json:"service_id"`
	AddressID  uint `gorm:"not null" json:"address_id"`

	Status        Status `gorm:"type:varchar(20);not null;default:requested;index" json:"status"`
	ScheduledDate string `gorm:"type:varchar(10);not null" json:"scheduled_date"`
	ScheduledTime string `gorm:"type:varchar(8);not null" json:"scheduled_time"`
	Notes         string `gorm:"type:text" json:"notes,omitempty"`

	EstimatedPrice    float64  `gorm:"not null" json:"estimated_price"`
	FinalPrice        *float64 `json:"final_price,omitempty"`
	PriceUpdateReason string   `gorm:"type:text" json:"price_update_reason,omitempty"`
	TravelFee         float64  `gorm:"default:0" json:"travel_fee"`
	Tax               float64  `gorm:"default:0" json:"tax"`

	JobOTPHash     string `gorm:"type:varchar(255);not null" json:"-"`
	JobOTPVerified bool   `gorm:"default:false" json:"job_otp_verified"`

	CancellationFee    float64 `gorm:"default:0" json:"cancellation_fee"`
	CancellationReason string  `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CancelledBy        *uint   `json:"cancelled_by,omitempty"`

	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// PayableAmount is the amount the payment ledger records on completion.
func (b *Booking) PayableAmount() float64 {
	if b.FinalPrice != nil {
		return *b.FinalPrice
	}
	return b.EstimatedPrice
}
