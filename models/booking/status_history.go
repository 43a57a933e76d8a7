package booking

import (
	"time"
)

// StatusHistory is the append-only transition log. Rows are never edited or
// deleted; one row is written per transition including the creation event.
type StatusHistory struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	BookingID uint   `gorm:"not null;index" json:"booking_id"`
	Status    Status `gorm:"type:varchar(20);not null" json:"status"`
	ChangedBy uint   `gorm:"not null" json:"changed_by"`
	Meta      string `gorm:"type:text" json:"meta,omitempty"`

	ChangedAt time.Time `gorm:"autoCreateTime" json:"changed_at"`
}

// TableName sets the table name for the StatusHistory model.
func (StatusHistory) TableName() string {
	return "booking_status_history"
}
