package notification

import (
	"encoding/json"

	"localserve/logger"
	notificationModel "localserve/models/notification"

	"gorm.io/gorm"
)

// Dispatcher inserts user-facing alerts. Delivery is fire-and-forget from
// the core's perspective: failures are logged and never propagated, so a
// committed booking transition can never be rolled back by a bad insert.
type Dispatcher struct {
	DB *gorm.DB
}

func NewDispatcher(db *gorm.DB) *Dispatcher {
	return &Dispatcher{DB: db}
}

// Dispatch writes one notification row. data is marshalled to JSON.
func (d *Dispatcher) Dispatch(userID uint, ntype, title, body string, data map[string]interface{}) {
	payload := ""
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			payload = string(b)
		}
	}

	row := notificationModel.Notification{
		UserID: userID,
		Type:   ntype,
		Title:  title,
		Body:   body,
		Data:   payload,
	}

	if err := d.DB.Create(&row).Error; err != nil {
		logger.Error("Failed to create notification", err)
	}
}
