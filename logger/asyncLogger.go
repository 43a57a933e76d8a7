package logger

import (
	"log"
	"time"

	auditModel "localserve/models/audit"

	"gorm.io/gorm"
)

// AuditEntry describes a security-relevant event. Secrets (passwords, raw
// OTP codes, tokens) must never be placed in Detail.
type AuditEntry struct {
	UserID    *uint
	Email     string
	Event     string
	Detail    string
	CreatedAt time.Time
}

// AsyncLogger persists audit entries from a buffered channel so request
// handlers never block on the audit write path.
type AsyncLogger struct {
	db      *gorm.DB
	channel chan AuditEntry
}

func NewAsyncLogger(db *gorm.DB) *AsyncLogger {
	return &AsyncLogger{
		db:      db,
		channel: make(chan AuditEntry, 100),
	}
}

func (logger *AsyncLogger) ProcessLog() {
	log.Println("Starting asynchronous audit logger...")

	for entry := range logger.channel {
		row := auditModel.AuditLog{
			UserID:    entry.UserID,
			Email:     entry.Email,
			Event:     entry.Event,
			Detail:    entry.Detail,
			CreatedAt: entry.CreatedAt,
		}
		if row.CreatedAt.IsZero() {
			row.CreatedAt = time.Now()
		}

		if err := logger.db.Create(&row).Error; err != nil {
			log.Printf("Failed to insert audit entry: %v", err)
		}
	}
}

// Log pushes an audit entry into the channel. Drops the entry rather than
// blocking when the buffer is full.
func (logger *AsyncLogger) Log(entry AuditEntry) {
	select {
	case logger.channel <- entry:
	default:
		log.Printf("Audit buffer full, dropping event %s", entry.Event)
	}
}

// Event is a convenience wrapper for the common case.
func (logger *AsyncLogger) Event(userID *uint, email, event, detail string) {
	logger.Log(AuditEntry{UserID: userID, Email: email, Event: event, Detail: detail, CreatedAt: time.Now()})
}
