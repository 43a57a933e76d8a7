package database

import (
	"fmt"
	"os"

	"localserve/logger"
	addressModel "localserve/models/address"
	auditModel "localserve/models/audit"
	bookingModel "localserve/models/booking"
	chatModel "localserve/models/chat"
	notificationModel "localserve/models/notification"
	otpModel "localserve/models/otp"
	paymentModel "localserve/models/payment"
	ratingModel "localserve/models/rating"
	serviceModel "localserve/models/service"
	sessionModel "localserve/models/session"
	userModel "localserve/models/user"
	vendorModel "localserve/models/vendor"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection with auto migration and
// indexing.
func InitDB() (*gorm.DB, error) {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	user := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE")

	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := AutoMigrate(DB); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

// AutoMigrate runs auto migration for all models, foundation tables first.
func AutoMigrate(db *gorm.DB) error {
	// Stage 1: core foundation models
	stage1Models := []interface{}{
		&userModel.User{},
		&vendorModel.VendorProfile{},
		&serviceModel.Service{},
		&serviceModel.VendorService{},
		&addressModel.Address{},
	}

	for _, model := range stage1Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: models with dependencies on stage 1
	stage2Models := []interface{}{
		&bookingModel.Booking{},
		&bookingModel.StatusHistory{},
		&chatModel.Chat{},
		&ratingModel.Rating{},
		&paymentModel.Payment{},
	}

	for _, model := range stage2Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 3: auth and ambient models
	remainingModels := []interface{}{
		&otpModel.OTP{},
		&otpModel.Throttle{},
		&sessionModel.Session{},
		&notificationModel.Notification{},
		&auditModel.AuditLog{},
	}

	for _, model := range remainingModels {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance.
func createIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_otps_email_used ON otps(email, is_used)",
		"CREATE INDEX IF NOT EXISTS idx_sessions_user_expiry ON sessions(user_id, expires_at)",
		"CREATE INDEX IF NOT EXISTS idx_bookings_customer_status ON bookings(customer_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_bookings_vendor_status ON bookings(vendor_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_ratings_publish_due ON ratings(is_published, publish_at)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_user_read ON notifications(user_id, is_read)",
	}

	for _, idx := range indexes {
		if err := DB.Exec(idx).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// GetDB returns the database instance.
func GetDB() *gorm.DB {
	return DB
}
