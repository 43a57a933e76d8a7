package otp

import (
	"errors"
	"fmt"
	"time"

	"localserve/apperr"
	"localserve/logger"
	otpModel "localserve/models/otp"
	"localserve/utils"

	"gorm.io/gorm"
)

// Mailer delivers one-time codes. A delivery failure is fatal to the
// issuance call that requested it.
type Mailer interface {
	SendOTPEmail(to, code string, purpose otpModel.Purpose) error
}

// Service handles OTP issuance, throttling and verification.
type Service struct {
	DB     *gorm.DB
	Mailer Mailer
	Audit  *logger.AsyncLogger
}

// NewService creates a new OTP service.
func NewService(db *gorm.DB, mailer Mailer, audit *logger.AsyncLogger) *Service {
	return &Service{DB: db, Mailer: mailer, Audit: audit}
}

// Issue generates a 6-digit code for the email, invalidates every prior
// unused code, persists only the hash and hands the plaintext to the mail
// collaborator. The throttle is enforced before anything is written.
func (s *Service) Issue(email string, purpose otpModel.Purpose) (*otpModel.OTP, error) {
	if err := s.checkThrottle(email); err != nil {
		s.audit(nil, email, "otp_throttled", string(purpose))
		return nil, err
	}

	code, err := utils.GenerateNumericCode(6)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	codeHash, err := utils.HashCode(code)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	// Invalidate any prior unused codes for this email so at most one row
	// is ever live.
	err = s.DB.Model(&otpModel.OTP{}).
		Where("email = ? AND is_used = false", email).
		Update("is_used", true).Error
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to invalidate existing OTPs: %w", err))
	}

	record := &otpModel.OTP{
		Email:     email,
		OTPHash:   codeHash,
		Purpose:   purpose,
		IsUsed:    false,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}

	if err := s.DB.Create(record).Error; err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to create OTP record: %w", err))
	}

	if err := s.Mailer.SendOTPEmail(email, code, purpose); err != nil {
		logger.Error("Failed to send OTP email to "+email, err)
		return nil, apperr.External("Failed to deliver OTP email", err)
	}

	s.audit(nil, email, "otp_issued", string(purpose))
	logger.Infof("OTP created for %s, purpose: %s", email, purpose)
	return record, nil
}

// Verify checks a submitted code against the newest unused, unexpired
// record for the email. A mismatch increments the attempt counter; a match
// marks the record used with an at-most-once conditional update.
func (s *Service) Verify(email, code string) error {
	var record otpModel.OTP

	err := s.DB.Where("email = ? AND is_used = false AND expires_at > ?", email, time.Now()).
		Order("created_at DESC").
		First(&record).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New("OTP_INVALID", "OTP is invalid or expired.", 400)
		}
		return apperr.Internal(fmt.Errorf("failed to find OTP record: %w", err))
	}

	if !utils.CheckCode(code, record.OTPHash) {
		if err := s.DB.Model(&record).UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error; err != nil {
			return apperr.Internal(fmt.Errorf("failed to update attempt counter: %w", err))
		}
		s.audit(nil, email, "otp_failed", string(record.Purpose))
		return apperr.New("OTP_INVALID", "Incorrect OTP.", 400)
	}

	// Gate on is_used so two concurrent verifications cannot both win.
	res := s.DB.Model(&otpModel.OTP{}).
		Where("id = ? AND is_used = false", record.ID).
		Update("is_used", true)
	if res.Error != nil {
		return apperr.Internal(fmt.Errorf("failed to mark OTP as used: %w", res.Error))
	}
	if res.RowsAffected == 0 {
		return apperr.New("OTP_INVALID", "OTP is invalid or expired.", 400)
	}

	s.audit(nil, email, "otp_verified", string(record.Purpose))
	return nil
}

// checkThrottle enforces the fixed one-hour window: 3 sends from the first
// send of the window, single active window per email.
func (s *Service) checkThrottle(email string) error {
	var window otpModel.Throttle

	err := s.DB.Where("email = ?", email).First(&window).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			window = otpModel.Throttle{Email: email, SendCount: 1, WindowStart: time.Now()}
			if err := s.DB.Create(&window).Error; err != nil {
				return apperr.Internal(fmt.Errorf("failed to create throttle window: %w", err))
			}
			return nil
		}
		return apperr.Internal(fmt.Errorf("failed to load throttle window: %w", err))
	}

	if window.WindowExpired() {
		// Reset in place; the unique email index keeps a second window from
		// ever coexisting with this one.
		err := s.DB.Model(&window).Updates(map[string]interface{}{
			"send_count":   1,
			"window_start": time.Now(),
		}).Error
		if err != nil {
			return apperr.Internal(fmt.Errorf("failed to reset throttle window: %w", err))
		}
		return nil
	}

	if window.SendCount >= otpModel.MaxSendsPerWindow {
		return apperr.RateLimited("Too many OTP requests. Please try again later.")
	}

	if err := s.DB.Model(&window).UpdateColumn("send_count", gorm.Expr("send_count + 1")).Error; err != nil {
		return apperr.Internal(fmt.Errorf("failed to increment throttle window: %w", err))
	}
	return nil
}

func (s *Service) audit(userID *uint, email, event, detail string) {
	if s.Audit != nil {
		s.Audit.Event(userID, email, event, detail)
	}
}
