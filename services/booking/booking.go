package booking

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"localserve/apperr"
	"localserve/config"
	"localserve/logger"
	bookingModel "localserve/models/booking"
	chatModel "localserve/models/chat"
	paymentModel "localserve/models/payment"
	serviceModel "localserve/models/service"
	userModel "localserve/models/user"
	vendorModel "localserve/models/vendor"
	"localserve/services/notification"
	"localserve/utils"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// TaxRate is applied on top of base price plus travel fee.
const TaxRate = 0.05

// Actor is the authenticated identity attempting an operation.
type Actor struct {
	UserID uint
	Role   userModel.Role
}

// Mailer is the best-effort booking-update mail collaborator.
type Mailer interface {
	SendBookingEmail(to string, bookingID uint, status string) error
}

// Service runs the booking lifecycle state machine.
type Service struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Notifier *notification.Dispatcher
	Mailer   Mailer
}

func NewService(db *gorm.DB, cfg *config.Config, notifier *notification.Dispatcher, mailer Mailer) *Service {
	return &Service{DB: db, Cfg: cfg, Notifier: notifier, Mailer: mailer}
}

// CreateInput is the validated creation payload.
type CreateInput struct {
	VendorID      uint
	ServiceID     uint
	AddressID     uint
	ScheduledDate string
	ScheduledTime string
	Notes         string
}

// CreateResult carries the new booking plus the plaintext job OTP, which
// only the customer-facing response may include.
type CreateResult struct {
	Booking bookingModel.Booking `json:"booking"`
	JobOTP  string               `json:"job_otp"`
}

// Create books a service for a customer: validates the schedule, prices the
// job, stores only the job-OTP hash, and writes the booking, its initial
// history row and the paired chat channel in one transaction.
func (s *Service) Create(actor Actor, in CreateInput) (*CreateResult, error) {
	scheduledAt, err := now.Parse(in.ScheduledDate + " " + in.ScheduledTime)
	if err != nil {
		return nil, apperr.New("INVALID_DATE", "Invalid scheduled date or time.", 400)
	}
	if scheduledAt.Before(time.Now()) {
		return nil, apperr.New("INVALID_DATE", "Cannot book in the past.", 400)
	}

	var vendorService serviceModel.VendorService
	if err := s.DB.First(&vendorService, in.ServiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Service not found.")
		}
		return nil, apperr.Internal(err)
	}

	var vendor vendorModel.VendorProfile
	if err := s.DB.First(&vendor, in.VendorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Vendor not found.")
		}
		return nil, apperr.Internal(err)
	}

	basePrice := vendorService.BasePrice
	travelFee := 0.0 // placeholder for future distance pricing
	tax := math.Round((basePrice+travelFee)*TaxRate*100) / 100

	jobOTP, err := utils.GenerateNumericCode(4)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	jobOTPHash, err := utils.HashCode(jobOTP)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	booking := bookingModel.Booking{
		CustomerID:     actor.UserID,
		VendorID:       in.VendorID,
		ServiceID:      in.ServiceID,
		AddressID:      in.AddressID,
		Status:         bookingModel.StatusRequested,
		ScheduledDate:  in.ScheduledDate,
		ScheduledTime:  in.ScheduledTime,
		Notes:          in.Notes,
		EstimatedPrice: basePrice + travelFee + tax,
		TravelFee:      travelFee,
		Tax:            tax,
		JobOTPHash:     jobOTPHash,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		history := bookingModel.StatusHistory{
			BookingID: booking.ID,
			Status:    bookingModel.StatusRequested,
			ChangedBy: actor.UserID,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		chat := chatModel.Chat{
			BookingID:    booking.ID,
			CustomerID:   actor.UserID,
			VendorUserID: vendor.UserID,
		}
		return tx.Create(&chat).Error
	})
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to create booking: %w", err))
	}

	s.Notifier.Dispatch(vendor.UserID, "booking_update", "New Booking Request",
		fmt.Sprintf("You have a new booking request for %s at %s", in.ScheduledDate, in.ScheduledTime),
		map[string]interface{}{"booking_id": booking.ID})

	logger.Infof("Booking created: %d", booking.ID)
	return &CreateResult{Booking: booking, JobOTP: jobOTP}, nil
}

// UpdateStatus drives one edge of the state machine. The transition and its
// history row commit atomically; notification and email afterwards are
// best-effort and never roll it back.
func (s *Service) UpdateStatus(actor Actor, bookingID uint, target bookingModel.Status, reason string) (*bookingModel.Booking, error) {
	if !target.IsValid() {
		return nil, apperr.Validation("Unknown booking status.")
	}

	var booking bookingModel.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Booking not found")
		}
		return nil, apperr.Internal(err)
	}

	reachable, allowed := CanTransition(booking.Status, target, actor.Role)
	if !reachable {
		return nil, apperr.StateConflict(fmt.Sprintf("Cannot move booking from %s to %s.", booking.Status, target))
	}
	if !allowed {
		return nil, apperr.Forbidden("FORBIDDEN", fmt.Sprintf("Role %s may not %s a booking.", actor.Role, target))
	}

	if target == bookingModel.StatusCancelled && reason == "" {
		return nil, apperr.Validation("Cancellation requires a reason.")
	}

	nowTime := time.Now()
	updates := map[string]interface{}{"status": target}

	switch target {
	case bookingModel.StatusAccepted:
		updates["accepted_at"] = nowTime
	case bookingModel.StatusCompleted:
		updates["completed_at"] = nowTime
	case bookingModel.StatusCancelled:
		updates["cancellation_reason"] = reason
		updates["cancelled_by"] = actor.UserID
		if actor.Role == userModel.RoleCustomer {
			updates["cancellation_fee"] = s.Cfg.CancellationFee
		}
	case bookingModel.StatusRejected:
		if reason != "" {
			updates["cancellation_reason"] = reason
		}
	}

	if err := s.commitTransition(&booking, actor, target, reason, updates); err != nil {
		return nil, apperr.From(err)
	}

	s.notifyCounterpart(actor, &booking, target)

	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return &booking, nil
}

// commitTransition applies a validated transition atomically. The update is
// gated on the status the validation read, so a concurrent transition that
// committed in between loses here with a state conflict instead of
// overwriting it.
func (s *Service) commitTransition(booking *bookingModel.Booking, actor Actor, target bookingModel.Status, reason string, updates map[string]interface{}) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&bookingModel.Booking{}).
			Where("id = ? AND status = ?", booking.ID, booking.Status).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.StateConflict("Booking status changed, retry the transition.")
		}

		meta := ""
		if reason != "" {
			if b, mErr := json.Marshal(map[string]string{"reason": reason}); mErr == nil {
				meta = string(b)
			}
		}
		history := bookingModel.StatusHistory{
			BookingID: booking.ID,
			Status:    target,
			ChangedBy: actor.UserID,
			Meta:      meta,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		if target == bookingModel.StatusCompleted {
			return s.recordPayment(tx, booking)
		}
		return nil
	})
}

// recordPayment appends the opaque ledger row for a completed booking.
func (s *Service) recordPayment(tx *gorm.DB, booking *bookingModel.Booking) error {
	ref := "CASH_" + uuid.NewString()[:8]
	payment := paymentModel.Payment{
		BookingID:      booking.ID,
		CustomerID:     booking.CustomerID,
		VendorID:       booking.VendorID,
		Amount:         booking.PayableAmount(),
		Method:         "cash",
		Status:         "pending",
		TransactionRef: ref,
	}
	return tx.Create(&payment).Error
}

// notifyCounterpart alerts the other side of the booking. Failures are
// logged only; the transition has already committed.
func (s *Service) notifyCounterpart(actor Actor, booking *bookingModel.Booking, target bookingModel.Status) {
	var notifyUserID uint
	if actor.Role == userModel.RoleVendor {
		notifyUserID = booking.CustomerID
	} else {
		var vendor vendorModel.VendorProfile
		if err := s.DB.First(&vendor, booking.VendorID).Error; err != nil {
			logger.Error("Failed to resolve vendor for notification", err)
			return
		}
		notifyUserID = vendor.UserID
	}

	s.Notifier.Dispatch(notifyUserID, "booking_update",
		fmt.Sprintf("Booking %s", target),
		fmt.Sprintf("Your booking has been %s.", target),
		map[string]interface{}{"booking_id": booking.ID, "status": string(target)})

	if s.Mailer == nil {
		return
	}
	var recipient userModel.User
	if err := s.DB.First(&recipient, notifyUserID).Error; err != nil {
		logger.Error("Failed to resolve notification recipient", err)
		return
	}
	if err := s.Mailer.SendBookingEmail(recipient.Email, booking.ID, string(target)); err != nil {
		logger.Error("Failed to send booking email", err)
	}
}

// VerifyJobOTP checks the customer's on-site code. A match sets the
// verified flag exactly once and forces the booking to in_progress from
// whatever status it held; a mismatch never mutates state.
func (s *Service) VerifyJobOTP(actor Actor, bookingID uint, code string) (*bookingModel.Booking, error) {
	var booking bookingModel.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Booking not found")
		}
		return nil, apperr.Internal(err)
	}

	if !utils.CheckCode(code, booking.JobOTPHash) {
		return nil, apperr.New("INVALID_OTP", "Incorrect job OTP.", 400)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// Gate on the verified flag so concurrent submissions win at most
		// once.
		res := tx.Model(&bookingModel.Booking{}).
			Where("id = ? AND job_otp_verified = false", booking.ID).
			Updates(map[string]interface{}{
				"job_otp_verified": true,
				"status":           bookingModel.StatusInProgress,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.StateConflict("Job OTP already verified.")
		}

		meta, _ := json.Marshal(map[string]bool{"otp_verified": true})
		history := bookingModel.StatusHistory{
			BookingID: booking.ID,
			Status:    bookingModel.StatusInProgress,
			ChangedBy: actor.UserID,
			Meta:      string(meta),
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, apperr.From(err)
	}

	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return &booking, nil
}

// UpdatePrice lets the vendor set a final price with a mandatory reason and
// notifies the customer. Allowed at any point before the booking finishes.
func (s *Service) UpdatePrice(actor Actor, bookingID uint, finalPrice float64, reason string) error {
	if finalPrice <= 0 || reason == "" {
		return apperr.Validation("Price and reason are required.")
	}

	var booking bookingModel.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Booking not found")
		}
		return apperr.Internal(err)
	}
	if booking.Status.IsTerminal() {
		return apperr.StateConflict("Cannot update price on a finished booking.")
	}

	err := s.DB.Model(&booking).Updates(map[string]interface{}{
		"final_price":         finalPrice,
		"price_update_reason": reason,
	}).Error
	if err != nil {
		return apperr.Internal(err)
	}

	s.Notifier.Dispatch(booking.CustomerID, "payment_alert", "Price Updated",
		fmt.Sprintf("Vendor updated the price to Rs.%.2f. Reason: %s", finalPrice, reason),
		map[string]interface{}{"booking_id": booking.ID, "final_price": finalPrice, "reason": reason})

	return nil
}

// History returns the append-only transition log, oldest first.
func (s *Service) History(bookingID uint) ([]bookingModel.StatusHistory, error) {
	var rows []bookingModel.StatusHistory
	err := s.DB.Where("booking_id = ?", bookingID).Order("changed_at ASC").Find(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return rows, nil
}
