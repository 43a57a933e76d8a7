package booking

import (
	"fmt"
	"testing"
	"time"

	"localserve/apperr"
	"localserve/config"
	"localserve/database"
	bookingModel "localserve/models/booking"
	chatModel "localserve/models/chat"
	notificationModel "localserve/models/notification"
	paymentModel "localserve/models/payment"
	serviceModel "localserve/models/service"
	userModel "localserve/models/user"
	vendorModel "localserve/models/vendor"
	"localserve/services/notification"
	"localserve/utils"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type fixture struct {
	svc      *Service
	customer userModel.User
	vendor   userModel.User
	profile  vendorModel.VendorProfile
	offering serviceModel.VendorService
}

func newFixture(t *testing.T, basePrice float64) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	f := &fixture{
		customer: userModel.User{Name: "Customer", Email: "c@x.com", PasswordHash: "x", Role: userModel.RoleCustomer, IsVerified: true},
		vendor:   userModel.User{Name: "Vendor", Email: "v@x.com", PasswordHash: "x", Role: userModel.RoleVendor, IsVerified: true},
	}
	require.NoError(t, db.Create(&f.customer).Error)
	require.NoError(t, db.Create(&f.vendor).Error)

	f.profile = vendorModel.VendorProfile{UserID: f.vendor.ID, BusinessName: "Fix-It Works", KYCStatus: "verified"}
	require.NoError(t, db.Create(&f.profile).Error)

	catalog := serviceModel.Service{Name: "Plumbing"}
	require.NoError(t, db.Create(&catalog).Error)
	f.offering = serviceModel.VendorService{VendorID: f.profile.ID, ServiceID: catalog.ID, BasePrice: basePrice}
	require.NoError(t, db.Create(&f.offering).Error)

	cfg := &config.Config{CancellationFee: 1.00}
	f.svc = NewService(db, cfg, notification.NewDispatcher(db), nil)
	return f
}

func (f *fixture) customerActor() Actor {
	return Actor{UserID: f.customer.ID, Role: userModel.RoleCustomer}
}

func (f *fixture) vendorActor() Actor {
	return Actor{UserID: f.vendor.ID, Role: userModel.RoleVendor}
}

func (f *fixture) create(t *testing.T) *CreateResult {
	t.Helper()
	tomorrow := time.Now().Add(24 * time.Hour).Format("2006-01-02")
	result, err := f.svc.Create(f.customerActor(), CreateInput{
		VendorID:      f.profile.ID,
		ServiceID:     f.offering.ID,
		AddressID:     1,
		ScheduledDate: tomorrow,
		ScheduledTime: "14:00",
	})
	require.NoError(t, err)
	return result
}

func (f *fixture) forceStatus(t *testing.T, id uint, status bookingModel.Status) {
	t.Helper()
	require.NoError(t, f.svc.DB.Model(&bookingModel.Booking{}).
		Where("id = ?", id).Update("status", status).Error)
}

func TestCreate_PriceComputation(t *testing.T) {
	f := newFixture(t, 250.00)
	result := f.create(t)

	assert.Equal(t, 0.0, result.Booking.TravelFee)
	assert.Equal(t, 12.50, result.Booking.Tax)
	assert.Equal(t, 262.50, result.Booking.EstimatedPrice)
}

func TestCreate_RejectsPastSchedule(t *testing.T) {
	f := newFixture(t, 100)

	yesterday := time.Now().Add(-24 * time.Hour).Format("2006-01-02")
	_, err := f.svc.Create(f.customerActor(), CreateInput{
		VendorID: f.profile.ID, ServiceID: f.offering.ID, AddressID: 1,
		ScheduledDate: yesterday, ScheduledTime: "14:00",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, "INVALID_DATE"))
}

func TestCreate_UnknownServiceOrVendor(t *testing.T) {
	f := newFixture(t, 100)
	tomorrow := time.Now().Add(24 * time.Hour).Format("2006-01-02")

	_, err := f.svc.Create(f.customerActor(), CreateInput{
		VendorID: f.profile.ID, ServiceID: 999, AddressID: 1,
		ScheduledDate: tomorrow, ScheduledTime: "14:00",
	})
	assert.True(t, apperr.Is(err, "NOT_FOUND"))

	_, err = f.svc.Create(f.customerActor(), CreateInput{
		VendorID: 999, ServiceID: f.offering.ID, AddressID: 1,
		ScheduledDate: tomorrow, ScheduledTime: "14:00",
	})
	assert.True(t, apperr.Is(err, "NOT_FOUND"))
}

func TestCreate_WritesHistoryChatAndHashedJobOTP(t *testing.T) {
	f := newFixture(t, 100)
	result := f.create(t)

	assert.Len(t, result.JobOTP, 4)
	assert.True(t, utils.CheckCode(result.JobOTP, result.Booking.JobOTPHash))
	assert.NotEqual(t, result.JobOTP, result.Booking.JobOTPHash)

	var history []bookingModel.StatusHistory
	require.NoError(t, f.svc.DB.Where("booking_id = ?", result.Booking.ID).Find(&history).Error)
	require.Len(t, history, 1)
	assert.Equal(t, bookingModel.StatusRequested, history[0].Status)
	assert.Equal(t, f.customer.ID, history[0].ChangedBy)

	var chat chatModel.Chat
	require.NoError(t, f.svc.DB.Where("booking_id = ?", result.Booking.ID).First(&chat).Error)
	assert.Equal(t, f.vendor.ID, chat.VendorUserID)

	// The vendor got a notification.
	var alerts int64
	require.NoError(t, f.svc.DB.Model(&notificationModel.Notification{}).
		Where("user_id = ?", f.vendor.ID).Count(&alerts).Error)
	assert.Equal(t, int64(1), alerts)
}

func TestUpdateStatus_StrictAdjacency(t *testing.T) {
	f := newFixture(t, 100)
	result := f.create(t)

	// requested cannot jump straight to completed.
	_, err := f.svc.UpdateStatus(f.vendorActor(), result.Booking.ID, bookingModel.StatusCompleted, "")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, "INVALID_STATE"))

	// The legal path works edge by edge.
	for _, target := range []bookingModel.Status{
		bookingModel.StatusAccepted,
		bookingModel.StatusOnTheWay,
		bookingModel.StatusArrived,
	} {
		_, err := f.svc.UpdateStatus(f.vendorActor(), result.Booking.ID, target, "")
		require.NoError(t, err, "transition to %s", target)
	}

	// arrived -> completed requires the job-OTP gate through in_progress.
	_, err = f.svc.UpdateStatus(f.vendorActor(), result.Booking.ID, bookingModel.StatusCompleted, "")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, "INVALID_STATE"))
}

func TestUpdateStatus_RoleGating(t *testing.T) {
	f := newFixture(t, 100)
	result := f.create(t)

	// A customer cannot accept their own booking.
	_, err := f.svc.UpdateStatus(f.customerActor(), result.Booking.ID, bookingModel.StatusAccepted, "")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, "FORBIDDEN"))

	// An admin can.
	admin := Actor{UserID: 99, Role: userModel.RoleAdmin}
	_, err = f.svc.UpdateStatus(admin, result.Booking.ID, bookingModel.StatusAccepted, "")
	assert.NoError(t, err)
}

func TestUpdateStatus_TerminalStatesAreImmutable(t *testing.T) {
	f := newFixture(t, 100)
	result := f.create(t)

	_, err := f.svc.UpdateStatus(f.vendorActor(), result.Booking.ID, bookingModel.StatusRejected, "fully booked")
	require.NoError(t, err)

	for _, target := range []bookingModel.Status{
		bookingModel.StatusAccepted,
		bookingModel.StatusCancelled,
		bookingModel.StatusCompleted,
	} {
		_, err := f.svc.UpdateStatus(f.vendorActor(), result.Booking.ID, target, "reason")
		require.Error(t, err, "rejected is terminal, %s must fail", target)
		assert.True(t, apperr.Is(err, "INVALID_STATE"))
	}
}

func TestCancellation_FeeOnlyForCustomerActor(t *testing.T) {
	cases := []struct {
		name    string
		actor   func(*fixture) Actor
		wantFee float64
	}{
		{"customer pays the fee", (*fixture).customerActor, 1.00},
		{"vendor pays nothing", (*fixture).vendorActor, 0},
		{"admin pays nothing", func(f *fixture) Actor { return Actor{UserID: 99, Role: userModel.RoleAdmin} }, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, 100)
			result := f.create(t)

			updated, err := f.svc.UpdateStatus(tc.actor(f), result.Booking.ID, bookingModel.StatusCancelled, "changed plans")
			require.NoError(t, err)

			assert.Equal(t, bookingModel.StatusCancelled, updated.Status)
			assert.Equal(t, tc.wantFee, updated.CancellationFee)
			assert.Equal(t, "changed plans", updated.CancellationReason)
			require.NotNil(t, updated.CancelledBy)
			assert.Equal(t, tc.actor(f).UserID, *updated.CancelledBy)
		})
	}
}

func TestCancellation_RequiresReason(t *testing.T) {
	f := newFixture(t, 100)
	result := f.create(t)

	_, err := f.svc.UpdateStatus(f.customerActor(), result.Booking.ID, bookingModel.StatusCancelled, "")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, "VALIDATION_ERROR"))
}

func TestVerifyJobOTP_ExactlyOnce(t *testing.T) {
	f := newFixture(t, 100)
	result := f.create(t)
	f.forceStatus(t, result.Booking.ID, bookingModel.StatusArrived)

	// Wrong code never mutates state.
	wrong := "0000"
	if result.JobOTP == wrong {
		wrong = "0001"
	}
	_, err := f.svc.VerifyJobOTP(f.vendorActor(), result.Booking.ID, wrong)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, "INVALID_OTP"))

	var unchanged bookingModel.Booking
	require.NoError(t, f.svc.DB.First(&unchanged, result.Booking.ID).Error)
	assert.Equal(t, bookingModel.StatusArrived, unchanged.Status)
	assert.False(t, unchanged.JobOTPVerified)

	// Correct code flips status and the verified flag.
	updated, err := f.svc.VerifyJobOTP(f.vendorActor(), result.Booking.ID, result.JobOTP)
	require.NoError(t, err)
	assert.Equal(t, bookingModel.StatusInProgress, updated.Status)
	assert.True(t, updated.JobOTPVerified)

	// Second submission of the same correct code cannot win again.
	_, err = f.svc.VerifyJobOTP(f.vendorActor(), result.Booking.ID, result.JobOTP)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, "INVALID_STATE"))
}

func TestVerifyJobOTP_ForcesInProgressFromEarlierStatus(t *testing.T) {
	f := newFixture(t, 100)
	result := f.create(t)

	// Straight from requested: the gate bypasses the adjacency table.
	updated, err := f.svc.VerifyJobOTP(f.vendorActor(), result.Booking.ID, result.JobOTP)
	require.NoError(t, err)
	assert.Equal(t, bookingModel.StatusInProgress, updated.Status)
}

func TestCompletion_WritesPaymentLedgerRow(t *testing.T) {
	f := newFixture(t, 500)
	result := f.create(t)

	require.NoError(t, f.svc.UpdatePrice(f.vendorActor(), result.Booking.ID, 650, "extra parts"))

	// Customer was alerted about the revision.
	var alert notificationModel.Notification
	require.NoError(t, f.svc.DB.Where("user_id = ? AND type = ?", f.customer.ID, "payment_alert").
		First(&alert).Error)
	assert.Contains(t, alert.Body, "650")
	assert.Contains(t, alert.Body, "extra parts")

	_, err := f.svc.VerifyJobOTP(f.vendorActor(), result.Booking.ID, result.JobOTP)
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(f.vendorActor(), result.Booking.ID, bookingModel.StatusCompleted, "")
	require.NoError(t, err)
	assert.NotNil(t, updated.CompletedAt)

	var ledger paymentModel.Payment
	require.NoError(t, f.svc.DB.Where("booking_id = ?", result.Booking.ID).First(&ledger).Error)
	assert.Equal(t, 650.0, ledger.Amount, "payable amount follows the revised final price")
	assert.Equal(t, "pending", ledger.Status)
	assert.Contains(t, ledger.TransactionRef, "CASH_")
}

func TestCommitTransition_StaleStatusLoses(t *testing.T) {
	f := newFixture(t, 100)
	result := f.create(t)

	_, err := f.svc.VerifyJobOTP(f.vendorActor(), result.Booking.ID, result.JobOTP)
	require.NoError(t, err)

	// Both sides of a race validate against in_progress; the cancellation
	// commits first.
	var stale bookingModel.Booking
	require.NoError(t, f.svc.DB.First(&stale, result.Booking.ID).Error)
	_, err = f.svc.UpdateStatus(f.customerActor(), result.Booking.ID, bookingModel.StatusCancelled, "changed plans")
	require.NoError(t, err)

	// The completion saw in_progress, but the row no longer holds it: the
	// gated update must refuse rather than overwrite the terminal state.
	err = f.svc.commitTransition(&stale, f.vendorActor(), bookingModel.StatusCompleted, "",
		map[string]interface{}{"status": bookingModel.StatusCompleted, "completed_at": time.Now()})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, "INVALID_STATE"))

	var current bookingModel.Booking
	require.NoError(t, f.svc.DB.First(&current, result.Booking.ID).Error)
	assert.Equal(t, bookingModel.StatusCancelled, current.Status)

	// The losing side left no payment row and no history row behind.
	var payments int64
	require.NoError(t, f.svc.DB.Model(&paymentModel.Payment{}).
		Where("booking_id = ?", result.Booking.ID).Count(&payments).Error)
	assert.Equal(t, int64(0), payments)

	history, err := f.svc.History(result.Booking.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, bookingModel.StatusCancelled, history[2].Status)
}

func TestUpdatePrice_RejectedOnFinishedBooking(t *testing.T) {
	f := newFixture(t, 100)
	result := f.create(t)

	_, err := f.svc.UpdateStatus(f.customerActor(), result.Booking.ID, bookingModel.StatusCancelled, "changed plans")
	require.NoError(t, err)

	err = f.svc.UpdatePrice(f.vendorActor(), result.Booking.ID, 200, "extra parts")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, "INVALID_STATE"))
}

func TestHistory_OneRowPerTransition(t *testing.T) {
	f := newFixture(t, 100)
	result := f.create(t)

	_, err := f.svc.UpdateStatus(f.vendorActor(), result.Booking.ID, bookingModel.StatusAccepted, "")
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(f.customerActor(), result.Booking.ID, bookingModel.StatusCancelled, "changed plans")
	require.NoError(t, err)

	history, err := f.svc.History(result.Booking.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, bookingModel.StatusRequested, history[0].Status)
	assert.Equal(t, bookingModel.StatusAccepted, history[1].Status)
	assert.Equal(t, bookingModel.StatusCancelled, history[2].Status)
	assert.Contains(t, history[2].Meta, "changed plans")
}

func TestCanTransition_TableIsExhaustivelyCheckable(t *testing.T) {
	all := []bookingModel.Status{
		bookingModel.StatusRequested, bookingModel.StatusAccepted, bookingModel.StatusRejected,
		bookingModel.StatusOnTheWay, bookingModel.StatusArrived, bookingModel.StatusInProgress,
		bookingModel.StatusCompleted, bookingModel.StatusCancelled,
	}

	for _, from := range all {
		for _, to := range all {
			reachable, _ := CanTransition(from, to, userModel.RoleAdmin)
			if from.IsTerminal() {
				assert.False(t, reachable, fmt.Sprintf("%s is terminal, %s must be unreachable", from, to))
			}
			if to == bookingModel.StatusInProgress {
				assert.False(t, reachable, "in_progress is only reachable through the job-OTP gate")
			}
		}
	}

	// Cancellation is open to every actor from every non-terminal state.
	for _, from := range all {
		if from.IsTerminal() {
			continue
		}
		for _, role := range []userModel.Role{userModel.RoleCustomer, userModel.RoleVendor, userModel.RoleAdmin} {
			reachable, allowed := CanTransition(from, bookingModel.StatusCancelled, role)
			assert.True(t, reachable && allowed, fmt.Sprintf("%s should be cancellable by %s", from, role))
		}
	}
}
