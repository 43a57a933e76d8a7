package otp

import (
	"testing"
	"time"

	"localserve/apperr"
	"localserve/database"
	otpModel "localserve/models/otp"
	"localserve/utils"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type fakeMailer struct {
	sentTo   []string
	lastCode string
	fail     bool
}

func (f *fakeMailer) SendOTPEmail(to, code string, purpose otpModel.Purpose) error {
	if f.fail {
		return assert.AnError
	}
	f.sentTo = append(f.sentTo, to)
	f.lastCode = code
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeMailer) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	mailer := &fakeMailer{}
	return NewService(db, mailer, nil), mailer
}

func TestIssue_InvalidatesPriorUnusedCodes(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Issue("a@x.com", otpModel.PurposeRegistration)
	require.NoError(t, err)
	_, err = svc.Issue("a@x.com", otpModel.PurposeLogin)
	require.NoError(t, err)

	var live int64
	require.NoError(t, svc.DB.Model(&otpModel.OTP{}).
		Where("email = ? AND is_used = false", "a@x.com").
		Count(&live).Error)
	assert.Equal(t, int64(1), live, "at most one unused OTP per email at any instant")
}

func TestIssue_MailFailureIsFatal(t *testing.T) {
	svc, mailer := newTestService(t)
	mailer.fail = true

	_, err := svc.Issue("a@x.com", otpModel.PurposeRegistration)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, "EXTERNAL_ERROR"))
}

func TestThrottle_FourthSendWithinWindowFails(t *testing.T) {
	svc, _ := newTestService(t)

	for i := 0; i < 3; i++ {
		_, err := svc.Issue("a@x.com", otpModel.PurposeLogin)
		require.NoError(t, err, "send %d should be inside the allowance", i+1)
	}

	_, err := svc.Issue("a@x.com", otpModel.PurposeLogin)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, "OTP_THROTTLED"))

	// Other identities are unaffected.
	_, err = svc.Issue("b@x.com", otpModel.PurposeLogin)
	assert.NoError(t, err)
}

func TestThrottle_SendSucceedsAfterWindowExpires(t *testing.T) {
	svc, _ := newTestService(t)

	for i := 0; i < 3; i++ {
		_, err := svc.Issue("a@x.com", otpModel.PurposeLogin)
		require.NoError(t, err)
	}

	// Age the window out of the one-hour lookback.
	stale := time.Now().Add(-61 * time.Minute)
	require.NoError(t, svc.DB.Model(&otpModel.Throttle{}).
		Where("email = ?", "a@x.com").
		Update("window_start", stale).Error)

	_, err := svc.Issue("a@x.com", otpModel.PurposeLogin)
	assert.NoError(t, err)

	// Still a single window row for the email.
	var windows int64
	require.NoError(t, svc.DB.Model(&otpModel.Throttle{}).
		Where("email = ?", "a@x.com").Count(&windows).Error)
	assert.Equal(t, int64(1), windows)
}

func TestVerify_WrongCodeIncrementsAttempts(t *testing.T) {
	svc, mailer := newTestService(t)

	record, err := svc.Issue("a@x.com", otpModel.PurposeRegistration)
	require.NoError(t, err)

	wrong := "000000"
	if mailer.lastCode == wrong {
		wrong = "000001"
	}

	for i := 1; i <= 2; i++ {
		err = svc.Verify("a@x.com", wrong)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, "OTP_INVALID"))

		var reloaded otpModel.OTP
		require.NoError(t, svc.DB.First(&reloaded, record.ID).Error)
		assert.Equal(t, i, reloaded.Attempts)
		assert.False(t, reloaded.IsUsed)
	}

	// The correct code still works after failed attempts.
	require.NoError(t, svc.Verify("a@x.com", mailer.lastCode))
}

func TestVerify_MarksUsedAtMostOnce(t *testing.T) {
	svc, mailer := newTestService(t)

	_, err := svc.Issue("a@x.com", otpModel.PurposeRegistration)
	require.NoError(t, err)

	require.NoError(t, svc.Verify("a@x.com", mailer.lastCode))

	err = svc.Verify("a@x.com", mailer.lastCode)
	require.Error(t, err, "a consumed OTP must not verify again")
	assert.True(t, apperr.Is(err, "OTP_INVALID"))
}

func TestVerify_ExpiredCodeRejected(t *testing.T) {
	svc, mailer := newTestService(t)

	record, err := svc.Issue("a@x.com", otpModel.PurposeRegistration)
	require.NoError(t, err)

	require.NoError(t, svc.DB.Model(&otpModel.OTP{}).
		Where("id = ?", record.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	err = svc.Verify("a@x.com", mailer.lastCode)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, "OTP_INVALID"))
}

func TestVerify_StoresOnlyHash(t *testing.T) {
	svc, mailer := newTestService(t)

	record, err := svc.Issue("a@x.com", otpModel.PurposeRegistration)
	require.NoError(t, err)

	assert.NotEqual(t, mailer.lastCode, record.OTPHash)
	assert.True(t, utils.CheckCode(mailer.lastCode, record.OTPHash))
}
