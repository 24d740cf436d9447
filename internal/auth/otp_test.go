package auth

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/khallude/Healthify-Solutions-sub001/pkg/config"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/logger"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/monitoring"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/types"
)

func newTestOTPManager(repo *mockAccountRepository, mailer *mockMailer) *OTPManager {
	return NewOTPManager(repo, mailer, logger.New("error"), monitoring.NewMetricsCollector("test"), &config.OTPConfig{
		Digits:   6,
		TTL:      600,
		ResetTTL: 900,
	})
}

func testAdminAccount() *types.Account {
	return &types.Account{
		ID:     "admin-1",
		Email:  "admin@example.com",
		Role:   types.RoleAdmin,
		Status: types.StatusActive,
	}
}

func TestOTPManager_GenerateCodeIsSixDigits(t *testing.T) {
	m := newTestOTPManager(&mockAccountRepository{}, &mockMailer{})

	pattern := regexp.MustCompile(`^[1-9][0-9]{5}$`)
	for i := 0; i < 100; i++ {
		code, err := m.generateCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

func TestOTPManager_IssueStoresAndDelivers(t *testing.T) {
	repo := &mockAccountRepository{}
	mailer := &mockMailer{}
	m := newTestOTPManager(repo, mailer)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	var storedCode string
	repo.On("SetOTP", mock.Anything, "admin-1", mock.AnythingOfType("string"), now.Add(10*time.Minute)).
		Run(func(args mock.Arguments) { storedCode = args.String(2) }).
		Return(nil)
	mailer.On("Send", "admin@example.com", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	err := m.Issue(context.Background(), testAdminAccount())
	require.NoError(t, err)

	assert.Len(t, storedCode, 6)
	repo.AssertExpectations(t)
	mailer.AssertExpectations(t)

	// The delivered body carries the stored code
	sentText := mailer.Calls[0].Arguments.String(2)
	assert.Contains(t, sentText, storedCode)
}

func TestOTPManager_IssueDeliveryFailure(t *testing.T) {
	repo := &mockAccountRepository{}
	mailer := &mockMailer{}
	m := newTestOTPManager(repo, mailer)

	repo.On("SetOTP", mock.Anything, "admin-1", mock.Anything, mock.Anything).Return(nil)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp connection refused"))

	err := m.Issue(context.Background(), testAdminAccount())
	require.Error(t, err)

	var he *types.HeavenError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, types.ErrorKindDelivery, he.Kind)
	assert.Equal(t, types.ErrCodeOTPDelivery, he.Code)
}

func TestOTPManager_IssueStoreFailureSkipsDelivery(t *testing.T) {
	repo := &mockAccountRepository{}
	mailer := &mockMailer{}
	m := newTestOTPManager(repo, mailer)

	repo.On("SetOTP", mock.Anything, "admin-1", mock.Anything, mock.Anything).
		Return(errors.New("db down"))

	err := m.Issue(context.Background(), testAdminAccount())
	require.Error(t, err)

	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOTPManager_VerifySuccessConsumes(t *testing.T) {
	repo := &mockAccountRepository{}
	m := newTestOTPManager(repo, &mockMailer{})

	repo.On("ConsumeOTP", mock.Anything, "admin-1", "123456", mock.Anything).Return(true, nil)

	err := m.Verify(context.Background(), testAdminAccount(), "123456")
	require.NoError(t, err)

	// Classification reads never happen on a consumed code
	repo.AssertNotCalled(t, "GetOTP", mock.Anything, mock.Anything)
}

func TestOTPManager_VerifyNoActiveCode(t *testing.T) {
	repo := &mockAccountRepository{}
	m := newTestOTPManager(repo, &mockMailer{})

	repo.On("ConsumeOTP", mock.Anything, "admin-1", "123456", mock.Anything).Return(false, nil)
	repo.On("GetOTP", mock.Anything, "admin-1").Return("", nil, nil)

	err := m.Verify(context.Background(), testAdminAccount(), "123456")
	require.Error(t, err)

	var he *types.HeavenError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, types.ErrCodeOTPNotFound, he.Code)
}

func TestOTPManager_VerifyExpiredWinsOverMismatch(t *testing.T) {
	repo := &mockAccountRepository{}
	m := newTestOTPManager(repo, &mockMailer{})

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	// The stored digits match the submission, but the code is expired:
	// the caller must see an expiry failure, not a success or mismatch.
	expired := now.Add(-time.Minute)
	repo.On("ConsumeOTP", mock.Anything, "admin-1", "123456", now).Return(false, nil)
	repo.On("GetOTP", mock.Anything, "admin-1").Return("123456", &expired, nil)

	err := m.Verify(context.Background(), testAdminAccount(), "123456")
	require.Error(t, err)

	var he *types.HeavenError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, types.ErrCodeOTPExpired, he.Code)
	assert.Equal(t, types.ErrorKindExpired, he.Kind)
}

func TestOTPManager_VerifyMismatch(t *testing.T) {
	repo := &mockAccountRepository{}
	m := newTestOTPManager(repo, &mockMailer{})

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	future := now.Add(5 * time.Minute)
	repo.On("ConsumeOTP", mock.Anything, "admin-1", "999999", now).Return(false, nil)
	repo.On("GetOTP", mock.Anything, "admin-1").Return("123456", &future, nil)

	err := m.Verify(context.Background(), testAdminAccount(), "999999")
	require.Error(t, err)

	var he *types.HeavenError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, types.ErrCodeOTPMismatch, he.Code)
}

func TestOTPManager_IssueResetStoresAndDelivers(t *testing.T) {
	repo := &mockAccountRepository{}
	mailer := &mockMailer{}
	m := newTestOTPManager(repo, mailer)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	var storedCode string
	repo.On("SetResetCode", mock.Anything, "admin-1", mock.AnythingOfType("string"), now.Add(15*time.Minute)).
		Run(func(args mock.Arguments) { storedCode = args.String(2) }).
		Return(nil)
	mailer.On("Send", "admin@example.com", "Password Reset Request", mock.Anything, mock.Anything).Return(nil)

	err := m.IssueReset(context.Background(), testAdminAccount())
	require.NoError(t, err)

	assert.Len(t, storedCode, 6)
	repo.AssertExpectations(t)
	mailer.AssertExpectations(t)

	sentText := mailer.Calls[0].Arguments.String(2)
	assert.Contains(t, sentText, storedCode)
}

func TestOTPManager_IssueResetDeliveryFailure(t *testing.T) {
	repo := &mockAccountRepository{}
	mailer := &mockMailer{}
	m := newTestOTPManager(repo, mailer)

	repo.On("SetResetCode", mock.Anything, "admin-1", mock.Anything, mock.Anything).Return(nil)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp connection refused"))

	err := m.IssueReset(context.Background(), testAdminAccount())
	require.Error(t, err)

	var he *types.HeavenError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, types.ErrorKindDelivery, he.Kind)
	assert.Equal(t, types.ErrCodeResetDelivery, he.Code)
}

func TestOTPManager_VerifyAtMostOnce(t *testing.T) {
	repo := &mockAccountRepository{}
	m := newTestOTPManager(repo, &mockMailer{})

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	// First submission consumes; the replay sees the cleared row.
	repo.On("ConsumeOTP", mock.Anything, "admin-1", "123456", now).Return(true, nil).Once()
	repo.On("ConsumeOTP", mock.Anything, "admin-1", "123456", now).Return(false, nil).Once()
	repo.On("GetOTP", mock.Anything, "admin-1").Return("", nil, nil)

	require.NoError(t, m.Verify(context.Background(), testAdminAccount(), "123456"))

	err := m.Verify(context.Background(), testAdminAccount(), "123456")
	require.Error(t, err)

	var he *types.HeavenError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, types.ErrCodeOTPNotFound, he.Code)
}
