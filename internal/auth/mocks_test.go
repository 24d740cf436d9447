package auth

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/khallude/Healthify-Solutions-sub001/pkg/types"
)

type mockAccountRepository struct {
	mock.Mock
}

func (m *mockAccountRepository) Create(ctx context.Context, account *types.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockAccountRepository) GetByID(ctx context.Context, id string) (*types.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Account), args.Error(1)
}

func (m *mockAccountRepository) GetByEmail(ctx context.Context, email string) (*types.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Account), args.Error(1)
}

func (m *mockAccountRepository) UpdateStatus(ctx context.Context, id string, status types.AccountStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockAccountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *mockAccountRepository) List(ctx context.Context, criteria *types.AccountSearchCriteria) ([]*types.Account, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Account), args.Error(1)
}

func (m *mockAccountRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAccountRepository) SetOTP(ctx context.Context, accountID, code string, expiresAt time.Time) error {
	args := m.Called(ctx, accountID, code, expiresAt)
	return args.Error(0)
}

func (m *mockAccountRepository) ConsumeOTP(ctx context.Context, accountID, code string, now time.Time) (bool, error) {
	args := m.Called(ctx, accountID, code, now)
	return args.Bool(0), args.Error(1)
}

func (m *mockAccountRepository) GetOTP(ctx context.Context, accountID string) (string, *time.Time, error) {
	args := m.Called(ctx, accountID)
	var expiresAt *time.Time
	if args.Get(1) != nil {
		expiresAt = args.Get(1).(*time.Time)
	}
	return args.String(0), expiresAt, args.Error(2)
}

func (m *mockAccountRepository) SetResetCode(ctx context.Context, accountID, code string, expiresAt time.Time) error {
	args := m.Called(ctx, accountID, code, expiresAt)
	return args.Error(0)
}

func (m *mockAccountRepository) GetByResetCode(ctx context.Context, code string, now time.Time) (*types.Account, error) {
	args := m.Called(ctx, code, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Account), args.Error(1)
}

func (m *mockAccountRepository) ConsumeResetCode(ctx context.Context, accountID, code, passwordHash string, now time.Time) (bool, error) {
	args := m.Called(ctx, accountID, code, passwordHash, now)
	return args.Bool(0), args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(to, subject, textBody, htmlBody string) error {
	args := m.Called(to, subject, textBody, htmlBody)
	return args.Error(0)
}

type mockPasswordHasher struct {
	mock.Mock
}

func (m *mockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordHasher) Verify(hashedPassword, password string) (bool, error) {
	args := m.Called(hashedPassword, password)
	return args.Bool(0), args.Error(1)
}

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) Issue(accountID string, role types.Role) (*types.AuthToken, error) {
	args := m.Called(accountID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.AuthToken), args.Error(1)
}

func (m *mockTokenService) Verify(token string) (*types.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Claims), args.Error(1)
}

type mockOTPService struct {
	mock.Mock
}

func (m *mockOTPService) Issue(ctx context.Context, account *types.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockOTPService) Verify(ctx context.Context, account *types.Account, code string) error {
	args := m.Called(ctx, account, code)
	return args.Error(0)
}

func (m *mockOTPService) IssueReset(ctx context.Context, account *types.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}
