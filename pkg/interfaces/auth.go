package interfaces

import (
	"context"
	"time"

	"github.com/khallude/Healthify-Solutions-sub001/pkg/types"
)

// AuthService defines the authentication and account management surface
type AuthService interface {
	// Registration
	RegisterPatient(ctx context.Context, req *types.RegistrationRequest) (*types.Account, error)
	RegisterDoctor(ctx context.Context, req *types.DoctorRegistrationRequest) (*types.Account, error)
	CreateAdmin(ctx context.Context, req *types.RegistrationRequest) (*types.Account, error)

	// Authentication
	Login(ctx context.Context, credentials *types.Credentials) (*types.AuthToken, error)
	AdminLogin(ctx context.Context, credentials *types.Credentials) (*AdminLoginResult, error)
	VerifyAdminOTP(ctx context.Context, submission *types.OTPSubmission) (*types.AuthToken, error)

	// Password reset
	ForgotPassword(ctx context.Context, email string) error
	VerifyResetCode(ctx context.Context, code string) error
	ResetPassword(ctx context.Context, req *types.PasswordResetRequest) error

	// Account management
	GetAccount(ctx context.Context, id string) (*types.Account, error)
	ChangePassword(ctx context.Context, accountID string, req *types.PasswordChangeRequest) error
	ListAccounts(ctx context.Context, criteria *types.AccountSearchCriteria) ([]*types.Account, error)
	DeleteAdmin(ctx context.Context, id string) error
	BanAccount(ctx context.Context, id string) error
	UnbanAccount(ctx context.Context, id string) error
	ApproveDoctor(ctx context.Context, id string) error
}

// AdminLoginResult is the outcome of the first step of the admin login flow.
// For admins a code is dispatched and no token is issued; superadmins skip
// the second factor and receive a token immediately.
type AdminLoginResult struct {
	Message string           `json:"message"`
	OTPSent bool             `json:"otp_sent"`
	Token   *types.AuthToken `json:"token,omitempty"`
}

// AccountRepository defines account data persistence. Password hashes flow
// only through Create and UpdatePassword, so a hash can never be silently
// re-hashed by a generic save.
type AccountRepository interface {
	Create(ctx context.Context, account *types.Account) error
	GetByID(ctx context.Context, id string) (*types.Account, error)
	GetByEmail(ctx context.Context, email string) (*types.Account, error)
	UpdateStatus(ctx context.Context, id string, status types.AccountStatus) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	List(ctx context.Context, criteria *types.AccountSearchCriteria) ([]*types.Account, error)
	Delete(ctx context.Context, id string) error

	// OTP persistence keyed by owner. SetOTP is a single atomic write that
	// replaces any prior code; ConsumeOTP atomically clears the stored code
	// iff it matches and has not expired, reporting whether it did.
	SetOTP(ctx context.Context, accountID, code string, expiresAt time.Time) error
	ConsumeOTP(ctx context.Context, accountID, code string, now time.Time) (bool, error)
	GetOTP(ctx context.Context, accountID string) (string, *time.Time, error)

	// Password reset codes follow the same single-statement discipline.
	// GetByResetCode only matches unexpired codes; ConsumeResetCode writes
	// the new hash and clears the code in one conditional update, so a code
	// resets a password at most once.
	SetResetCode(ctx context.Context, accountID, code string, expiresAt time.Time) error
	GetByResetCode(ctx context.Context, code string, now time.Time) (*types.Account, error)
	ConsumeResetCode(ctx context.Context, accountID, code, passwordHash string, now time.Time) (bool, error)
}

// PasswordHasher defines one-way password hashing and verification
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) (bool, error)
}

// TokenService issues and verifies signed session tokens
type TokenService interface {
	Issue(accountID string, role types.Role) (*types.AuthToken, error)
	Verify(token string) (*types.Claims, error)
}

// OTPService issues and verifies one-time codes: the second login factor and
// password reset codes
type OTPService interface {
	Issue(ctx context.Context, account *types.Account) error
	Verify(ctx context.Context, account *types.Account, code string) error
	IssueReset(ctx context.Context, account *types.Account) error
}
