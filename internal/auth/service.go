package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khallude/Healthify-Solutions-sub001/internal/notify"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/interfaces"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/logger"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/monitoring"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/types"
)

// Service implements authentication and account management
type Service struct {
	repo    interfaces.AccountRepository
	hasher  interfaces.PasswordHasher
	tokens  interfaces.TokenService
	otp     interfaces.OTPService
	mailer  interfaces.Mailer
	logger  *logger.Logger
	metrics *monitoring.MetricsCollector
}

// NewService creates a new authentication service
func NewService(
	repo interfaces.AccountRepository,
	hasher interfaces.PasswordHasher,
	tokens interfaces.TokenService,
	otp interfaces.OTPService,
	mailer interfaces.Mailer,
	log *logger.Logger,
	metrics *monitoring.MetricsCollector,
) *Service {
	return &Service{
		repo:    repo,
		hasher:  hasher,
		tokens:  tokens,
		otp:     otp,
		mailer:  mailer,
		logger:  log,
		metrics: metrics,
	}
}

// RegisterPatient creates a new patient account
func (s *Service) RegisterPatient(ctx context.Context, req *types.RegistrationRequest) (*types.Account, error) {
	return s.createAccount(ctx, req.Username, req.Email, req.Password, types.RolePatient, types.StatusActive, "")
}

// RegisterDoctor creates a new doctor account. Doctors start pending and
// cannot log in until an admin approves them.
func (s *Service) RegisterDoctor(ctx context.Context, req *types.DoctorRegistrationRequest) (*types.Account, error) {
	return s.createAccount(ctx, req.Username, req.Email, req.Password, types.RoleDoctor, types.StatusPending, req.Specialty)
}

// CreateAdmin creates a new admin account and sends a welcome email with the
// initial credentials. The email is best effort; a delivery failure does not
// roll back the account.
func (s *Service) CreateAdmin(ctx context.Context, req *types.RegistrationRequest) (*types.Account, error) {
	account, err := s.createAccount(ctx, req.Username, req.Email, req.Password, types.RoleAdmin, types.StatusActive, "")
	if err != nil {
		return nil, err
	}

	go func(email, username, password string) {
		subject, text, html := notify.AdminWelcomeEmail(username, email, password)
		if err := s.mailer.Send(email, subject, text, html); err != nil {
			s.logger.Error("Failed to send admin welcome email", "email", email, "error", err)
		}
	}(account.Email, account.Username, req.Password)

	return account, nil
}

func (s *Service) createAccount(ctx context.Context, username, email, password string, role types.Role, status types.AccountStatus, specialty string) (*types.Account, error) {
	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "Failed to hash password", err)
	}

	now := time.Now()
	account := &types.Account{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Status:       status,
		Specialty:    specialty,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Audit("account_created", account.ID, "accounts", map[string]interface{}{
		"role":   role,
		"status": status,
	})

	return account, nil
}

// Login authenticates a patient or doctor and issues a session token.
// Credential failures and unknown accounts produce the same error so the
// endpoint does not leak which emails exist.
func (s *Service) Login(ctx context.Context, credentials *types.Credentials) (*types.AuthToken, error) {
	account, err := s.repo.GetByEmail(ctx, credentials.Email)
	if err != nil {
		if types.IsKind(err, types.ErrorKindNotFound) {
			return nil, types.NewAuthenticationError(types.ErrCodeBadCredentials, "Invalid email or password")
		}
		return nil, err
	}

	if !account.CanAuthenticate() {
		s.logger.Security("login_blocked_inactive", "medium", map[string]interface{}{
			"account_id": account.ID,
			"status":     account.Status,
		})
		return nil, types.NewForbiddenError(types.ErrCodeAccountInactive, "Account is not permitted to log in")
	}

	valid, err := s.hasher.Verify(account.PasswordHash, credentials.Password)
	if err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "Failed to verify password", err)
	}
	if !valid {
		s.metrics.RecordAuthAttempt("password", "failed")
		s.logger.Security("login_failed", "medium", map[string]interface{}{
			"account_id": account.ID,
		})
		return nil, types.NewAuthenticationError(types.ErrCodeBadCredentials, "Invalid email or password")
	}

	token, err := s.tokens.Issue(account.ID, account.Role)
	if err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "Failed to issue token", err)
	}

	s.metrics.RecordAuthAttempt("password", "success")
	s.logger.Info("Login successful", "account_id", account.ID, "role", account.Role)
	return token, nil
}

// AdminLogin runs the first step of the admin login flow. A valid password
// gets an OTP dispatched to the admin's email and no token; superadmins skip
// the second factor and receive their token immediately.
func (s *Service) AdminLogin(ctx context.Context, credentials *types.Credentials) (*interfaces.AdminLoginResult, error) {
	account, err := s.repo.GetByEmail(ctx, credentials.Email)
	if err != nil {
		if types.IsKind(err, types.ErrorKindNotFound) {
			return nil, types.NewAuthenticationError(types.ErrCodeBadCredentials, "Invalid email or password")
		}
		return nil, err
	}

	if account.Role != types.RoleAdmin && account.Role != types.RoleSuperAdmin {
		return nil, types.NewAuthenticationError(types.ErrCodeBadCredentials, "Invalid email or password")
	}

	if !account.CanAuthenticate() {
		return nil, types.NewForbiddenError(types.ErrCodeAccountInactive, "Account is not permitted to log in")
	}

	valid, err := s.hasher.Verify(account.PasswordHash, credentials.Password)
	if err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "Failed to verify password", err)
	}
	if !valid {
		s.metrics.RecordAuthAttempt("admin_password", "failed")
		s.logger.Security("admin_login_failed", "high", map[string]interface{}{
			"account_id": account.ID,
		})
		return nil, types.NewAuthenticationError(types.ErrCodeBadCredentials, "Invalid email or password")
	}

	if account.Role == types.RoleSuperAdmin {
		token, err := s.tokens.Issue(account.ID, account.Role)
		if err != nil {
			return nil, types.NewInternalError(types.ErrCodeInternalError, "Failed to issue token", err)
		}
		s.logger.Info("Superadmin login successful", "account_id", account.ID)
		return &interfaces.AdminLoginResult{
			Message: "Login successful",
			OTPSent: false,
			Token:   token,
		}, nil
	}

	if err := s.otp.Issue(ctx, account); err != nil {
		return nil, err
	}

	s.metrics.RecordAuthAttempt("admin_password", "success")
	return &interfaces.AdminLoginResult{
		Message: "OTP sent to your email",
		OTPSent: true,
	}, nil
}

// VerifyAdminOTP runs the second step of the admin login flow: it consumes
// the outstanding code and issues the session token on success.
func (s *Service) VerifyAdminOTP(ctx context.Context, submission *types.OTPSubmission) (*types.AuthToken, error) {
	account, err := s.repo.GetByEmail(ctx, submission.Email)
	if err != nil {
		return nil, err
	}

	if account.Role != types.RoleAdmin {
		return nil, types.NewForbiddenError(types.ErrCodeForbidden, "OTP verification is only available for admin accounts")
	}

	// The account state is re-checked here: a ban or deactivation that lands
	// between the OTP dispatch and this call must still block the session.
	if !account.CanAuthenticate() {
		s.logger.Security("admin_otp_blocked_inactive", "high", map[string]interface{}{
			"account_id": account.ID,
			"status":     account.Status,
		})
		return nil, types.NewForbiddenError(types.ErrCodeAccountInactive, "Account is not permitted to log in")
	}

	if err := s.otp.Verify(ctx, account, submission.OTP); err != nil {
		s.metrics.RecordAuthAttempt("admin_otp", "failed")
		s.logger.Security("admin_otp_rejected", "high", map[string]interface{}{
			"account_id": account.ID,
		})
		return nil, err
	}

	token, err := s.tokens.Issue(account.ID, account.Role)
	if err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "Failed to issue token", err)
	}

	s.metrics.RecordAuthAttempt("admin_otp", "success")
	s.logger.Info("Admin login successful", "account_id", account.ID)
	return token, nil
}

// GetAccount retrieves an account by ID
func (s *Service) GetAccount(ctx context.Context, id string) (*types.Account, error) {
	return s.repo.GetByID(ctx, id)
}

// ChangePassword verifies the current password before storing a new hash
func (s *Service) ChangePassword(ctx context.Context, accountID string, req *types.PasswordChangeRequest) error {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	valid, err := s.hasher.Verify(account.PasswordHash, req.CurrentPassword)
	if err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "Failed to verify password", err)
	}
	if !valid {
		return types.NewAuthenticationError(types.ErrCodeBadCredentials, "Current password is incorrect")
	}

	newHash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "Failed to hash password", err)
	}

	if err := s.repo.UpdatePassword(ctx, accountID, newHash); err != nil {
		return err
	}

	s.logger.Audit("password_changed", accountID, "accounts", nil)
	return nil
}

// ForgotPassword dispatches a password reset code to the account's email.
// The send is awaited, so the caller learns when the relay refused the
// message instead of waiting for a code that never arrives.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := s.otp.IssueReset(ctx, account); err != nil {
		return err
	}

	s.logger.Info("Password reset requested", "account_id", account.ID)
	return nil
}

// VerifyResetCode reports whether a reset code is currently valid without
// consuming it, so a client can validate the code before collecting the new
// password.
func (s *Service) VerifyResetCode(ctx context.Context, code string) error {
	_, err := s.repo.GetByResetCode(ctx, code, time.Now())
	return err
}

// ResetPassword completes the reset flow: it locates the account by its
// unexpired code, then writes the new hash and clears the code in one
// conditional update. A code that was already used, replaced, or expired in
// the meantime leaves the password untouched.
func (s *Service) ResetPassword(ctx context.Context, req *types.PasswordResetRequest) error {
	account, err := s.repo.GetByResetCode(ctx, req.Code, time.Now())
	if err != nil {
		return err
	}

	newHash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "Failed to hash password", err)
	}

	consumed, err := s.repo.ConsumeResetCode(ctx, account.ID, req.Code, newHash, time.Now())
	if err != nil {
		return err
	}
	if !consumed {
		return types.NewValidationError(types.ErrCodeResetInvalid, "Invalid or expired reset code")
	}

	s.logger.Audit("password_reset", account.ID, "accounts", nil)
	return nil
}

// ListAccounts retrieves accounts matching the criteria
func (s *Service) ListAccounts(ctx context.Context, criteria *types.AccountSearchCriteria) ([]*types.Account, error) {
	return s.repo.List(ctx, criteria)
}

// DeleteAdmin removes an admin account. Superadmins cannot be deleted.
func (s *Service) DeleteAdmin(ctx context.Context, id string) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if account.Role != types.RoleAdmin {
		return types.NewForbiddenError(types.ErrCodeForbidden, "Only admin accounts can be deleted through this operation")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Audit("admin_deleted", id, "accounts", nil)
	return nil
}

// BanAccount suspends an account and notifies the owner by email
func (s *Service) BanAccount(ctx context.Context, id string) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if account.Role == types.RoleSuperAdmin {
		return types.NewForbiddenError(types.ErrCodeForbidden, "Superadmin accounts cannot be banned")
	}

	if err := s.repo.UpdateStatus(ctx, id, types.StatusBanned); err != nil {
		return err
	}

	go func(email, username string) {
		subject, text, html := notify.AccountBannedEmail(username)
		if err := s.mailer.Send(email, subject, text, html); err != nil {
			s.logger.Error("Failed to send ban notification email", "email", email, "error", err)
		}
	}(account.Email, account.Username)

	s.logger.Audit("account_banned", id, "accounts", nil)
	return nil
}

// UnbanAccount restores a banned account to its working status. Doctors
// return to approved; everyone else returns to active.
func (s *Service) UnbanAccount(ctx context.Context, id string) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	status := types.StatusActive
	if account.Role == types.RoleDoctor {
		status = types.StatusApproved
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	go func(email, username string) {
		subject, text, html := notify.AccountRestoredEmail(username)
		if err := s.mailer.Send(email, subject, text, html); err != nil {
			s.logger.Error("Failed to send unban notification email", "email", email, "error", err)
		}
	}(account.Email, account.Username)

	s.logger.Audit("account_unbanned", id, "accounts", nil)
	return nil
}

// ApproveDoctor moves a pending doctor to approved so they can log in
func (s *Service) ApproveDoctor(ctx context.Context, id string) error {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if account.Role != types.RoleDoctor {
		return types.NewValidationError(types.ErrCodeInvalidInput, "Account is not a doctor")
	}
	if account.Status != types.StatusPending {
		return types.NewConflictError(types.ErrCodeConflict, "Doctor is not awaiting approval")
	}

	if err := s.repo.UpdateStatus(ctx, id, types.StatusApproved); err != nil {
		return err
	}

	go func(email, username string) {
		subject, text, html := notify.DoctorApprovedEmail(username)
		if err := s.mailer.Send(email, subject, text, html); err != nil {
			s.logger.Error("Failed to send approval email", "email", email, "error", err)
		}
	}(account.Email, account.Username)

	s.logger.Audit("doctor_approved", id, "accounts", nil)
	return nil
}
