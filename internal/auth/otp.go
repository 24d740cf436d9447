package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/khallude/Healthify-Solutions-sub001/internal/notify"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/config"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/interfaces"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/logger"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/monitoring"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/types"
)

// OTPManager issues and verifies one-time codes: the admin second factor and
// password reset codes. Codes live on the owning account row; issue replaces
// any prior active code and verification consumes at most once.
type OTPManager struct {
	repo     interfaces.AccountRepository
	mailer   interfaces.Mailer
	logger   *logger.Logger
	metrics  *monitoring.MetricsCollector
	digits   int
	ttl      time.Duration
	resetTTL time.Duration
	now      func() time.Time
}

// NewOTPManager creates a new OTP manager
func NewOTPManager(repo interfaces.AccountRepository, mailer interfaces.Mailer, log *logger.Logger, metrics *monitoring.MetricsCollector, cfg *config.OTPConfig) *OTPManager {
	return &OTPManager{
		repo:     repo,
		mailer:   mailer,
		logger:   log,
		metrics:  metrics,
		digits:   cfg.Digits,
		ttl:      cfg.Duration(),
		resetTTL: cfg.ResetDuration(),
		now:      time.Now,
	}
}

// Issue generates a fresh numeric code for the account, persists it with a
// single atomic write that invalidates any prior active code, and emails it
// to the account's registered address. The email send is awaited so the
// caller never reports "OTP sent" for a code that was not delivered; a
// delivery failure surfaces as a delivery error, distinct from any
// verification failure.
func (m *OTPManager) Issue(ctx context.Context, account *types.Account) error {
	code, err := m.generateCode()
	if err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "Failed to generate OTP", err)
	}

	expiresAt := m.now().Add(m.ttl)
	if err := m.repo.SetOTP(ctx, account.ID, code, expiresAt); err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "Failed to store OTP", err)
	}

	subject, text, html := notify.OTPEmail(code, m.ttl)
	if err := m.mailer.Send(account.Email, subject, text, html); err != nil {
		m.metrics.RecordOTPEvent("issue", "delivery_failed")
		m.logger.Error("Failed to deliver OTP email", "account_id", account.ID, "error", err)
		return types.NewDeliveryError(types.ErrCodeOTPDelivery, "Failed to send OTP email", err)
	}

	m.metrics.RecordOTPEvent("issue", "delivered")
	m.logger.Info("OTP issued", "account_id", account.ID, "expires_at", expiresAt)
	return nil
}

// Verify validates a supplied code against the stored one and consumes it on
// success. The consume is a single conditional write, so a code can never be
// verified twice even under concurrent submissions. Failures are classified
// afterwards: absent code, expired code (expiry wins even when the digits
// match), or mismatch.
func (m *OTPManager) Verify(ctx context.Context, account *types.Account, code string) error {
	consumed, err := m.repo.ConsumeOTP(ctx, account.ID, code, m.now())
	if err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "Failed to verify OTP", err)
	}
	if consumed {
		m.metrics.RecordOTPEvent("verify", "success")
		m.logger.Info("OTP verified", "account_id", account.ID)
		return nil
	}

	stored, expiresAt, err := m.repo.GetOTP(ctx, account.ID)
	if err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "Failed to read OTP state", err)
	}

	switch {
	case stored == "":
		m.metrics.RecordOTPEvent("verify", "not_found")
		return types.NewNotFoundError(types.ErrCodeOTPNotFound, "No active OTP for this account")
	case expiresAt == nil || expiresAt.Before(m.now()):
		m.metrics.RecordOTPEvent("verify", "expired")
		return types.NewExpiredError(types.ErrCodeOTPExpired, "OTP has expired")
	default:
		m.metrics.RecordOTPEvent("verify", "mismatch")
		return types.NewAuthenticationError(types.ErrCodeOTPMismatch, "Invalid OTP")
	}
}

// IssueReset generates a password reset code, persists it atomically, and
// emails it to the account. Like Issue, the send is awaited: the caller must
// not report a reset code on its way when it never left the relay.
func (m *OTPManager) IssueReset(ctx context.Context, account *types.Account) error {
	code, err := m.generateCode()
	if err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "Failed to generate reset code", err)
	}

	expiresAt := m.now().Add(m.resetTTL)
	if err := m.repo.SetResetCode(ctx, account.ID, code, expiresAt); err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "Failed to store reset code", err)
	}

	subject, text, html := notify.PasswordResetEmail(account.Username, code, m.resetTTL)
	if err := m.mailer.Send(account.Email, subject, text, html); err != nil {
		m.metrics.RecordOTPEvent("reset_issue", "delivery_failed")
		m.logger.Error("Failed to deliver password reset email", "account_id", account.ID, "error", err)
		return types.NewDeliveryError(types.ErrCodeResetDelivery, "Failed to send password reset email", err)
	}

	m.metrics.RecordOTPEvent("reset_issue", "delivered")
	m.logger.Info("Password reset code issued", "account_id", account.ID, "expires_at", expiresAt)
	return nil
}

// generateCode produces a fixed-length numeric code from crypto/rand
func (m *OTPManager) generateCode() (string, error) {
	min := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(m.digits-1)), nil)
	span := new(big.Int).Mul(min, big.NewInt(9))

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("failed to generate random code: %w", err)
	}

	return n.Add(n, min).String(), nil
}
