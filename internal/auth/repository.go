package auth

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/khallude/Healthify-Solutions-sub001/pkg/database"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/logger"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/types"
)

// AccountRepository implements account data persistence on PostgreSQL
type AccountRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB, log *logger.Logger) *AccountRepository {
	return &AccountRepository{
		db:     db,
		logger: log,
	}
}

const accountColumns = `id, username, email, password_hash, role, status, specialty, otp_code, otp_expires_at, reset_code, reset_expires_at, created_at, updated_at`

// Create creates a new account. The password hash is set here and never
// rewritten except through UpdatePassword.
func (r *AccountRepository) Create(ctx context.Context, account *types.Account) error {
	query := `
		INSERT INTO accounts (id, username, email, password_hash, role, status, specialty, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.Status,
		account.Specialty,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if strings.Contains(pqErr.Detail, "username") {
					return &types.HeavenError{
						Kind:    types.ErrorKindConflict,
						Code:    types.ErrCodeDuplicateAccount,
						Message: "Username already exists",
					}
				}
				return &types.HeavenError{
					Kind:    types.ErrorKindConflict,
					Code:    types.ErrCodeDuplicateAccount,
					Message: "Account with this email already exists",
				}
			}
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	r.logger.Info("Account created successfully", "account_id", account.ID, "role", account.Role)
	return nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*types.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves an account by email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*types.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *AccountRepository) scanAccount(row *sql.Row) (*types.Account, error) {
	var account types.Account
	var otpExpiresAt, resetExpiresAt sql.NullTime

	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&account.Status,
		&account.Specialty,
		&account.OTPCode,
		&otpExpiresAt,
		&account.ResetCode,
		&resetExpiresAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &types.HeavenError{
				Kind:    types.ErrorKindNotFound,
				Code:    types.ErrCodeAccountNotFound,
				Message: "Account not found",
			}
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if otpExpiresAt.Valid {
		account.OTPExpiresAt = &otpExpiresAt.Time
	}
	if resetExpiresAt.Valid {
		account.ResetExpiresAt = &resetExpiresAt.Time
	}

	return &account, nil
}

// UpdateStatus updates the lifecycle status of an account
func (r *AccountRepository) UpdateStatus(ctx context.Context, id string, status types.AccountStatus) error {
	query := `UPDATE accounts SET status = $1, updated_at = now() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update account status: %w", err)
	}

	return r.requireRow(result, id)
}

// UpdatePassword replaces the stored password hash. This is the only write
// path for the hash besides account creation.
func (r *AccountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE accounts SET password_hash = $1, updated_at = now() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return r.requireRow(result, id)
}

// Delete removes an account
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	return r.requireRow(result, id)
}

// List retrieves accounts matching the criteria
func (r *AccountRepository) List(ctx context.Context, criteria *types.AccountSearchCriteria) ([]*types.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts`

	whereParts := make([]string, 0)
	args := make([]interface{}, 0)
	argIndex := 1

	if criteria.Role != "" {
		whereParts = append(whereParts, fmt.Sprintf("role = $%d", argIndex))
		args = append(args, criteria.Role)
		argIndex++
	}
	if criteria.Status != "" {
		whereParts = append(whereParts, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, criteria.Status)
		argIndex++
	}
	if criteria.Email != "" {
		whereParts = append(whereParts, fmt.Sprintf("email ILIKE $%d", argIndex))
		args = append(args, "%"+criteria.Email+"%")
		argIndex++
	}

	if len(whereParts) > 0 {
		query += " WHERE " + strings.Join(whereParts, " AND ")
	}

	query += " ORDER BY created_at DESC"

	if criteria.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, criteria.Limit)
		argIndex++
	}
	if criteria.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, criteria.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*types.Account
	for rows.Next() {
		var account types.Account
		var otpExpiresAt, resetExpiresAt sql.NullTime

		err := rows.Scan(
			&account.ID,
			&account.Username,
			&account.Email,
			&account.PasswordHash,
			&account.Role,
			&account.Status,
			&account.Specialty,
			&account.OTPCode,
			&otpExpiresAt,
			&account.ResetCode,
			&resetExpiresAt,
			&account.CreatedAt,
			&account.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}

		if otpExpiresAt.Valid {
			account.OTPExpiresAt = &otpExpiresAt.Time
		}
		if resetExpiresAt.Valid {
			account.ResetExpiresAt = &resetExpiresAt.Time
		}

		accounts = append(accounts, &account)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}

	return accounts, nil
}

// SetOTP writes the code and expiry in a single statement keyed by owner,
// replacing any previously active code. Two racing issues resolve to
// last-write-wins; there is never a moment with two valid codes.
func (r *AccountRepository) SetOTP(ctx context.Context, accountID, code string, expiresAt time.Time) error {
	query := `UPDATE accounts SET otp_code = $1, otp_expires_at = $2, updated_at = now() WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, code, expiresAt, accountID)
	if err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	return r.requireRow(result, accountID)
}

// ConsumeOTP clears the stored code iff it matches and has not expired, in
// one conditional write. At most one concurrent submission can observe a
// row change, which gives at-most-once consumption.
func (r *AccountRepository) ConsumeOTP(ctx context.Context, accountID, code string, now time.Time) (bool, error) {
	query := `
		UPDATE accounts
		SET otp_code = '', otp_expires_at = NULL, updated_at = now()
		WHERE id = $1 AND otp_code <> '' AND otp_code = $2 AND otp_expires_at > $3`

	result, err := r.db.ExecContext(ctx, query, accountID, code, now)
	if err != nil {
		return false, fmt.Errorf("failed to consume OTP: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// GetOTP reads the current OTP state for failure classification
func (r *AccountRepository) GetOTP(ctx context.Context, accountID string) (string, *time.Time, error) {
	var code string
	var expiresAt sql.NullTime

	err := r.db.QueryRowContext(ctx, `SELECT otp_code, otp_expires_at FROM accounts WHERE id = $1`, accountID).
		Scan(&code, &expiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil, &types.HeavenError{
				Kind:    types.ErrorKindNotFound,
				Code:    types.ErrCodeAccountNotFound,
				Message: "Account not found",
			}
		}
		return "", nil, fmt.Errorf("failed to read OTP state: %w", err)
	}

	if expiresAt.Valid {
		return code, &expiresAt.Time, nil
	}
	return code, nil, nil
}

// SetResetCode writes a password reset code and expiry in a single statement,
// replacing any previously issued code for the account
func (r *AccountRepository) SetResetCode(ctx context.Context, accountID, code string, expiresAt time.Time) error {
	query := `UPDATE accounts SET reset_code = $1, reset_expires_at = $2, updated_at = now() WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, code, expiresAt, accountID)
	if err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	return r.requireRow(result, accountID)
}

// GetByResetCode retrieves the account holding an unexpired reset code. An
// absent or expired code is reported as one error; the flow never reveals
// which of the two it was.
func (r *AccountRepository) GetByResetCode(ctx context.Context, code string, now time.Time) (*types.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE reset_code <> '' AND reset_code = $1 AND reset_expires_at > $2`

	account, err := r.scanAccount(r.db.QueryRowContext(ctx, query, code, now))
	if err != nil {
		if types.IsKind(err, types.ErrorKindNotFound) {
			return nil, types.NewValidationError(types.ErrCodeResetInvalid, "Invalid or expired reset code")
		}
		return nil, err
	}

	return account, nil
}

// ConsumeResetCode writes the new password hash and clears the reset code in
// one conditional update. The row changes only while the code still matches
// and has not expired, so a reset code is honored at most once.
func (r *AccountRepository) ConsumeResetCode(ctx context.Context, accountID, code, passwordHash string, now time.Time) (bool, error) {
	query := `
		UPDATE accounts
		SET password_hash = $1, reset_code = '', reset_expires_at = NULL, updated_at = now()
		WHERE id = $2 AND reset_code <> '' AND reset_code = $3 AND reset_expires_at > $4`

	result, err := r.db.ExecContext(ctx, query, passwordHash, accountID, code, now)
	if err != nil {
		return false, fmt.Errorf("failed to consume reset code: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

func (r *AccountRepository) requireRow(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &types.HeavenError{
			Kind:    types.ErrorKindNotFound,
			Code:    types.ErrCodeAccountNotFound,
			Message: "Account not found",
		}
	}

	return nil
}
