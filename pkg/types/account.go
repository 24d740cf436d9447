package types

import "time"

// Role represents the different account roles in the system
type Role string

const (
	RolePatient    Role = "patient"
	RoleDoctor     Role = "doctor"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// AccountStatus represents the lifecycle state of an account
type AccountStatus string

const (
	StatusActive   AccountStatus = "active"
	StatusInactive AccountStatus = "inactive"
	StatusPending  AccountStatus = "pending"
	StatusApproved AccountStatus = "approved"
	StatusBanned   AccountStatus = "banned"
)

// Account represents a system account (patient, doctor, or admin)
type Account struct {
	ID             string        `json:"id" db:"id"`
	Username       string        `json:"username" db:"username"`
	Email          string        `json:"email" db:"email"`
	PasswordHash   string        `json:"-" db:"password_hash"`
	Role           Role          `json:"role" db:"role"`
	Status         AccountStatus `json:"status" db:"status"`
	Specialty      string        `json:"specialty,omitempty" db:"specialty"`
	OTPCode        string        `json:"-" db:"otp_code"`
	OTPExpiresAt   *time.Time    `json:"-" db:"otp_expires_at"`
	ResetCode      string        `json:"-" db:"reset_code"`
	ResetExpiresAt *time.Time    `json:"-" db:"reset_expires_at"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}

// CanAuthenticate reports whether the account is in a state that permits
// login. Doctors must be approved; everyone else must be active.
func (a *Account) CanAuthenticate() bool {
	if a.Role == RoleDoctor {
		return a.Status == StatusApproved
	}
	return a.Status == StatusActive
}

// Claims represents the verified identity attached to a request
type Claims struct {
	AccountID string `json:"account_id"`
	Role      Role   `json:"role"`
}

// RegistrationRequest represents patient registration data
type RegistrationRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// DoctorRegistrationRequest represents doctor registration data
type DoctorRegistrationRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Specialty string `json:"specialty" binding:"required"`
}

// Credentials represents login credentials
type Credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// OTPSubmission represents the second step of the admin login flow
type OTPSubmission struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

// PasswordChangeRequest represents a password change for the current account
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// ForgotPasswordRequest starts the password reset flow
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetCodeSubmission carries a reset code for standalone validity checking
type ResetCodeSubmission struct {
	Code string `json:"code" binding:"required,len=6"`
}

// PasswordResetRequest completes the password reset flow
type PasswordResetRequest struct {
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// AuthToken represents an issued session token response
type AuthToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
}

// AccountSearchCriteria represents search criteria for listing accounts
type AccountSearchCriteria struct {
	Role   Role          `json:"role,omitempty" form:"role"`
	Status AccountStatus `json:"status,omitempty" form:"status"`
	Email  string        `json:"email,omitempty" form:"email"`
	Limit  int           `json:"limit,omitempty" form:"limit"`
	Offset int           `json:"offset,omitempty" form:"offset"`
}
