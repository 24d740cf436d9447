package notify

import (
	"fmt"
	"time"
)

// Email bodies for account and appointment events. Each template returns the
// subject, a plain-text body, and an HTML alternative.

// AdminWelcomeEmail announces a newly created admin account with its initial
// credentials
func AdminWelcomeEmail(username, email, password string) (subject, text, html string) {
	subject = "Welcome to Health Heaven"
	text = fmt.Sprintf(
		"Hello %s,\n\nAn administrator account has been created for you.\n\nEmail: %s\nPassword: %s\n\nPlease log in and change your password as soon as possible.\n\nHealth Heaven Team",
		username, email, password,
	)
	html = fmt.Sprintf(
		`<div style="font-family:Arial,sans-serif"><h2>Welcome to Health Heaven</h2><p>Hello %s,</p><p>An administrator account has been created for you.</p><p><b>Email:</b> %s<br><b>Password:</b> %s</p><p>Please log in and change your password as soon as possible.</p><p>Health Heaven Team</p></div>`,
		username, email, password,
	)
	return subject, text, html
}

// OTPEmail carries the second-factor login code
func OTPEmail(code string, ttl time.Duration) (subject, text, html string) {
	minutes := int(ttl.Minutes())
	subject = "Admin Login OTP"
	text = fmt.Sprintf(
		"Your OTP for login verification is: %s\n\nThis code expires in %d minutes. If you did not request it, ignore this email.",
		code, minutes,
	)
	html = fmt.Sprintf(
		`<div style="font-family:Arial,sans-serif"><p>Your OTP for login verification is:</p><h1 style="letter-spacing:4px">%s</h1><p>This code expires in %d minutes. If you did not request it, ignore this email.</p></div>`,
		code, minutes,
	)
	return subject, text, html
}

// PasswordResetEmail carries the password reset code
func PasswordResetEmail(username, code string, ttl time.Duration) (subject, text, html string) {
	minutes := int(ttl.Minutes())
	subject = "Password Reset Request"
	text = fmt.Sprintf(
		"Hello %s,\n\nYour password reset code is: %s\n\nThis code expires in %d minutes. If you did not request a reset, ignore this email and your password will stay unchanged.\n\nHealth Heaven Team",
		username, code, minutes,
	)
	html = fmt.Sprintf(
		`<div style="font-family:Arial,sans-serif"><p>Hello %s,</p><p>Your password reset code is:</p><h1 style="letter-spacing:4px">%s</h1><p>This code expires in %d minutes. If you did not request a reset, ignore this email and your password will stay unchanged.</p><p>Health Heaven Team</p></div>`,
		username, code, minutes,
	)
	return subject, text, html
}

// AccountBannedEmail notifies the owner that their account was suspended
func AccountBannedEmail(username string) (subject, text, html string) {
	subject = "Your Health Heaven account has been suspended"
	text = fmt.Sprintf(
		"Hello %s,\n\nYour account has been suspended by an administrator. You will not be able to log in until it is restored.\n\nIf you believe this is a mistake, please contact support.\n\nHealth Heaven Team",
		username,
	)
	html = fmt.Sprintf(
		`<div style="font-family:Arial,sans-serif"><p>Hello %s,</p><p>Your account has been suspended by an administrator. You will not be able to log in until it is restored.</p><p>If you believe this is a mistake, please contact support.</p><p>Health Heaven Team</p></div>`,
		username,
	)
	return subject, text, html
}

// AccountRestoredEmail notifies the owner that their suspension was lifted
func AccountRestoredEmail(username string) (subject, text, html string) {
	subject = "Your Health Heaven account has been restored"
	text = fmt.Sprintf(
		"Hello %s,\n\nYour account has been restored. You can log in again.\n\nHealth Heaven Team",
		username,
	)
	html = fmt.Sprintf(
		`<div style="font-family:Arial,sans-serif"><p>Hello %s,</p><p>Your account has been restored. You can log in again.</p><p>Health Heaven Team</p></div>`,
		username,
	)
	return subject, text, html
}

// DoctorApprovedEmail notifies a doctor that their registration was approved
func DoctorApprovedEmail(username string) (subject, text, html string) {
	subject = "Your Health Heaven doctor account is approved"
	text = fmt.Sprintf(
		"Hello Dr. %s,\n\nYour registration has been approved. You can now log in and start accepting appointments.\n\nHealth Heaven Team",
		username,
	)
	html = fmt.Sprintf(
		`<div style="font-family:Arial,sans-serif"><p>Hello Dr. %s,</p><p>Your registration has been approved. You can now log in and start accepting appointments.</p><p>Health Heaven Team</p></div>`,
		username,
	)
	return subject, text, html
}

// AppointmentBookedEmail confirms a new appointment to the patient
func AppointmentBookedEmail(patientName, doctorName string, startsAt time.Time) (subject, text, html string) {
	when := startsAt.Format("Monday, 02 Jan 2006 at 15:04")
	subject = "Appointment Confirmation"
	text = fmt.Sprintf(
		"Hello %s,\n\nYour appointment with Dr. %s is booked for %s.\n\nHealth Heaven Team",
		patientName, doctorName, when,
	)
	html = fmt.Sprintf(
		`<div style="font-family:Arial,sans-serif"><p>Hello %s,</p><p>Your appointment with Dr. %s is booked for <b>%s</b>.</p><p>Health Heaven Team</p></div>`,
		patientName, doctorName, when,
	)
	return subject, text, html
}

// AppointmentCancelledEmail notifies the patient of a cancellation
func AppointmentCancelledEmail(patientName, doctorName string, startsAt time.Time) (subject, text, html string) {
	when := startsAt.Format("Monday, 02 Jan 2006 at 15:04")
	subject = "Appointment Cancelled"
	text = fmt.Sprintf(
		"Hello %s,\n\nYour appointment with Dr. %s on %s has been cancelled.\n\nHealth Heaven Team",
		patientName, doctorName, when,
	)
	html = fmt.Sprintf(
		`<div style="font-family:Arial,sans-serif"><p>Hello %s,</p><p>Your appointment with Dr. %s on <b>%s</b> has been cancelled.</p><p>Health Heaven Team</p></div>`,
		patientName, doctorName, when,
	)
	return subject, text, html
}
