package types

import "time"

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a booked consultation between a patient and a doctor
type Appointment struct {
	ID        string            `json:"id" db:"id"`
	PatientID string            `json:"patient_id" db:"patient_id"`
	DoctorID  string            `json:"doctor_id" db:"doctor_id"`
	StartsAt  time.Time         `json:"starts_at" db:"starts_at"`
	EndsAt    time.Time         `json:"ends_at" db:"ends_at"`
	Reason    string            `json:"reason" db:"reason"`
	Status    AppointmentStatus `json:"status" db:"status"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" db:"updated_at"`
}

// AppointmentRequest represents a booking request from a patient
type AppointmentRequest struct {
	DoctorID string    `json:"doctor_id" binding:"required"`
	StartsAt time.Time `json:"starts_at" binding:"required"`
	EndsAt   time.Time `json:"ends_at" binding:"required"`
	Reason   string    `json:"reason"`
}

// AppointmentStatusUpdate represents a status transition request
type AppointmentStatusUpdate struct {
	Status AppointmentStatus `json:"status" binding:"required"`
}

// TimeSlot represents a time window for conflict checks
type TimeSlot struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}
