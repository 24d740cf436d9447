package scheduling

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/khallude/Healthify-Solutions-sub001/pkg/database"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/logger"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/types"
)

// Repository implements appointment data persistence on PostgreSQL
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new appointment repository
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

const appointmentColumns = `id, patient_id, doctor_id, starts_at, ends_at, reason, status, created_at, updated_at`

// Create creates a new appointment
func (r *Repository) Create(ctx context.Context, apt *types.Appointment) error {
	query := `
		INSERT INTO appointments (id, patient_id, doctor_id, starts_at, ends_at, reason, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		apt.ID,
		apt.PatientID,
		apt.DoctorID,
		apt.StartsAt,
		apt.EndsAt,
		apt.Reason,
		apt.Status,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	r.logger.Info("Appointment created", "appointment_id", apt.ID, "doctor_id", apt.DoctorID)
	return nil
}

// GetByID retrieves an appointment by ID
func (r *Repository) GetByID(ctx context.Context, id string) (*types.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var apt types.Appointment
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&apt.ID,
		&apt.PatientID,
		&apt.DoctorID,
		&apt.StartsAt,
		&apt.EndsAt,
		&apt.Reason,
		&apt.Status,
		&apt.CreatedAt,
		&apt.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError(types.ErrCodeAppointmentNotFound, "Appointment not found")
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	return &apt, nil
}

// ListByPatient retrieves all appointments for a patient
func (r *Repository) ListByPatient(ctx context.Context, patientID string) ([]*types.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE patient_id = $1 ORDER BY starts_at DESC`
	return r.list(ctx, query, patientID)
}

// ListByDoctor retrieves all appointments for a doctor
func (r *Repository) ListByDoctor(ctx context.Context, doctorID string) ([]*types.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE doctor_id = $1 ORDER BY starts_at DESC`
	return r.list(ctx, query, doctorID)
}

// UpdateStatus updates the status of an appointment
func (r *Repository) UpdateStatus(ctx context.Context, id string, status types.AppointmentStatus) error {
	query := `UPDATE appointments SET status = $1, updated_at = now() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeAppointmentNotFound, "Appointment not found")
	}

	return nil
}

// GetConflicting returns active appointments for the doctor overlapping the
// slot. Cancelled appointments do not block the slot.
func (r *Repository) GetConflicting(ctx context.Context, doctorID string, slot *types.TimeSlot) ([]*types.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1
		  AND status != 'cancelled'
		  AND starts_at < $3
		  AND ends_at > $2`

	return r.list(ctx, query, doctorID, slot.StartTime, slot.EndTime)
}

func (r *Repository) list(ctx context.Context, query string, args ...interface{}) ([]*types.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var appointments []*types.Appointment
	for rows.Next() {
		var apt types.Appointment
		err := rows.Scan(
			&apt.ID,
			&apt.PatientID,
			&apt.DoctorID,
			&apt.StartsAt,
			&apt.EndsAt,
			&apt.Reason,
			&apt.Status,
			&apt.CreatedAt,
			&apt.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment row: %w", err)
		}
		appointments = append(appointments, &apt)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointment rows: %w", err)
	}

	return appointments, nil
}
