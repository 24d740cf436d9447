package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khallude/Healthify-Solutions-sub001/internal/notify"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/interfaces"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/logger"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/types"
)

// Service implements appointment booking and lifecycle management
type Service struct {
	repo     interfaces.AppointmentRepository
	accounts interfaces.AccountRepository
	mailer   interfaces.Mailer
	logger   *logger.Logger
}

// NewService creates a new appointment service
func NewService(
	repo interfaces.AppointmentRepository,
	accounts interfaces.AccountRepository,
	mailer interfaces.Mailer,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		mailer:   mailer,
		logger:   log,
	}
}

// Book creates a new appointment for the patient after checking the slot is
// free. A confirmation email goes out in the background; delivery problems
// never fail the booking.
func (s *Service) Book(ctx context.Context, patientID string, req *types.AppointmentRequest) (*types.Appointment, error) {
	if !req.EndsAt.After(req.StartsAt) {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "Appointment end must be after its start")
	}
	if req.StartsAt.Before(time.Now()) {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "Appointment cannot be in the past")
	}

	doctor, err := s.accounts.GetByID(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor.Role != types.RoleDoctor || doctor.Status != types.StatusApproved {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "Doctor is not available for booking")
	}

	conflicts, err := s.repo.GetConflicting(ctx, req.DoctorID, &types.TimeSlot{
		StartTime: req.StartsAt,
		EndTime:   req.EndsAt,
	})
	if err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "Failed to check slot availability", err)
	}
	if len(conflicts) > 0 {
		return nil, types.NewConflictError(types.ErrCodeSlotTaken, "The requested time slot is already booked")
	}

	now := time.Now()
	apt := &types.Appointment{
		ID:        uuid.New().String(),
		PatientID: patientID,
		DoctorID:  req.DoctorID,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Reason:    req.Reason,
		Status:    types.AppointmentScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "Failed to create appointment", err)
	}

	s.sendAppointmentEmail(patientID, doctor.Username, apt.StartsAt, notify.AppointmentBookedEmail)

	s.logger.Info("Appointment booked", "appointment_id", apt.ID, "patient_id", patientID, "doctor_id", req.DoctorID)
	return apt, nil
}

// Get retrieves an appointment, visible only to its participants and admins
func (s *Service) Get(ctx context.Context, id string, claims *types.Claims) (*types.Appointment, error) {
	apt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.canAccess(apt, claims) {
		return nil, types.NewForbiddenError(types.ErrCodeForbidden, "You do not have access to this appointment")
	}

	return apt, nil
}

// ListForAccount lists the caller's own appointments. Patients see their
// bookings, doctors see their schedule.
func (s *Service) ListForAccount(ctx context.Context, claims *types.Claims) ([]*types.Appointment, error) {
	switch claims.Role {
	case types.RoleDoctor:
		return s.repo.ListByDoctor(ctx, claims.AccountID)
	default:
		return s.repo.ListByPatient(ctx, claims.AccountID)
	}
}

// UpdateStatus transitions an appointment. Only the assigned doctor or an
// admin may confirm or complete; cancelled appointments are final.
func (s *Service) UpdateStatus(ctx context.Context, id string, status types.AppointmentStatus, claims *types.Claims) error {
	switch status {
	case types.AppointmentConfirmed, types.AppointmentCompleted, types.AppointmentCancelled:
	default:
		return types.NewValidationError(types.ErrCodeInvalidInput, "Invalid appointment status")
	}

	apt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	isAssignedDoctor := claims.Role == types.RoleDoctor && apt.DoctorID == claims.AccountID
	isAdmin := claims.Role == types.RoleAdmin || claims.Role == types.RoleSuperAdmin
	if !isAssignedDoctor && !isAdmin {
		return types.NewForbiddenError(types.ErrCodeForbidden, "Only the assigned doctor or an admin can update this appointment")
	}

	if apt.Status == types.AppointmentCancelled {
		return types.NewConflictError(types.ErrCodeConflict, "Cancelled appointments cannot be updated")
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	s.logger.Info("Appointment status updated", "appointment_id", id, "status", status)
	return nil
}

// Cancel cancels an appointment. The booking patient, the assigned doctor,
// and admins may cancel.
func (s *Service) Cancel(ctx context.Context, id string, claims *types.Claims) error {
	apt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !s.canAccess(apt, claims) {
		return types.NewForbiddenError(types.ErrCodeForbidden, "You do not have access to this appointment")
	}

	if apt.Status == types.AppointmentCancelled {
		return types.NewConflictError(types.ErrCodeConflict, "Appointment is already cancelled")
	}
	if apt.Status == types.AppointmentCompleted {
		return types.NewConflictError(types.ErrCodeConflict, "Completed appointments cannot be cancelled")
	}

	if err := s.repo.UpdateStatus(ctx, id, types.AppointmentCancelled); err != nil {
		return err
	}

	if doctor, derr := s.accounts.GetByID(ctx, apt.DoctorID); derr == nil {
		s.sendAppointmentEmail(apt.PatientID, doctor.Username, apt.StartsAt, notify.AppointmentCancelledEmail)
	}

	s.logger.Info("Appointment cancelled", "appointment_id", id, "by", claims.AccountID)
	return nil
}

func (s *Service) canAccess(apt *types.Appointment, claims *types.Claims) bool {
	switch claims.Role {
	case types.RoleAdmin, types.RoleSuperAdmin:
		return true
	case types.RoleDoctor:
		return apt.DoctorID == claims.AccountID
	default:
		return apt.PatientID == claims.AccountID
	}
}

func (s *Service) sendAppointmentEmail(patientID, doctorName string, startsAt time.Time, template func(string, string, time.Time) (string, string, string)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		patient, err := s.accounts.GetByID(ctx, patientID)
		if err != nil {
			s.logger.Error("Failed to load patient for appointment email", "patient_id", patientID, "error", err)
			return
		}

		subject, text, html := template(patient.Username, doctorName, startsAt)
		if err := s.mailer.Send(patient.Email, subject, text, html); err != nil {
			s.logger.Error("Failed to send appointment email", "email", patient.Email, "error", err)
		}
	}()
}
