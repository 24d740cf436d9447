package interfaces

import (
	"context"

	"github.com/khallude/Healthify-Solutions-sub001/pkg/types"
)

// AppointmentService defines appointment booking and lifecycle management
type AppointmentService interface {
	Book(ctx context.Context, patientID string, req *types.AppointmentRequest) (*types.Appointment, error)
	Get(ctx context.Context, id string, claims *types.Claims) (*types.Appointment, error)
	ListForAccount(ctx context.Context, claims *types.Claims) ([]*types.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status types.AppointmentStatus, claims *types.Claims) error
	Cancel(ctx context.Context, id string, claims *types.Claims) error
}

// AppointmentRepository defines appointment data persistence
type AppointmentRepository interface {
	Create(ctx context.Context, apt *types.Appointment) error
	GetByID(ctx context.Context, id string) (*types.Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]*types.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]*types.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status types.AppointmentStatus) error
	GetConflicting(ctx context.Context, doctorID string, slot *types.TimeSlot) ([]*types.Appointment, error)
}
