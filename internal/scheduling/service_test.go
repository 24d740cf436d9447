package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/khallude/Healthify-Solutions-sub001/pkg/logger"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/types"
)

type mockAppointmentRepo struct {
	mock.Mock
}

func (m *mockAppointmentRepo) Create(ctx context.Context, apt *types.Appointment) error {
	args := m.Called(ctx, apt)
	return args.Error(0)
}

func (m *mockAppointmentRepo) GetByID(ctx context.Context, id string) (*types.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Appointment), args.Error(1)
}

func (m *mockAppointmentRepo) ListByPatient(ctx context.Context, patientID string) ([]*types.Appointment, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Appointment), args.Error(1)
}

func (m *mockAppointmentRepo) ListByDoctor(ctx context.Context, doctorID string) ([]*types.Appointment, error) {
	args := m.Called(ctx, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Appointment), args.Error(1)
}

func (m *mockAppointmentRepo) UpdateStatus(ctx context.Context, id string, status types.AppointmentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockAppointmentRepo) GetConflicting(ctx context.Context, doctorID string, slot *types.TimeSlot) ([]*types.Appointment, error) {
	args := m.Called(ctx, doctorID, slot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Appointment), args.Error(1)
}

type mockAccountRepo struct {
	mock.Mock
}

func (m *mockAccountRepo) Create(ctx context.Context, account *types.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *mockAccountRepo) GetByID(ctx context.Context, id string) (*types.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Account), args.Error(1)
}

func (m *mockAccountRepo) GetByEmail(ctx context.Context, email string) (*types.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Account), args.Error(1)
}

func (m *mockAccountRepo) UpdateStatus(ctx context.Context, id string, status types.AccountStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockAccountRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *mockAccountRepo) List(ctx context.Context, criteria *types.AccountSearchCriteria) ([]*types.Account, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Account), args.Error(1)
}

func (m *mockAccountRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAccountRepo) SetOTP(ctx context.Context, accountID, code string, expiresAt time.Time) error {
	return m.Called(ctx, accountID, code, expiresAt).Error(0)
}

func (m *mockAccountRepo) ConsumeOTP(ctx context.Context, accountID, code string, now time.Time) (bool, error) {
	args := m.Called(ctx, accountID, code, now)
	return args.Bool(0), args.Error(1)
}

func (m *mockAccountRepo) GetOTP(ctx context.Context, accountID string) (string, *time.Time, error) {
	args := m.Called(ctx, accountID)
	var expiresAt *time.Time
	if args.Get(1) != nil {
		expiresAt = args.Get(1).(*time.Time)
	}
	return args.String(0), expiresAt, args.Error(2)
}

func (m *mockAccountRepo) SetResetCode(ctx context.Context, accountID, code string, expiresAt time.Time) error {
	return m.Called(ctx, accountID, code, expiresAt).Error(0)
}

func (m *mockAccountRepo) GetByResetCode(ctx context.Context, code string, now time.Time) (*types.Account, error) {
	args := m.Called(ctx, code, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Account), args.Error(1)
}

func (m *mockAccountRepo) ConsumeResetCode(ctx context.Context, accountID, code, passwordHash string, now time.Time) (bool, error) {
	args := m.Called(ctx, accountID, code, passwordHash, now)
	return args.Bool(0), args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(to, subject, textBody, htmlBody string) error {
	return m.Called(to, subject, textBody, htmlBody).Error(0)
}

func newTestScheduling() (*Service, *mockAppointmentRepo, *mockAccountRepo, *mockMailer) {
	repo := &mockAppointmentRepo{}
	accounts := &mockAccountRepo{}
	mailer := &mockMailer{}
	svc := NewService(repo, accounts, mailer, logger.New("error"))
	return svc, repo, accounts, mailer
}

func approvedDoctor() *types.Account {
	return &types.Account{
		ID:       "d1",
		Username: "drwho",
		Email:    "drwho@example.com",
		Role:     types.RoleDoctor,
		Status:   types.StatusApproved,
	}
}

func futureSlot() (time.Time, time.Time) {
	start := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	return start, start.Add(30 * time.Minute)
}

func TestBook_Success(t *testing.T) {
	svc, repo, accounts, mailer := newTestScheduling()
	start, end := futureSlot()

	accounts.On("GetByID", mock.Anything, "d1").Return(approvedDoctor(), nil)
	repo.On("GetConflicting", mock.Anything, "d1", mock.Anything).Return([]*types.Appointment{}, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *types.Appointment) bool {
		return a.PatientID == "p1" && a.DoctorID == "d1" && a.Status == types.AppointmentScheduled
	})).Return(nil)
	accounts.On("GetByID", mock.Anything, "p1").Return(&types.Account{
		ID: "p1", Username: "pat", Email: "pat@example.com", Role: types.RolePatient,
	}, nil).Maybe()
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	apt, err := svc.Book(context.Background(), "p1", &types.AppointmentRequest{
		DoctorID: "d1",
		StartsAt: start,
		EndsAt:   end,
		Reason:   "checkup",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, apt.ID)
	assert.Equal(t, types.AppointmentScheduled, apt.Status)
}

func TestBook_RejectsInvertedSlot(t *testing.T) {
	svc, _, _, _ := newTestScheduling()
	start, end := futureSlot()

	_, err := svc.Book(context.Background(), "p1", &types.AppointmentRequest{
		DoctorID: "d1",
		StartsAt: end,
		EndsAt:   start,
	})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.ErrorKindValidation))
}

func TestBook_RejectsPastSlot(t *testing.T) {
	svc, _, _, _ := newTestScheduling()

	start := time.Now().Add(-2 * time.Hour)
	_, err := svc.Book(context.Background(), "p1", &types.AppointmentRequest{
		DoctorID: "d1",
		StartsAt: start,
		EndsAt:   start.Add(30 * time.Minute),
	})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.ErrorKindValidation))
}

func TestBook_RejectsUnapprovedDoctor(t *testing.T) {
	svc, _, accounts, _ := newTestScheduling()
	start, end := futureSlot()

	pending := approvedDoctor()
	pending.Status = types.StatusPending
	accounts.On("GetByID", mock.Anything, "d1").Return(pending, nil)

	_, err := svc.Book(context.Background(), "p1", &types.AppointmentRequest{
		DoctorID: "d1",
		StartsAt: start,
		EndsAt:   end,
	})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.ErrorKindValidation))
}

func TestBook_RejectsTakenSlot(t *testing.T) {
	svc, repo, accounts, _ := newTestScheduling()
	start, end := futureSlot()

	accounts.On("GetByID", mock.Anything, "d1").Return(approvedDoctor(), nil)
	repo.On("GetConflicting", mock.Anything, "d1", mock.Anything).
		Return([]*types.Appointment{{ID: "existing"}}, nil)

	_, err := svc.Book(context.Background(), "p1", &types.AppointmentRequest{
		DoctorID: "d1",
		StartsAt: start,
		EndsAt:   end,
	})
	require.Error(t, err)

	var he *types.HeavenError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, types.ErrCodeSlotTaken, he.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGet_AccessControl(t *testing.T) {
	apt := &types.Appointment{ID: "apt1", PatientID: "p1", DoctorID: "d1"}

	cases := []struct {
		name    string
		claims  *types.Claims
		allowed bool
	}{
		{"owning patient", &types.Claims{AccountID: "p1", Role: types.RolePatient}, true},
		{"other patient", &types.Claims{AccountID: "p2", Role: types.RolePatient}, false},
		{"assigned doctor", &types.Claims{AccountID: "d1", Role: types.RoleDoctor}, true},
		{"other doctor", &types.Claims{AccountID: "d2", Role: types.RoleDoctor}, false},
		{"admin", &types.Claims{AccountID: "a1", Role: types.RoleAdmin}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, _, _ := newTestScheduling()
			repo.On("GetByID", mock.Anything, "apt1").Return(apt, nil)

			_, err := svc.Get(context.Background(), "apt1", tc.claims)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, types.IsKind(err, types.ErrorKindForbidden))
			}
		})
	}
}

func TestListForAccount_RoutesByRole(t *testing.T) {
	svc, repo, _, _ := newTestScheduling()

	repo.On("ListByDoctor", mock.Anything, "d1").Return([]*types.Appointment{}, nil)
	repo.On("ListByPatient", mock.Anything, "p1").Return([]*types.Appointment{}, nil)

	_, err := svc.ListForAccount(context.Background(), &types.Claims{AccountID: "d1", Role: types.RoleDoctor})
	require.NoError(t, err)
	_, err = svc.ListForAccount(context.Background(), &types.Claims{AccountID: "p1", Role: types.RolePatient})
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestUpdateStatus_PatientCannotConfirm(t *testing.T) {
	svc, repo, _, _ := newTestScheduling()
	apt := &types.Appointment{ID: "apt1", PatientID: "p1", DoctorID: "d1", Status: types.AppointmentScheduled}

	repo.On("GetByID", mock.Anything, "apt1").Return(apt, nil)

	err := svc.UpdateStatus(context.Background(), "apt1", types.AppointmentConfirmed,
		&types.Claims{AccountID: "p1", Role: types.RolePatient})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.ErrorKindForbidden))
}

func TestUpdateStatus_CancelledIsFinal(t *testing.T) {
	svc, repo, _, _ := newTestScheduling()
	apt := &types.Appointment{ID: "apt1", PatientID: "p1", DoctorID: "d1", Status: types.AppointmentCancelled}

	repo.On("GetByID", mock.Anything, "apt1").Return(apt, nil)

	err := svc.UpdateStatus(context.Background(), "apt1", types.AppointmentConfirmed,
		&types.Claims{AccountID: "d1", Role: types.RoleDoctor})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.ErrorKindConflict))
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	svc, _, _, _ := newTestScheduling()

	err := svc.UpdateStatus(context.Background(), "apt1", types.AppointmentStatus("bogus"),
		&types.Claims{AccountID: "d1", Role: types.RoleDoctor})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.ErrorKindValidation))
}

func TestCancel_PatientCanCancelOwn(t *testing.T) {
	svc, repo, accounts, mailer := newTestScheduling()
	apt := &types.Appointment{ID: "apt1", PatientID: "p1", DoctorID: "d1", Status: types.AppointmentScheduled}

	repo.On("GetByID", mock.Anything, "apt1").Return(apt, nil)
	repo.On("UpdateStatus", mock.Anything, "apt1", types.AppointmentCancelled).Return(nil)
	accounts.On("GetByID", mock.Anything, mock.Anything).Return(approvedDoctor(), nil).Maybe()
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	err := svc.Cancel(context.Background(), "apt1", &types.Claims{AccountID: "p1", Role: types.RolePatient})
	assert.NoError(t, err)
}

func TestCancel_CompletedCannotBeCancelled(t *testing.T) {
	svc, repo, _, _ := newTestScheduling()
	apt := &types.Appointment{ID: "apt1", PatientID: "p1", DoctorID: "d1", Status: types.AppointmentCompleted}

	repo.On("GetByID", mock.Anything, "apt1").Return(apt, nil)

	err := svc.Cancel(context.Background(), "apt1", &types.Claims{AccountID: "p1", Role: types.RolePatient})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.ErrorKindConflict))
}
