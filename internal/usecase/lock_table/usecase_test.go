package lock_table

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	tableRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/table"
)

var testNow = time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

// Фейки

type fakeTimeProvider struct {
	now time.Time
}

func (p *fakeTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeReservationRepo struct {
	existing     *domain.Reservation
	createErr    error
	created      *domain.Reservation
	createCalled bool
}

func (f *fakeReservationRepo) FindActiveLock(_ context.Context, _ string, _ int64, _ time.Time, _ domain.Window, _ time.Time) (*domain.Reservation, error) {
	if f.existing == nil {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return f.existing, nil
}

func (f *fakeReservationRepo) CreateLocked(_ context.Context, res *domain.Reservation, _ time.Time) (*domain.Reservation, error) {
	f.createCalled = true
	if f.createErr != nil {
		return nil, f.createErr
	}
	res.CreatedAt = testNow
	res.UpdatedAt = testNow
	f.created = res
	return res, nil
}

type fakeTableRepo struct {
	table *domain.Table
	err   error
}

func (f *fakeTableRepo) GetByID(_ context.Context, _ int64) (*domain.Table, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.table, nil
}

func newTestUseCase(resRepo *fakeReservationRepo, tblRepo *fakeTableRepo) *UseCase {
	uc := NewUseCase(resRepo, tblRepo, fakeTxManager{}, nopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: testNow}
	return uc
}

func validRequest() *Request {
	return &Request{
		TableID:         1,
		CustomerID:      "customer-1",
		Date:            time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		StartTime:       "18:00",
		DurationMinutes: 90,
		Guests:          2,
	}
}

func activeTable() *domain.Table {
	return &domain.Table{ID: 1, Number: 5, Capacity: 4, IsActive: true}
}

func TestUseCase_Execute_AcquiresLockWithTTL(t *testing.T) {
	resRepo := &fakeReservationRepo{}
	uc := newTestUseCase(resRepo, &fakeTableRepo{table: activeTable()})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, string(domain.StatusLocked), resp.Status)
	assert.Equal(t, int64(1), resp.TableID)
	assert.Equal(t, 5, resp.TableNumber)
	// TTL блокировки ровно 5 минут от текущего момента
	assert.Equal(t, testNow.Add(5*time.Minute), resp.LockExpiresAt)
}

func TestUseCase_Execute_ValidationErrors(t *testing.T) {
	uc := newTestUseCase(&fakeReservationRepo{}, &fakeTableRepo{table: activeTable()})

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero table id", func(r *Request) { r.TableID = 0 }},
		{"empty customer", func(r *Request) { r.CustomerID = "" }},
		{"zero guests", func(r *Request) { r.Guests = 0 }},
		{"negative guests", func(r *Request) { r.Guests = -1 }},
		{"zero duration", func(r *Request) { r.DurationMinutes = 0 }},
		{"duration below minimum", func(r *Request) { r.DurationMinutes = domain.MinDurationMinutes - 1 }},
		{"duration above maximum", func(r *Request) { r.DurationMinutes = domain.MaxDurationMinutes + 1 }},
		{"zero date", func(r *Request) { r.Date = time.Time{} }},
		{"empty start time", func(r *Request) { r.StartTime = "" }},
		{"malformed start time", func(r *Request) { r.StartTime = "25:99" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUseCase_Execute_WindowInPast(t *testing.T) {
	uc := newTestUseCase(&fakeReservationRepo{}, &fakeTableRepo{table: activeTable()})

	t.Run("yesterday", func(t *testing.T) {
		req := validRequest()
		req.Date = testNow.AddDate(0, 0, -1)

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrWindowInPast)
	})

	t.Run("earlier today", func(t *testing.T) {
		req := validRequest()
		req.Date = testNow
		req.StartTime = "09:00" // testNow = 12:00

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrWindowInPast)
	})

	t.Run("later today is fine", func(t *testing.T) {
		req := validRequest()
		req.Date = testNow
		req.StartTime = "18:00"

		_, err := uc.Execute(context.Background(), req)
		assert.NoError(t, err)
	})
}

func TestUseCase_Execute_TableChecks(t *testing.T) {
	t.Run("table not found", func(t *testing.T) {
		uc := newTestUseCase(&fakeReservationRepo{}, &fakeTableRepo{err: tableRepo.ErrTableNotFound})

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrTableNotFound)
	})

	t.Run("inactive table", func(t *testing.T) {
		table := activeTable()
		table.IsActive = false
		uc := newTestUseCase(&fakeReservationRepo{}, &fakeTableRepo{table: table})

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrTableNotAvailable)
	})

	t.Run("capacity exceeded", func(t *testing.T) {
		uc := newTestUseCase(&fakeReservationRepo{}, &fakeTableRepo{table: activeTable()})

		req := validRequest()
		req.Guests = 5 // вместимость 4

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrCapacityExceeded)
	})
}

func TestUseCase_Execute_WindowConflict(t *testing.T) {
	resRepo := &fakeReservationRepo{createErr: reservationRepo.ErrWindowConflict}
	uc := newTestUseCase(resRepo, &fakeTableRepo{table: activeTable()})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrWindowConflict)
}

func TestUseCase_Execute_IdempotentRelock(t *testing.T) {
	// Повторный запрос того же клиента на идентичное окно возвращает
	// существующую блокировку вместо конфликта
	expiresAt := testNow.Add(3 * time.Minute)
	existing := &domain.Reservation{
		ID:              "existing-lock",
		TableID:         1,
		CustomerID:      "customer-1",
		Date:            time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		StartTime:       "18:00",
		DurationMinutes: 90,
		Guests:          2,
		Status:          domain.StatusLocked,
		LockExpiresAt:   &expiresAt,
		TableNumber:     5,
	}

	resRepo := &fakeReservationRepo{existing: existing}
	uc := newTestUseCase(resRepo, &fakeTableRepo{table: activeTable()})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "existing-lock", resp.ID)
	assert.Equal(t, expiresAt, resp.LockExpiresAt)
	assert.False(t, resRepo.createCalled, "must not create a second lock")
}

func TestUseCase_Execute_InternalError(t *testing.T) {
	resRepo := &fakeReservationRepo{createErr: errors.New("connection refused")}
	uc := newTestUseCase(resRepo, &fakeTableRepo{table: activeTable()})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInternal)
}
