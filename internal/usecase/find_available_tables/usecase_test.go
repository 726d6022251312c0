package find_available_tables

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

var testNow = time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

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

type fakeReservationRepo struct {
	blocking []*domain.Reservation
}

func (f *fakeReservationRepo) GetBlockingByDate(_ context.Context, _ time.Time, _ time.Time) ([]*domain.Reservation, error) {
	return f.blocking, nil
}

type fakeTableRepo struct {
	tables []*domain.Table
}

func (f *fakeTableRepo) ListByMinCapacity(_ context.Context, capacity int) ([]*domain.Table, error) {
	// Репозиторий отдает только активные столы с достаточной вместимостью
	result := make([]*domain.Table, 0, len(f.tables))
	for _, t := range f.tables {
		if t.IsActive && t.Capacity >= capacity {
			result = append(result, t)
		}
	}
	return result, nil
}

func newTestUseCase(resRepo *fakeReservationRepo, tblRepo *fakeTableRepo) *UseCase {
	uc := NewUseCase(resRepo, tblRepo, nopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: testNow}
	return uc
}

func threeTables() []*domain.Table {
	return []*domain.Table{
		{ID: 1, Number: 1, Capacity: 2, IsActive: true},
		{ID: 2, Number: 2, Capacity: 4, IsActive: true},
		{ID: 3, Number: 3, Capacity: 6, IsActive: true},
	}
}

func validRequest() *Request {
	return &Request{
		Date:            time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		StartTime:       "18:00",
		DurationMinutes: 90,
		Guests:          2,
	}
}

func blocking(tableID int64, status domain.ReservationStatus, start string, duration int, expiresAt *time.Time) *domain.Reservation {
	return &domain.Reservation{
		ID:              "res-" + start,
		TableID:         tableID,
		Status:          status,
		StartTime:       types.TimeString(start),
		DurationMinutes: duration,
		LockExpiresAt:   expiresAt,
	}
}

func TestUseCase_Execute_AllTablesFree(t *testing.T) {
	uc := newTestUseCase(&fakeReservationRepo{}, &fakeTableRepo{tables: threeTables()})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, resp.Tables, 3)
	// Порядок по номеру стола
	assert.Equal(t, 1, resp.Tables[0].Number)
	assert.Equal(t, 2, resp.Tables[1].Number)
	assert.Equal(t, 3, resp.Tables[2].Number)
}

func TestUseCase_Execute_OverlappingReservationHidesTable(t *testing.T) {
	expiresAt := testNow.Add(3 * time.Minute)
	repo := &fakeReservationRepo{blocking: []*domain.Reservation{
		blocking(2, domain.StatusConfirmed, "18:30", 60, nil),
		blocking(3, domain.StatusLocked, "17:00", 90, &expiresAt),
	}}
	uc := newTestUseCase(repo, &fakeTableRepo{tables: threeTables()})

	resp, err := uc.Execute(context.Background(), validRequest()) // окно 18:00-19:30
	require.NoError(t, err)

	// Стол 2 занят confirmed (18:30-19:30 пересекается), стол 3 заблокирован
	// активной блокировкой (17:00-18:30 пересекается)
	require.Len(t, resp.Tables, 1)
	assert.Equal(t, 1, resp.Tables[0].Number)
}

func TestUseCase_Execute_BackToBackWindowsDoNotConflict(t *testing.T) {
	repo := &fakeReservationRepo{blocking: []*domain.Reservation{
		blocking(1, domain.StatusConfirmed, "16:30", 90, nil), // 16:30-18:00
		blocking(2, domain.StatusConfirmed, "19:30", 60, nil), // 19:30-20:30
	}}
	uc := newTestUseCase(repo, &fakeTableRepo{tables: threeTables()})

	resp, err := uc.Execute(context.Background(), validRequest()) // 18:00-19:30
	require.NoError(t, err)

	// Смежные окна не пересекаются: оба стола доступны
	assert.Len(t, resp.Tables, 3)
}

func TestUseCase_Execute_StaleLockDoesNotBlock(t *testing.T) {
	// Блокировка истекла минуту назад, reaper ее еще не обработал -
	// стол все равно должен быть доступен
	expiredAt := testNow.Add(-time.Minute)
	repo := &fakeReservationRepo{blocking: []*domain.Reservation{
		blocking(2, domain.StatusLocked, "18:00", 90, &expiredAt),
	}}
	uc := newTestUseCase(repo, &fakeTableRepo{tables: threeTables()})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Len(t, resp.Tables, 3)
}

func TestUseCase_Execute_NoTableFitsPartySize(t *testing.T) {
	uc := newTestUseCase(&fakeReservationRepo{}, &fakeTableRepo{tables: threeTables()})

	req := validRequest()
	req.Guests = 10 // больше вместимости любого стола

	// Пустой список, не ошибка
	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.Tables)
}

func TestUseCase_Execute_Validation(t *testing.T) {
	uc := newTestUseCase(&fakeReservationRepo{}, &fakeTableRepo{tables: threeTables()})

	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{"zero guests", func(r *Request) { r.Guests = 0 }, ErrInvalidInput},
		{"zero duration", func(r *Request) { r.DurationMinutes = 0 }, ErrInvalidInput},
		{"duration below minimum", func(r *Request) { r.DurationMinutes = domain.MinDurationMinutes - 1 }, ErrInvalidInput},
		{"duration above maximum", func(r *Request) { r.DurationMinutes = domain.MaxDurationMinutes + 1 }, ErrInvalidInput},
		{"zero date", func(r *Request) { r.Date = time.Time{} }, ErrInvalidInput},
		{"bad time", func(r *Request) { r.StartTime = "99:99" }, ErrInvalidInput},
		{"past date", func(r *Request) { r.Date = testNow.AddDate(0, 0, -1) }, ErrWindowInPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
