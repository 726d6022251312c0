package tables

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	tableRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/table"
	"github.com/m04kA/SMC-ReservationService/internal/service/tables/models"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
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

type fakeTableRepo struct {
	table     *domain.Table
	getErr    error
	createErr error
	updateErr error
	deleteErr error

	created *domain.Table
	updated *domain.Table
	deleted []int64
}

func (f *fakeTableRepo) GetByID(_ context.Context, _ int64) (*domain.Table, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	res := *f.table
	return &res, nil
}

func (f *fakeTableRepo) List(_ context.Context) ([]*domain.Table, error) {
	return []*domain.Table{f.table}, nil
}

func (f *fakeTableRepo) Create(_ context.Context, table *domain.Table) (*domain.Table, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *table
	created.ID = 1
	f.created = &created
	return &created, nil
}

func (f *fakeTableRepo) Update(_ context.Context, table *domain.Table) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = table
	return nil
}

func (f *fakeTableRepo) Delete(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeReservationRepo struct {
	blocking []*domain.Reservation
	history  []*domain.Reservation
}

func (f *fakeReservationRepo) GetBlockingByTableAndDate(_ context.Context, _ int64, _ time.Time, _ time.Time) ([]*domain.Reservation, error) {
	return f.blocking, nil
}

func (f *fakeReservationRepo) CountActiveByTableID(_ context.Context, _ int64, now time.Time) (int, error) {
	count := 0
	for _, r := range f.history {
		if r.Blocks(now) {
			count++
		}
	}
	return count, nil
}

func newTestService(tables *fakeTableRepo, reservations *fakeReservationRepo) *Service {
	svc := NewService(tables, reservations, nopLogger{})
	svc.timeProvider = &fakeTimeProvider{now: testNow}
	return svc
}

func windowTable() *domain.Table {
	return &domain.Table{
		ID:       1,
		Number:   5,
		Capacity: 4,
		Location: "у окна",
		IsActive: true,
	}
}

func TestService_Create(t *testing.T) {
	t.Run("active by default", func(t *testing.T) {
		repo := &fakeTableRepo{}
		svc := newTestService(repo, &fakeReservationRepo{})

		resp, err := svc.Create(context.Background(), &models.CreateTableRequest{
			Number:   5,
			Capacity: 4,
			Location: "у окна",
		})
		require.NoError(t, err)

		assert.True(t, resp.IsActive)
		assert.Equal(t, int64(1), resp.ID)
	})

	t.Run("duplicate number", func(t *testing.T) {
		repo := &fakeTableRepo{createErr: tableRepo.ErrDuplicateNumber}
		svc := newTestService(repo, &fakeReservationRepo{})

		_, err := svc.Create(context.Background(), &models.CreateTableRequest{
			Number:   5,
			Capacity: 4,
		})
		assert.ErrorIs(t, err, ErrDuplicateNumber)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			req  models.CreateTableRequest
		}{
			{"zero number", models.CreateTableRequest{Number: 0, Capacity: 4}},
			{"zero capacity", models.CreateTableRequest{Number: 5, Capacity: 0}},
			{"capacity over limit", models.CreateTableRequest{Number: 5, Capacity: domain.MaxTableCapacity + 1}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := newTestService(&fakeTableRepo{}, &fakeReservationRepo{})
				_, err := svc.Create(context.Background(), &tt.req)
				assert.ErrorIs(t, err, ErrInvalidInput)
			})
		}
	})
}

func TestService_Update_PartialFields(t *testing.T) {
	repo := &fakeTableRepo{table: windowTable()}
	svc := newTestService(repo, &fakeReservationRepo{})

	resp, err := svc.Update(context.Background(), 1, &models.UpdateTableRequest{
		Capacity: ptr.Ptr(6),
	})
	require.NoError(t, err)

	// Неуказанные поля сохраняют текущие значения
	assert.Equal(t, 5, resp.Number)
	assert.Equal(t, 6, resp.Capacity)
	assert.Equal(t, "у окна", resp.Location)
	assert.True(t, resp.IsActive)
}

func TestService_Update_MergedFieldsValidated(t *testing.T) {
	repo := &fakeTableRepo{table: windowTable()}
	svc := newTestService(repo, &fakeReservationRepo{})

	_, err := svc.Update(context.Background(), 1, &models.UpdateTableRequest{
		Capacity: ptr.Ptr(0),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, repo.updated)
}

func TestService_Update_NotFound(t *testing.T) {
	repo := &fakeTableRepo{getErr: tableRepo.ErrTableNotFound}
	svc := newTestService(repo, &fakeReservationRepo{})

	_, err := svc.Update(context.Background(), 99, &models.UpdateTableRequest{})
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestService_Delete(t *testing.T) {
	t.Run("deletes free table", func(t *testing.T) {
		repo := &fakeTableRepo{table: windowTable()}
		svc := newTestService(repo, &fakeReservationRepo{})

		err := svc.Delete(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, repo.deleted)
	})

	t.Run("blocked by active reservations", func(t *testing.T) {
		expiresAt := testNow.Add(3 * time.Minute)
		repo := &fakeTableRepo{table: windowTable()}
		svc := newTestService(repo, &fakeReservationRepo{history: []*domain.Reservation{
			{ID: "res-1", TableID: 1, Status: domain.StatusConfirmed},
			{ID: "res-2", TableID: 1, Status: domain.StatusLocked, LockExpiresAt: &expiresAt},
		}})

		err := svc.Delete(context.Background(), 1)
		assert.ErrorIs(t, err, ErrTableHasActiveReservations)
		assert.Empty(t, repo.deleted)
	})

	t.Run("finished reservations do not block delete", func(t *testing.T) {
		// История хранится бессрочно: стол с отмененными и истекшими
		// бронированиями удаляется без ошибки
		staleExpiry := testNow.Add(-time.Minute)
		repo := &fakeTableRepo{table: windowTable()}
		svc := newTestService(repo, &fakeReservationRepo{history: []*domain.Reservation{
			{ID: "res-1", TableID: 1, Status: domain.StatusCancelled},
			{ID: "res-2", TableID: 1, Status: domain.StatusExpired},
			{ID: "res-3", TableID: 1, Status: domain.StatusLocked, LockExpiresAt: &staleExpiry},
		}})

		err := svc.Delete(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, repo.deleted)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &fakeTableRepo{deleteErr: tableRepo.ErrTableNotFound}
		svc := newTestService(repo, &fakeReservationRepo{})

		err := svc.Delete(context.Background(), 99)
		assert.ErrorIs(t, err, ErrTableNotFound)
	})
}

func TestService_GetSchedule(t *testing.T) {
	expiresAt := testNow.Add(3 * time.Minute)
	repo := &fakeTableRepo{table: windowTable()}
	reservations := &fakeReservationRepo{blocking: []*domain.Reservation{
		{
			ID:              "res-1",
			TableID:         1,
			StartTime:       "18:00",
			DurationMinutes: 90,
			Status:          domain.StatusConfirmed,
			Guests:          2,
		},
		{
			ID:              "res-2",
			TableID:         1,
			StartTime:       "20:00",
			DurationMinutes: 60,
			Status:          domain.StatusLocked,
			LockExpiresAt:   &expiresAt,
			Guests:          4,
		},
	}}
	svc := newTestService(repo, reservations)

	resp, err := svc.GetSchedule(context.Background(), 1, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.TableID)
	assert.Equal(t, "2026-08-24", resp.Date)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, "19:30", resp.Slots[0].EndTime)
	assert.Equal(t, "21:00", resp.Slots[1].EndTime)
}
