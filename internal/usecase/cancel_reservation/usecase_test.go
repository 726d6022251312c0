package cancel_reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/notifyqueue"
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
	reservation *domain.Reservation
	getErr      error
	cancelErr   error
}

func (f *fakeReservationRepo) GetByID(_ context.Context, _ string) (*domain.Reservation, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	res := *f.reservation
	return &res, nil
}

func (f *fakeReservationRepo) CancelActive(_ context.Context, _ string, cancelledBy string, now time.Time) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.reservation.Status = domain.StatusCancelled
	f.reservation.LockExpiresAt = nil
	f.reservation.CancelledBy = &cancelledBy
	f.reservation.CancelledAt = &now
	return nil
}

type fakePublisher struct {
	cancelled []notifyqueue.ReservationCancelledEvent
}

func (f *fakePublisher) PublishCancelled(_ context.Context, event notifyqueue.ReservationCancelledEvent) error {
	f.cancelled = append(f.cancelled, event)
	return nil
}

func newTestUseCase(repo *fakeReservationRepo, publisher *fakePublisher) *UseCase {
	uc := NewUseCase(repo, publisher, nopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: testNow}
	return uc
}

func confirmedReservation() *domain.Reservation {
	confirmedAt := testNow.Add(-time.Hour)
	return &domain.Reservation{
		ID:              "res-1",
		TableID:         1,
		TableNumber:     5,
		CustomerID:      "customer-1",
		Date:            time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		StartTime:       "18:00",
		DurationMinutes: 90,
		Guests:          2,
		Status:          domain.StatusConfirmed,
		ConfirmedAt:     &confirmedAt,
	}
}

func lockedReservation() *domain.Reservation {
	res := confirmedReservation()
	expiresAt := testNow.Add(3 * time.Minute)
	res.Status = domain.StatusLocked
	res.ConfirmedAt = nil
	res.LockExpiresAt = &expiresAt
	return res
}

func TestUseCase_Execute_CustomerCancelsOwnReservation(t *testing.T) {
	repo := &fakeReservationRepo{reservation: confirmedReservation()}
	publisher := &fakePublisher{}
	uc := newTestUseCase(repo, publisher)

	resp, err := uc.Execute(context.Background(), &Request{
		ReservationID: "res-1",
		CustomerID:    "customer-1",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, domain.CancelledByCustomer, resp.CancelledBy)
	assert.Equal(t, testNow, resp.CancelledAt)

	require.Len(t, publisher.cancelled, 1)
	assert.True(t, publisher.cancelled[0].WasConfirmed)
	assert.Equal(t, domain.CancelledByCustomer, publisher.cancelled[0].CancelledBy)
}

func TestUseCase_Execute_CustomerCancelsOwnLock(t *testing.T) {
	repo := &fakeReservationRepo{reservation: lockedReservation()}
	publisher := &fakePublisher{}
	uc := newTestUseCase(repo, publisher)

	resp, err := uc.Execute(context.Background(), &Request{
		ReservationID: "res-1",
		CustomerID:    "customer-1",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.Len(t, publisher.cancelled, 1)
	assert.False(t, publisher.cancelled[0].WasConfirmed)
}

func TestUseCase_Execute_StaffCancelsForeignReservation(t *testing.T) {
	repo := &fakeReservationRepo{reservation: confirmedReservation()}
	uc := newTestUseCase(repo, &fakePublisher{})

	resp, err := uc.Execute(context.Background(), &Request{
		ReservationID: "res-1",
		CustomerID:    "staff-9",
		IsStaff:       true,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.CancelledByStaff, resp.CancelledBy)
}

func TestUseCase_Execute_ForeignReservationDenied(t *testing.T) {
	repo := &fakeReservationRepo{reservation: confirmedReservation()}
	uc := newTestUseCase(repo, &fakePublisher{})

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: "res-1",
		CustomerID:    "someone-else",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUseCase_Execute_NotFound(t *testing.T) {
	repo := &fakeReservationRepo{getErr: reservationRepo.ErrReservationNotFound}
	uc := newTestUseCase(repo, &fakePublisher{})

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: "missing",
		CustomerID:    "customer-1",
	})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestUseCase_Execute_RepeatedCancelFails(t *testing.T) {
	res := confirmedReservation()
	res.Status = domain.StatusCancelled

	repo := &fakeReservationRepo{
		reservation: res,
		cancelErr:   reservationRepo.ErrNotCancellable,
	}
	uc := newTestUseCase(repo, &fakePublisher{})

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: "res-1",
		CustomerID:    "customer-1",
	})
	assert.ErrorIs(t, err, ErrAlreadyFinished)
}

func TestUseCase_Execute_ExpiredLockCannotBeCancelled(t *testing.T) {
	res := confirmedReservation()
	res.Status = domain.StatusExpired

	repo := &fakeReservationRepo{
		reservation: res,
		cancelErr:   reservationRepo.ErrNotCancellable,
	}
	uc := newTestUseCase(repo, &fakePublisher{})

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: "res-1",
		CustomerID:    "customer-1",
	})
	assert.ErrorIs(t, err, ErrAlreadyFinished)
}
