package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

func lockedReservation(expiresAt time.Time) *Reservation {
	return &Reservation{
		ID:            "res-1",
		Status:        StatusLocked,
		LockExpiresAt: &expiresAt,
	}
}

func TestReservation_IsLockExpired(t *testing.T) {
	t.Run("lock with future expiry is not expired", func(t *testing.T) {
		r := lockedReservation(testNow.Add(3 * time.Minute))
		assert.False(t, r.IsLockExpired(testNow))
	})

	t.Run("lock expired in the past", func(t *testing.T) {
		r := lockedReservation(testNow.Add(-time.Second))
		assert.True(t, r.IsLockExpired(testNow))
	})

	t.Run("expiry boundary counts as expired", func(t *testing.T) {
		r := lockedReservation(testNow)
		assert.True(t, r.IsLockExpired(testNow))
	})

	t.Run("confirmed reservation never expires", func(t *testing.T) {
		past := testNow.Add(-time.Hour)
		r := &Reservation{Status: StatusConfirmed, LockExpiresAt: &past}
		assert.False(t, r.IsLockExpired(testNow))
	})
}

func TestReservation_Blocks(t *testing.T) {
	t.Run("active lock blocks", func(t *testing.T) {
		r := lockedReservation(testNow.Add(time.Minute))
		assert.True(t, r.Blocks(testNow))
	})

	t.Run("stale lock does not block before reaper runs", func(t *testing.T) {
		r := lockedReservation(testNow.Add(-time.Minute))
		assert.False(t, r.Blocks(testNow))
	})

	t.Run("confirmed always blocks", func(t *testing.T) {
		r := &Reservation{Status: StatusConfirmed}
		assert.True(t, r.Blocks(testNow))
	})

	t.Run("cancelled and expired never block", func(t *testing.T) {
		assert.False(t, (&Reservation{Status: StatusCancelled}).Blocks(testNow))
		assert.False(t, (&Reservation{Status: StatusExpired}).Blocks(testNow))
	})
}

func TestReservation_CanBeCancelled(t *testing.T) {
	assert.True(t, (&Reservation{Status: StatusLocked}).CanBeCancelled())
	assert.True(t, (&Reservation{Status: StatusConfirmed}).CanBeCancelled())
	assert.False(t, (&Reservation{Status: StatusCancelled}).CanBeCancelled())
	assert.False(t, (&Reservation{Status: StatusExpired}).CanBeCancelled())
}

func TestReservation_LockRemaining(t *testing.T) {
	t.Run("remaining time for active lock", func(t *testing.T) {
		r := lockedReservation(testNow.Add(3 * time.Minute))
		assert.Equal(t, 3*time.Minute, r.LockRemaining(testNow))
	})

	t.Run("expired lock has zero remaining", func(t *testing.T) {
		r := lockedReservation(testNow.Add(-time.Minute))
		assert.Equal(t, time.Duration(0), r.LockRemaining(testNow))
	})

	t.Run("non-locked status has zero remaining", func(t *testing.T) {
		r := &Reservation{Status: StatusConfirmed}
		assert.Equal(t, time.Duration(0), r.LockRemaining(testNow))
	})
}

func TestReservation_Window(t *testing.T) {
	r := &Reservation{StartTime: "18:00", DurationMinutes: 90}
	assert.Equal(t, Window{StartMinutes: 1080, EndMinutes: 1170}, r.Window())
}

func TestTable_CanSeat(t *testing.T) {
	table := &Table{Capacity: 4, IsActive: true}
	assert.True(t, table.CanSeat(4))
	assert.True(t, table.CanSeat(2))
	assert.False(t, table.CanSeat(5))

	inactive := &Table{Capacity: 4, IsActive: false}
	assert.False(t, inactive.CanSeat(2))
}
