package domain

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ReservationStatus represents the status of a table reservation
type ReservationStatus string

const (
	StatusLocked    ReservationStatus = "locked"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusExpired   ReservationStatus = "expired"
)

// Reservation represents a table reservation in the system
// Создается только в статусе locked (через LockTable) и живет по конечному автомату:
// locked → confirmed, locked → expired, locked → cancelled, confirmed → cancelled
type Reservation struct {
	ID              string // UUID, генерируется при создании блокировки
	TableID         int64
	CustomerID      string
	Date            time.Time // Дата бронирования (без времени)
	StartTime       types.TimeString
	DurationMinutes int
	Guests          int
	Status          ReservationStatus

	// LockExpiresAt задан только пока Status == locked
	LockExpiresAt *time.Time

	// Denormalized data for history
	TableNumber int

	SpecialRequests *string
	CancelledBy     *string
	ConfirmedAt     *time.Time
	CancelledAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLockExpired returns true if the reservation is a lock whose TTL has elapsed
// Граница включительно: lock_expires_at <= now считается истёкшим
func (r *Reservation) IsLockExpired(now time.Time) bool {
	if r.Status != StatusLocked || r.LockExpiresAt == nil {
		return false
	}
	return !r.LockExpiresAt.After(now)
}

// Blocks returns true if the reservation blocks its window at the given instant
// Подтвержденные бронирования блокируют всегда, блокировки - только до истечения TTL
// (lazy expiry: истекшая, но еще не обработанная reaper-ом блокировка не блокирует)
func (r *Reservation) Blocks(now time.Time) bool {
	switch r.Status {
	case StatusConfirmed:
		return true
	case StatusLocked:
		return !r.IsLockExpired(now)
	default:
		return false
	}
}

// CanBeCancelled returns true if the reservation can be cancelled
func (r *Reservation) CanBeCancelled() bool {
	return r.Status == StatusLocked || r.Status == StatusConfirmed
}

// IsTerminal returns true if the reservation is in a terminal state
func (r *Reservation) IsTerminal() bool {
	return r.Status == StatusCancelled || r.Status == StatusExpired
}

// Window returns the half-open reservation window [start, end) in minutes from midnight
func (r *Reservation) Window() Window {
	return NewWindow(r.StartTime, r.DurationMinutes)
}

// LockRemaining returns how long the lock is still valid
// Для не-locked статусов и истекших блокировок возвращает 0
func (r *Reservation) LockRemaining(now time.Time) time.Duration {
	if r.Status != StatusLocked || r.LockExpiresAt == nil {
		return 0
	}
	remaining := r.LockExpiresAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
