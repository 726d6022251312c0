package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")
)

// Request модели

// GetCustomerReservationsRequest запрос на получение бронирований клиента
type GetCustomerReservationsRequest struct {
	CustomerID string  `json:"customerId"`
	Status     *string `json:"status,omitempty"` // Фильтр по статусу (опционально)
}

// Response модели

// ReservationResponse ответ с данными бронирования
// Статус отдается с учетом lazy expiry: блокировка с истекшим TTL
// показывается как expired, даже если reaper еще не записал это в хранилище
type ReservationResponse struct {
	ID              string `json:"id"`
	TableID         int64  `json:"tableId"`
	TableNumber     int    `json:"tableNumber"`
	CustomerID      string `json:"customerId"`
	Date            string `json:"date"`      // "2026-08-23"
	StartTime       string `json:"startTime"` // "18:00"
	DurationMinutes int    `json:"durationMinutes"`
	Guests          int    `json:"guests"`
	Status          string `json:"status"`

	LockExpiresAt   *string `json:"lockExpiresAt,omitempty"` // ISO 8601, только для locked
	SpecialRequests *string `json:"specialRequests,omitempty"`
	CancelledBy     *string `json:"cancelledBy,omitempty"`
	ConfirmedAt     *string `json:"confirmedAt,omitempty"` // ISO 8601
	CancelledAt     *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// ReservationStatusResponse компактный ответ о статусе бронирования
// Для locked включает оставшееся время жизни блокировки в секундах
type ReservationStatusResponse struct {
	ID                   string `json:"id"`
	Status               string `json:"status"`
	LockRemainingSeconds *int64 `json:"lockRemainingSeconds,omitempty"`
}

// Методы конвертации

// effectiveStatus возвращает статус с учетом lazy expiry
func effectiveStatus(r *domain.Reservation, now time.Time) domain.ReservationStatus {
	if r.IsLockExpired(now) {
		return domain.StatusExpired
	}
	return r.Status
}

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation, now time.Time) *ReservationResponse {
	if r == nil {
		return nil
	}

	status := effectiveStatus(r, now)

	resp := &ReservationResponse{
		ID:              r.ID,
		TableID:         r.TableID,
		TableNumber:     r.TableNumber,
		CustomerID:      r.CustomerID,
		Date:            r.Date.Format(domain.DateFormat),
		StartTime:       r.StartTime.String(),
		DurationMinutes: r.DurationMinutes,
		Guests:          r.Guests,
		Status:          string(status),
		SpecialRequests: r.SpecialRequests,
		CancelledBy:     r.CancelledBy,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}

	if status == domain.StatusLocked && r.LockExpiresAt != nil {
		formatted := r.LockExpiresAt.Format(time.RFC3339)
		resp.LockExpiresAt = &formatted
	}
	if r.ConfirmedAt != nil {
		formatted := r.ConfirmedAt.Format(time.RFC3339)
		resp.ConfirmedAt = &formatted
	}
	if r.CancelledAt != nil {
		formatted := r.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &formatted
	}

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation, now time.Time) *ReservationListResponse {
	result := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
	}
	for _, r := range reservations {
		result.Reservations = append(result.Reservations, *FromDomainReservation(r, now))
	}
	return result
}

// FromDomainReservationStatus конвертирует domain модель в компактный статусный DTO
func FromDomainReservationStatus(r *domain.Reservation, now time.Time) *ReservationStatusResponse {
	if r == nil {
		return nil
	}

	status := effectiveStatus(r, now)

	resp := &ReservationStatusResponse{
		ID:     r.ID,
		Status: string(status),
	}

	if status == domain.StatusLocked {
		remaining := int64(r.LockRemaining(now).Seconds())
		resp.LockRemainingSeconds = &remaining
	}

	return resp
}

// ToDomainReservationStatus валидирует и конвертирует строковый статус
func ToDomainReservationStatus(status string) (domain.ReservationStatus, error) {
	switch domain.ReservationStatus(status) {
	case domain.StatusLocked, domain.StatusConfirmed, domain.StatusCancelled, domain.StatusExpired:
		return domain.ReservationStatus(status), nil
	default:
		return "", ErrInvalidStatus
	}
}
