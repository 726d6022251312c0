package cancel_reservation

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	cancelReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/cancel_reservation"
)

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID              string `json:"id"`
	TableID         int64  `json:"tableId"`
	TableNumber     int    `json:"tableNumber"`
	CustomerID      string `json:"customerId"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Guests          int    `json:"guests"`
	Status          string `json:"status"`
	CancelledBy     string `json:"cancelledBy"`
	CancelledAt     string `json:"cancelledAt"` // ISO 8601
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:              resp.ID,
		TableID:         resp.TableID,
		TableNumber:     resp.TableNumber,
		CustomerID:      resp.CustomerID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Guests:          resp.Guests,
		Status:          resp.Status,
		CancelledBy:     resp.CancelledBy,
		CancelledAt:     resp.CancelledAt.Format(time.RFC3339),
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
