package confirm_reservation

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	confirmReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/confirm_reservation"
)

// ConfirmReservationRequest HTTP request model
// Тело опционально: подтверждение без пожеланий - пустой объект
type ConfirmReservationRequest struct {
	SpecialRequests *string `json:"specialRequests,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID              string  `json:"id"`
	TableID         int64   `json:"tableId"`
	TableNumber     int     `json:"tableNumber"`
	CustomerID      string  `json:"customerId"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Guests          int     `json:"guests"`
	Status          string  `json:"status"`
	SpecialRequests *string `json:"specialRequests,omitempty"`
	ConfirmedAt     string  `json:"confirmedAt"` // ISO 8601
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *confirmReservation.Response) *ReservationResponse {
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
		SpecialRequests: resp.SpecialRequests,
		ConfirmedAt:     resp.ConfirmedAt.Format(time.RFC3339),
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
