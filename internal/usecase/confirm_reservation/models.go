package confirm_reservation

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на подтверждение бронирования
type Request struct {
	ReservationID   string
	CustomerID      string
	SpecialRequests *string // Опциональные пожелания, фиксируются при подтверждении
}

// Response модель ответа с подтвержденным бронированием
type Response struct {
	ID              string
	TableID         int64
	TableNumber     int
	CustomerID      string
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Guests          int
	Status          string
	SpecialRequests *string
	ConfirmedAt     time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// toResponse конвертирует доменное бронирование в ответ usecase
func toResponse(res *domain.Reservation) *Response {
	resp := &Response{
		ID:              res.ID,
		TableID:         res.TableID,
		TableNumber:     res.TableNumber,
		CustomerID:      res.CustomerID,
		Date:            res.Date,
		StartTime:       res.StartTime,
		DurationMinutes: res.DurationMinutes,
		Guests:          res.Guests,
		Status:          string(res.Status),
		SpecialRequests: res.SpecialRequests,
		CreatedAt:       res.CreatedAt,
		UpdatedAt:       res.UpdatedAt,
	}
	if res.ConfirmedAt != nil {
		resp.ConfirmedAt = *res.ConfirmedAt
	}
	return resp
}
