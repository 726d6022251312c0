package cancel_reservation

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на отмену бронирования
// IsStaff выставляется из роли вызывающего: персонал может отменять чужие
// бронирования, клиент - только свои
type Request struct {
	ReservationID string
	CustomerID    string
	IsStaff       bool
}

// Response модель ответа с отмененным бронированием
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
	CancelledBy     string
	CancelledAt     time.Time
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
		CreatedAt:       res.CreatedAt,
		UpdatedAt:       res.UpdatedAt,
	}
	if res.CancelledBy != nil {
		resp.CancelledBy = *res.CancelledBy
	}
	if res.CancelledAt != nil {
		resp.CancelledAt = *res.CancelledAt
	}
	return resp
}
