package lock_table

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на блокировку стола
type Request struct {
	TableID         int64
	CustomerID      string
	Date            time.Time        // Дата бронирования (без времени)
	StartTime       types.TimeString // Время начала окна (например, "18:00")
	DurationMinutes int
	Guests          int
}

// Response модель ответа с созданной блокировкой
// LockExpiresAt позволяет клиенту показать обратный отсчет до истечения
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
	LockExpiresAt   time.Time
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
	if res.LockExpiresAt != nil {
		resp.LockExpiresAt = *res.LockExpiresAt
	}
	return resp
}
