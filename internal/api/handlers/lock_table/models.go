package lock_table

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	lockTable "github.com/m04kA/SMC-ReservationService/internal/usecase/lock_table"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// LockTableRequest HTTP request model
type LockTableRequest struct {
	TableID         int64  `json:"tableId"`
	Date            string `json:"date"`      // "2026-08-23"
	StartTime       string `json:"startTime"` // "18:00"
	DurationMinutes int    `json:"durationMinutes,omitempty"`
	Guests          int    `json:"guests"`
}

// LockResponse HTTP response model
type LockResponse struct {
	ID              string `json:"id"`
	TableID         int64  `json:"tableId"`
	TableNumber     int    `json:"tableNumber"`
	CustomerID      string `json:"customerId"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Guests          int    `json:"guests"`
	Status          string `json:"status"`
	LockExpiresAt   string `json:"lockExpiresAt"` // ISO 8601
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Длительность по умолчанию подставляется здесь, до валидации use case
func (r *LockTableRequest) ToUseCaseRequest(customerID string) (*lockTable.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	duration := r.DurationMinutes
	if duration == 0 {
		duration = domain.DefaultDurationMinutes
	}

	return &lockTable.Request{
		TableID:         r.TableID,
		CustomerID:      customerID,
		Date:            date,
		StartTime:       startTime,
		DurationMinutes: duration,
		Guests:          r.Guests,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *lockTable.Response) *LockResponse {
	return &LockResponse{
		ID:              resp.ID,
		TableID:         resp.TableID,
		TableNumber:     resp.TableNumber,
		CustomerID:      resp.CustomerID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Guests:          resp.Guests,
		Status:          resp.Status,
		LockExpiresAt:   resp.LockExpiresAt.Format(time.RFC3339),
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
