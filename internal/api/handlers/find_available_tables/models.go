package find_available_tables

import (
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	findAvailableTables "github.com/m04kA/SMC-ReservationService/internal/usecase/find_available_tables"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// AvailableTableResponse доступный стол в HTTP ответе
type AvailableTableResponse struct {
	ID       int64  `json:"id"`
	Number   int    `json:"number"`
	Capacity int    `json:"capacity"`
	Location string `json:"location"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date            string                   `json:"date"`
	StartTime       string                   `json:"startTime"`
	DurationMinutes int                      `json:"durationMinutes"`
	Guests          int                      `json:"guests"`
	Tables          []AvailableTableResponse `json:"tables"`
}

// ParseQuery разбирает query-параметры в модель use case
// duration опционален, по умолчанию стандартная длительность визита
func ParseQuery(query url.Values) (*findAvailableTables.Request, error) {
	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(query.Get("time"))
	if err != nil {
		return nil, err
	}

	guests, err := strconv.Atoi(query.Get("guests"))
	if err != nil {
		return nil, err
	}

	duration := domain.DefaultDurationMinutes
	if raw := query.Get("duration"); raw != "" {
		duration, err = strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
	}

	return &findAvailableTables.Request{
		Date:            date,
		StartTime:       startTime,
		DurationMinutes: duration,
		Guests:          guests,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *findAvailableTables.Response) *AvailabilityResponse {
	tables := make([]AvailableTableResponse, 0, len(resp.Tables))
	for _, t := range resp.Tables {
		tables = append(tables, AvailableTableResponse{
			ID:       t.ID,
			Number:   t.Number,
			Capacity: t.Capacity,
			Location: t.Location,
		})
	}
	return &AvailabilityResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Guests:          resp.Guests,
		Tables:          tables,
	}
}
