package find_available_tables

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса доступных столов
type Request struct {
	Date            time.Time        // Дата бронирования (без времени)
	StartTime       types.TimeString // Время начала окна
	DurationMinutes int
	Guests          int
}

// TableInfo информация о доступном столе
type TableInfo struct {
	ID       int64
	Number   int
	Capacity int
	Location string
}

// Response модель ответа со списком доступных столов
// Столы отсортированы по номеру
type Response struct {
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Guests          int
	Tables          []TableInfo
}
