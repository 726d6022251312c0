package notifyqueue

// ReservationConfirmedEvent событие подтверждения бронирования
// Публикуется для сервиса уведомлений; доставка - не забота ядра
type ReservationConfirmedEvent struct {
	ReservationID   string  `json:"reservation_id"`
	CustomerID      string  `json:"customer_id"`
	TableNumber     int     `json:"table_number"`
	Date            string  `json:"date"`       // YYYY-MM-DD
	StartTime       string  `json:"start_time"` // HH:MM
	DurationMinutes int     `json:"duration_minutes"`
	Guests          int     `json:"guests"`
	SpecialRequests *string `json:"special_requests,omitempty"`
}

// ReservationCancelledEvent событие отмены бронирования
type ReservationCancelledEvent struct {
	ReservationID string `json:"reservation_id"`
	CustomerID    string `json:"customer_id"`
	TableNumber   int    `json:"table_number"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	CancelledBy   string `json:"cancelled_by"`
	WasConfirmed  bool   `json:"was_confirmed"`
}
