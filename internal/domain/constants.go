package domain

// Lock configuration
const (
	// LockTTLMinutes время жизни блокировки стола до подтверждения
	// Фиксировано для всей системы, не настраивается per-request
	LockTTLMinutes = 5
)

// Default values
const (
	DefaultDurationMinutes = 90
)

// Business validation constants
const (
	MinGuests          = 1
	MinDurationMinutes = 15
	MaxDurationMinutes = 480 // 8 hours
	MaxSpecialRequests = 500
	MinTableNumber     = 1
	MinTableCapacity   = 1
	MaxTableCapacity   = 50
	MaxLocationLength  = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// CancelledBy значения для поля cancelled_by
const (
	CancelledByCustomer = "customer"
	CancelledByStaff    = "staff"
)

// BlockingStatuses статусы, при которых бронирование может блокировать окно
// Блокировки дополнительно фильтруются по lock_expires_at (lazy expiry)
var BlockingStatuses = []ReservationStatus{
	StatusLocked,
	StatusConfirmed,
}

// TerminalStatuses статусы, из которых нет переходов
var TerminalStatuses = []ReservationStatus{
	StatusCancelled,
	StatusExpired,
}
