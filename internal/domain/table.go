package domain

import "time"

// Table represents a physical café table
// Справочные данные: управляются персоналом, ядро бронирования их только читает
type Table struct {
	ID       int64
	Number   int
	Capacity int
	Location string
	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanSeat returns true if the table can accommodate the given party size
func (t *Table) CanSeat(guests int) bool {
	return t.IsActive && t.Capacity >= guests
}
