package domain

import "github.com/m04kA/SMC-ReservationService/pkg/types"

// Window полуинтервал времени [Start, End) в минутах от полуночи
type Window struct {
	StartMinutes int
	EndMinutes   int
}

// NewWindow создает окно бронирования из времени начала и длительности
func NewWindow(start types.TimeString, durationMinutes int) Window {
	startMin := start.Minutes()
	return Window{
		StartMinutes: startMin,
		EndMinutes:   startMin + durationMinutes,
	}
}

// Overlaps returns true if two half-open windows overlap
// Граничные случаи не считаются пересечением: окно, заканчивающееся ровно там,
// где начинается другое, не пересекается с ним
func (w Window) Overlaps(other Window) bool {
	return w.StartMinutes < other.EndMinutes && other.StartMinutes < w.EndMinutes
}
