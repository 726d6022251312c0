package find_available_tables

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// UseCase use case для поиска доступных столов
// Чистый запрос без побочных эффектов
type UseCase struct {
	reservationRepo ReservationRepository
	tableRepo       TableRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	tableRepo TableRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		tableRepo:       tableRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case поиска доступных столов
// Стол доступен, если его вместимость достаточна и ни одно блокирующее
// бронирование не пересекается с запрошенным окном. Блокировки с истекшим
// TTL не блокируют, даже если reaper их еще не обработал (lazy expiry) -
// устаревшая блокировка никогда не дает ложного "нет мест".
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("FindAvailableTables: date=%s, time=%s, duration=%d, guests=%d",
		req.Date.Format(domain.DateFormat), req.StartTime, req.DurationMinutes, req.Guests)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("FindAvailableTables: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем, что окно не в прошлом
	if err := validateWindowNotInPast(req.Date, req.StartTime, now); err != nil {
		uc.logger.Warn("FindAvailableTables: window in past: date=%s, time=%s",
			req.Date.Format(domain.DateFormat), req.StartTime)
		return nil, err
	}

	// 4. Получаем столы с достаточной вместимостью (в порядке номеров)
	tables, err := uc.tableRepo.ListByMinCapacity(ctx, req.Guests)
	if err != nil {
		uc.logger.Error("FindAvailableTables: failed to list tables: %v", err)
		return nil, fmt.Errorf("%w: failed to list tables: %v", ErrInternal, err)
	}

	// 5. Получаем все блокирующие бронирования на дату (lazy expiry в запросе)
	blocking, err := uc.reservationRepo.GetBlockingByDate(ctx, req.Date, now)
	if err != nil {
		uc.logger.Error("FindAvailableTables: failed to get blocking reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get blocking reservations: %v", ErrInternal, err)
	}

	// 6. Отбираем столы без пересечений с запрошенным окном
	window := domain.NewWindow(req.StartTime, req.DurationMinutes)
	blockedTables := blockedTableIDs(blocking, window, now)

	available := make([]TableInfo, 0, len(tables))
	for _, t := range tables {
		if blockedTables[t.ID] {
			continue
		}
		available = append(available, TableInfo{
			ID:       t.ID,
			Number:   t.Number,
			Capacity: t.Capacity,
			Location: t.Location,
		})
	}

	uc.logger.Info("FindAvailableTables: %d of %d tables available for date=%s, window=[%d,%d)",
		len(available), len(tables), req.Date.Format(domain.DateFormat), window.StartMinutes, window.EndMinutes)

	return &Response{
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Guests:          req.Guests,
		Tables:          available,
	}, nil
}

// blockedTableIDs возвращает множество столов, у которых есть блокирующее
// бронирование, пересекающееся с запрошенным окном
// TTL перепроверяется и здесь, хотя хранилище уже отфильтровало истекшие
// блокировки: между запросом и фильтрацией могла истечь еще одна
func blockedTableIDs(blocking []*domain.Reservation, window domain.Window, now time.Time) map[int64]bool {
	blocked := make(map[int64]bool)
	for _, res := range blocking {
		if res.Blocks(now) && res.Window().Overlaps(window) {
			blocked[res.TableID] = true
		}
	}
	return blocked
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Guests < domain.MinGuests {
		return fmt.Errorf("%w: guests must be at least %d", ErrInvalidInput, domain.MinGuests)
	}

	if req.DurationMinutes < domain.MinDurationMinutes || req.DurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	return nil
}

// validateWindowNotInPast проверяет, что запрошенное окно не в прошлом
func validateWindowNotInPast(date time.Time, startTime types.TimeString, now time.Time) error {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if dateOnly.Before(nowOnly) {
		return ErrWindowInPast
	}

	if dateOnly.Equal(nowOnly) && startTime.IsBefore(types.NewTimeString(now)) {
		return ErrWindowInPast
	}

	return nil
}
