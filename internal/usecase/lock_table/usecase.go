package lock_table

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	tableRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/table"
)

// UseCase use case для блокировки стола (lock-фаза бронирования)
type UseCase struct {
	reservationRepo ReservationRepository
	tableRepo       TableRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	tableRepo TableRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		tableRepo:       tableRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case блокировки стола
// Создает бронирование в статусе locked с TTL 5 минут.
// Проверка занятости окна и вставка - одна условная запись в хранилище,
// выполненная в сериализуемой транзакции: из конкурентных попыток на одно
// окно ровно одна получает блокировку, остальные - ErrWindowConflict.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("LockTable: customer=%s, table=%d, date=%s, time=%s, duration=%d, guests=%d",
		req.CustomerID, req.TableID, req.Date.Format(domain.DateFormat), req.StartTime, req.DurationMinutes, req.Guests)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("LockTable: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем, что окно не в прошлом
	if err := validateWindowNotInPast(req.Date, req.StartTime, now); err != nil {
		uc.logger.Warn("LockTable: window in past: customer=%s, date=%s, time=%s",
			req.CustomerID, req.Date.Format(domain.DateFormat), req.StartTime)
		return nil, err
	}

	// 4. Получаем стол
	table, err := uc.tableRepo.GetByID(ctx, req.TableID)
	if err != nil {
		if errors.Is(err, tableRepo.ErrTableNotFound) {
			uc.logger.Warn("LockTable: table id=%d not found", req.TableID)
			return nil, ErrTableNotFound
		}
		uc.logger.Error("LockTable: failed to get table id=%d: %v", req.TableID, err)
		return nil, fmt.Errorf("%w: failed to get table: %v", ErrInternal, err)
	}

	// 5. Проверяем, что стол в обслуживании
	if !table.IsActive {
		uc.logger.Warn("LockTable: table id=%d is not active", req.TableID)
		return nil, ErrTableNotAvailable
	}

	// 6. Проверяем вместимость
	if req.Guests > table.Capacity {
		uc.logger.Warn("LockTable: capacity exceeded: table id=%d capacity=%d, guests=%d",
			req.TableID, table.Capacity, req.Guests)
		return nil, ErrCapacityExceeded
	}

	window := domain.NewWindow(req.StartTime, req.DurationMinutes)

	// Переменная для хранения результата
	var result *domain.Reservation

	// 7. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Идемпотентный повтор: если у клиента уже есть действующая
		// блокировка на идентичное окно, возвращаем её вместо конфликта
		existing, err := uc.reservationRepo.FindActiveLock(txCtx, req.CustomerID, req.TableID, req.Date, window, now)
		if err != nil && !errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Error("LockTable: failed to check existing lock: %v", err)
			return fmt.Errorf("%w: failed to check existing lock: %v", ErrInternal, err)
		}
		if existing != nil {
			uc.logger.Info("LockTable: returning existing lock id=%s for customer=%s", existing.ID, req.CustomerID)
			result = existing
			return nil
		}

		// 7.2. Создаем блокировку с TTL одной условной вставкой
		lockExpiresAt := now.Add(domain.LockTTLMinutes * time.Minute)
		res := &domain.Reservation{
			ID:              uuid.NewString(),
			TableID:         req.TableID,
			CustomerID:      req.CustomerID,
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: req.DurationMinutes,
			Guests:          req.Guests,
			Status:          domain.StatusLocked,
			LockExpiresAt:   &lockExpiresAt,
			// Денормализация номера стола для истории
			TableNumber: table.Number,
		}

		created, err := uc.reservationRepo.CreateLocked(txCtx, res, now)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrWindowConflict) {
				uc.logger.Warn("LockTable: window conflict: table=%d, date=%s, window=[%d,%d)",
					req.TableID, req.Date.Format(domain.DateFormat), window.StartMinutes, window.EndMinutes)
				return ErrWindowConflict
			}
			uc.logger.Error("LockTable: failed to create lock: %v", err)
			return fmt.Errorf("%w: failed to create lock: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("LockTable: lock acquired id=%s, table=%d, expires_at=%s",
		result.ID, result.TableID, result.LockExpiresAt.Format(time.RFC3339))

	return toResponse(result), nil
}
