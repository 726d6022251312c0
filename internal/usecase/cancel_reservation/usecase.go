package cancel_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/notifyqueue"
)

// UseCase use case для отмены бронирования
// Отменяет как блокировку (locked), так и подтвержденное бронирование
type UseCase struct {
	reservationRepo ReservationRepository
	publisher       EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		publisher:       publisher,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case отмены бронирования
// Перевод в cancelled - одна условная запись: условие "статус locked или
// confirmed" проверяет само хранилище, повторная отмена не проходит
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelReservation: id=%s, customer=%s, staff=%t",
		req.ReservationID, req.CustomerID, req.IsStaff)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бронирование
	res, err := uc.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("CancelReservation: reservation id=%s not found", req.ReservationID)
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("CancelReservation: failed to get reservation id=%s: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
	}

	// 3. Клиент может отменять только свои бронирования, персонал - любые
	if !req.IsStaff && res.CustomerID != req.CustomerID {
		uc.logger.Warn("CancelReservation: access denied: id=%s, owner=%s, requester=%s",
			req.ReservationID, res.CustomerID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	// Фиксируем статус до отмены для события уведомления
	wasConfirmed := res.Status == domain.StatusConfirmed

	cancelledBy := domain.CancelledByCustomer
	if req.IsStaff {
		cancelledBy = domain.CancelledByStaff
	}

	// 4. Получаем текущее время
	now := uc.timeProvider.Now()

	// 5. Переводим в cancelled одной условной записью
	err = uc.reservationRepo.CancelActive(ctx, req.ReservationID, cancelledBy, now)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrNotCancellable) {
			return nil, uc.classifyCancelFailure(ctx, req.ReservationID)
		}
		uc.logger.Error("CancelReservation: failed to cancel id=%s: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to cancel reservation: %v", ErrInternal, err)
	}

	// 6. Перечитываем отмененное бронирование
	cancelled, err := uc.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		uc.logger.Error("CancelReservation: failed to reload reservation id=%s: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to reload reservation: %v", ErrInternal, err)
	}

	uc.logger.Info("CancelReservation: cancelled id=%s, table=%d, by=%s",
		cancelled.ID, cancelled.TableID, cancelledBy)

	// 7. Публикуем событие для сервиса уведомлений
	// Ошибка публикации не откатывает отмену - только логируется
	uc.publishCancelledEvent(ctx, cancelled, cancelledBy, wasConfirmed)

	return toResponse(cancelled), nil
}

// classifyCancelFailure определяет причину отказа условной записи
// Строка не в отменяемом статусе - перечитываем и смотрим, в каком
func (uc *UseCase) classifyCancelFailure(ctx context.Context, id string) error {
	res, err := uc.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		uc.logger.Error("CancelReservation: failed to classify failure for id=%s: %v", id, err)
		return fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
	}

	if res.IsTerminal() {
		uc.logger.Warn("CancelReservation: id=%s already finished: status=%s", id, res.Status)
		return ErrAlreadyFinished
	}

	// Не должно происходить: условная запись отказала, а строка выглядит активной
	uc.logger.Error("CancelReservation: unexpected state for id=%s: status=%s", id, res.Status)
	return fmt.Errorf("%w: unexpected reservation state: %s", ErrInternal, res.Status)
}

// publishCancelledEvent публикует событие отмены в очередь уведомлений
func (uc *UseCase) publishCancelledEvent(ctx context.Context, res *domain.Reservation, cancelledBy string, wasConfirmed bool) {
	event := notifyqueue.ReservationCancelledEvent{
		ReservationID: res.ID,
		CustomerID:    res.CustomerID,
		TableNumber:   res.TableNumber,
		Date:          res.Date.Format(domain.DateFormat),
		StartTime:     res.StartTime.String(),
		CancelledBy:   cancelledBy,
		WasConfirmed:  wasConfirmed,
	}
	if err := uc.publisher.PublishCancelled(ctx, event); err != nil {
		uc.logger.Error("CancelReservation: failed to publish cancelled event for id=%s: %v", res.ID, err)
	}
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ReservationID == "" {
		return fmt.Errorf("%w: reservationId is required", ErrInvalidInput)
	}

	if req.CustomerID == "" {
		return fmt.Errorf("%w: customerId is required", ErrInvalidInput)
	}

	return nil
}
