package confirm_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/notifyqueue"
)

// UseCase use case для подтверждения бронирования (confirm-фаза)
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

// Execute выполняет use case подтверждения бронирования
// Переводит блокировку в confirmed одной условной записью: условие
// "статус locked и TTL еще не истек" проверяется самим хранилищем, поэтому
// гонка confirm против reaper-а разрешается атомарно на стороне БД.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmReservation: id=%s, customer=%s", req.ReservationID, req.CustomerID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ConfirmReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бронирование
	res, err := uc.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("ConfirmReservation: reservation id=%s not found", req.ReservationID)
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("ConfirmReservation: failed to get reservation id=%s: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
	}

	// 3. Подтвердить блокировку может только её владелец
	if res.CustomerID != req.CustomerID {
		uc.logger.Warn("ConfirmReservation: access denied: id=%s, owner=%s, requester=%s",
			req.ReservationID, res.CustomerID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	// 4. Получаем текущее время
	now := uc.timeProvider.Now()

	// 5. Переводим locked → confirmed одной условной записью
	err = uc.reservationRepo.ConfirmLocked(ctx, req.ReservationID, req.SpecialRequests, now)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrNoActiveLock) {
			return nil, uc.classifyConfirmFailure(ctx, req.ReservationID, now)
		}
		uc.logger.Error("ConfirmReservation: failed to confirm id=%s: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to confirm reservation: %v", ErrInternal, err)
	}

	// 6. Перечитываем подтвержденное бронирование
	confirmed, err := uc.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		uc.logger.Error("ConfirmReservation: failed to reload reservation id=%s: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to reload reservation: %v", ErrInternal, err)
	}

	uc.logger.Info("ConfirmReservation: confirmed id=%s, table=%d, customer=%s",
		confirmed.ID, confirmed.TableID, confirmed.CustomerID)

	// 7. Публикуем событие для сервиса уведомлений
	// Ошибка публикации не откатывает подтверждение - только логируется
	uc.publishConfirmedEvent(ctx, confirmed)

	return toResponse(confirmed), nil
}

// classifyConfirmFailure определяет причину отказа условной записи
// Запись не прошла условие "locked и TTL жив" - перечитываем строку и смотрим, почему
func (uc *UseCase) classifyConfirmFailure(ctx context.Context, id string, now time.Time) error {
	res, err := uc.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		uc.logger.Error("ConfirmReservation: failed to classify failure for id=%s: %v", id, err)
		return fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
	}

	switch {
	case res.Status == domain.StatusConfirmed:
		uc.logger.Warn("ConfirmReservation: id=%s already confirmed", id)
		return ErrAlreadyConfirmed
	case res.Status == domain.StatusCancelled:
		uc.logger.Warn("ConfirmReservation: id=%s already cancelled", id)
		return ErrAlreadyCancelled
	case res.Status == domain.StatusExpired || res.IsLockExpired(now):
		uc.logger.Warn("ConfirmReservation: lock expired for id=%s", id)
		return ErrLockExpired
	default:
		// Не должно происходить: условная запись отказала, а строка выглядит валидной
		uc.logger.Error("ConfirmReservation: unexpected state for id=%s: status=%s", id, res.Status)
		return fmt.Errorf("%w: unexpected reservation state: %s", ErrInternal, res.Status)
	}
}

// publishConfirmedEvent публикует событие подтверждения в очередь уведомлений
func (uc *UseCase) publishConfirmedEvent(ctx context.Context, res *domain.Reservation) {
	event := notifyqueue.ReservationConfirmedEvent{
		ReservationID:   res.ID,
		CustomerID:      res.CustomerID,
		TableNumber:     res.TableNumber,
		Date:            res.Date.Format(domain.DateFormat),
		StartTime:       res.StartTime.String(),
		DurationMinutes: res.DurationMinutes,
		Guests:          res.Guests,
		SpecialRequests: res.SpecialRequests,
	}
	if err := uc.publisher.PublishConfirmed(ctx, event); err != nil {
		uc.logger.Error("ConfirmReservation: failed to publish confirmed event for id=%s: %v", res.ID, err)
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

	if req.SpecialRequests != nil && utf8.RuneCountInString(*req.SpecialRequests) > domain.MaxSpecialRequests {
		return fmt.Errorf("%w: specialRequests exceeds %d characters", ErrInvalidInput, domain.MaxSpecialRequests)
	}

	return nil
}
