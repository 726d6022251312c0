package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

// Service сервис чтения бронирований
// Мутации проходят через use case-ы, здесь только запросы
type Service struct {
	reservationRepo ReservationRepository
	timeProvider    TimeProvider
	logger          Logger
}

// realTimeProvider реальный провайдер времени для production
type realTimeProvider struct{}

func (p *realTimeProvider) Now() time.Time {
	return time.Now()
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		timeProvider:    &realTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
// Клиент может видеть только своё бронирование, персонал - любое
func (s *Service) GetByID(ctx context.Context, id string, customerID string, isStaff bool) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%s for customer=%s", id, customerID)

	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%s not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !isStaff && res.CustomerID != customerID {
		s.logger.Warn("GetByID: access denied for customer=%s to reservation id=%s", customerID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched reservation id=%s", id)
	return models.FromDomainReservation(res, s.timeProvider.Now()), nil
}

// GetStatus получает компактный статус бронирования
// Для действующей блокировки возвращает оставшееся время жизни в секундах.
// Публичный запрос без проверки владельца: ответ не содержит
// персональных данных, только статус
func (s *Service) GetStatus(ctx context.Context, id string) (*models.ReservationStatusResponse, error) {
	s.logger.Info("GetStatus: fetching status for reservation id=%s", id)

	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetStatus: reservation id=%s not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetStatus: repository error for reservation id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetStatus - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainReservationStatus(res, s.timeProvider.Now()), nil
}

// GetCustomerReservations получает историю бронирований клиента
// Опционально фильтрует по статусу; фильтр применяется к эффективному
// статусу (истекшая блокировка считается expired)
func (s *Service) GetCustomerReservations(ctx context.Context, req *models.GetCustomerReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetCustomerReservations: fetching reservations for customer=%s, status=%v", req.CustomerID, req.Status)

	var statusFilter *domain.ReservationStatus
	if req.Status != nil {
		status, err := models.ToDomainReservationStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerReservations: invalid status=%s for customer=%s", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		statusFilter = &status
	}

	all, err := s.reservationRepo.GetByCustomerID(ctx, req.CustomerID)
	if err != nil {
		s.logger.Error("GetCustomerReservations: repository error for customer=%s: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerReservations - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()

	filtered := all
	if statusFilter != nil {
		filtered = make([]*domain.Reservation, 0, len(all))
		for _, r := range all {
			effective := r.Status
			if r.IsLockExpired(now) {
				effective = domain.StatusExpired
			}
			if effective == *statusFilter {
				filtered = append(filtered, r)
			}
		}
	}

	s.logger.Info("GetCustomerReservations: successfully fetched %d reservations for customer=%s", len(filtered), req.CustomerID)
	return models.FromDomainReservationList(filtered, now), nil
}
