package tables

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	tableRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/table"
	"github.com/m04kA/SMC-ReservationService/internal/service/tables/models"
)

// Service сервис управления столами
// Создание, изменение и удаление доступны только персоналу - проверка роли
// выполняется на уровне HTTP-обработчиков
type Service struct {
	tableRepo       TableRepository
	reservationRepo ReservationRepository
	timeProvider    TimeProvider
	logger          Logger
}

// realTimeProvider реальный провайдер времени для production
type realTimeProvider struct{}

func (p *realTimeProvider) Now() time.Time {
	return time.Now()
}

// NewService создает новый экземпляр сервиса столов
func NewService(
	tableRepo TableRepository,
	reservationRepo ReservationRepository,
	logger Logger,
) *Service {
	return &Service{
		tableRepo:       tableRepo,
		reservationRepo: reservationRepo,
		timeProvider:    &realTimeProvider{},
		logger:          logger,
	}
}

// List возвращает все столы в обслуживании
func (s *Service) List(ctx context.Context) (*models.TableListResponse, error) {
	s.logger.Info("List: fetching tables")

	tables, err := s.tableRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d tables", len(tables))
	return models.FromDomainTableList(tables), nil
}

// GetByID получает стол по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.TableResponse, error) {
	s.logger.Info("GetByID: fetching table id=%d", id)

	table, err := s.tableRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, tableRepo.ErrTableNotFound) {
			s.logger.Warn("GetByID: table id=%d not found", id)
			return nil, ErrTableNotFound
		}
		s.logger.Error("GetByID: repository error for table id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainTable(table), nil
}

// GetSchedule возвращает занятые окна стола на дату
// В расписание попадают только блокирующие бронирования: confirmed и locked
// с живым TTL (lazy expiry отфильтровывается запросом хранилища)
func (s *Service) GetSchedule(ctx context.Context, tableID int64, date time.Time) (*models.TableScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule for table id=%d, date=%s", tableID, date.Format(domain.DateFormat))

	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	table, err := s.tableRepo.GetByID(ctx, tableID)
	if err != nil {
		if errors.Is(err, tableRepo.ErrTableNotFound) {
			s.logger.Warn("GetSchedule: table id=%d not found", tableID)
			return nil, ErrTableNotFound
		}
		s.logger.Error("GetSchedule: repository error for table id=%d: %v", tableID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	blocking, err := s.reservationRepo.GetBlockingByTableAndDate(ctx, tableID, date, now)
	if err != nil {
		s.logger.Error("GetSchedule: repository error for table id=%d: %v", tableID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	slots := make([]models.ScheduleSlot, 0, len(blocking))
	for _, r := range blocking {
		endTime, err := r.StartTime.AddMinutes(r.DurationMinutes)
		if err != nil {
			s.logger.Error("GetSchedule: invalid window for reservation id=%s: %v", r.ID, err)
			return nil, fmt.Errorf("%w: GetSchedule - invalid reservation window: %v", ErrInternal, err)
		}
		slots = append(slots, models.ScheduleSlot{
			ReservationID:   r.ID,
			StartTime:       r.StartTime.String(),
			DurationMinutes: r.DurationMinutes,
			EndTime:         endTime.String(),
			Status:          string(r.Status),
			Guests:          r.Guests,
		})
	}

	s.logger.Info("GetSchedule: %d blocking reservations for table id=%d on %s",
		len(slots), tableID, date.Format(domain.DateFormat))

	return &models.TableScheduleResponse{
		TableID: table.ID,
		Number:  table.Number,
		Date:    date.Format(domain.DateFormat),
		Slots:   slots,
	}, nil
}

// Create создает новый стол
func (s *Service) Create(ctx context.Context, req *models.CreateTableRequest) (*models.TableResponse, error) {
	s.logger.Info("Create: creating table number=%d, capacity=%d", req.Number, req.Capacity)

	if err := validateTableFields(req.Number, req.Capacity, req.Location); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	table := &domain.Table{
		Number:   req.Number,
		Capacity: req.Capacity,
		Location: req.Location,
		IsActive: isActive,
	}

	created, err := s.tableRepo.Create(ctx, table)
	if err != nil {
		if errors.Is(err, tableRepo.ErrDuplicateNumber) {
			s.logger.Warn("Create: table number=%d already exists", req.Number)
			return nil, ErrDuplicateNumber
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created table id=%d, number=%d", created.ID, created.Number)
	return models.FromDomainTable(created), nil
}

// Update обновляет стол
// Частичное обновление: неуказанные поля сохраняют текущие значения
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateTableRequest) (*models.TableResponse, error) {
	s.logger.Info("Update: updating table id=%d", id)

	table, err := s.tableRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, tableRepo.ErrTableNotFound) {
			s.logger.Warn("Update: table id=%d not found", id)
			return nil, ErrTableNotFound
		}
		s.logger.Error("Update: repository error for table id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	if req.Number != nil {
		table.Number = *req.Number
	}
	if req.Capacity != nil {
		table.Capacity = *req.Capacity
	}
	if req.Location != nil {
		table.Location = *req.Location
	}
	if req.IsActive != nil {
		table.IsActive = *req.IsActive
	}

	if err := validateTableFields(table.Number, table.Capacity, table.Location); err != nil {
		s.logger.Warn("Update: validation failed for table id=%d: %v", id, err)
		return nil, err
	}

	if err := s.tableRepo.Update(ctx, table); err != nil {
		switch {
		case errors.Is(err, tableRepo.ErrTableNotFound):
			s.logger.Warn("Update: table id=%d not found during update", id)
			return nil, ErrTableNotFound
		case errors.Is(err, tableRepo.ErrDuplicateNumber):
			s.logger.Warn("Update: table number=%d already exists", table.Number)
			return nil, ErrDuplicateNumber
		default:
			s.logger.Error("Update: repository error for table id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
	}

	s.logger.Info("Update: successfully updated table id=%d", id)
	return models.FromDomainTable(table), nil
}

// Delete снимает стол с обслуживания
// Удаление мягкое: история бронирований ссылается на стол и хранится
// бессрочно, поэтому строка стола остается, но деактивируется.
// Стол с активными бронированиями (locked с живым TTL или confirmed)
// удалить нельзя - сначала их нужно отменить; завершенные бронирования
// (cancelled, expired) удалению не мешают
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting table id=%d", id)

	active, err := s.reservationRepo.CountActiveByTableID(ctx, id, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("Delete: failed to count active reservations for table id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}
	if active > 0 {
		s.logger.Warn("Delete: table id=%d has %d active reservations", id, active)
		return ErrTableHasActiveReservations
	}

	if err := s.tableRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, tableRepo.ErrTableNotFound) {
			s.logger.Warn("Delete: table id=%d not found", id)
			return ErrTableNotFound
		}
		s.logger.Error("Delete: repository error for table id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted table id=%d", id)
	return nil
}

// validateTableFields валидирует поля стола
func validateTableFields(number, capacity int, location string) error {
	if number < domain.MinTableNumber {
		return fmt.Errorf("%w: number must be at least %d", ErrInvalidInput, domain.MinTableNumber)
	}
	if capacity < domain.MinTableCapacity || capacity > domain.MaxTableCapacity {
		return fmt.Errorf("%w: capacity must be between %d and %d",
			ErrInvalidInput, domain.MinTableCapacity, domain.MaxTableCapacity)
	}
	if utf8.RuneCountInString(location) > domain.MaxLocationLength {
		return fmt.Errorf("%w: location exceeds %d characters", ErrInvalidInput, domain.MaxLocationLength)
	}
	return nil
}
