package lock_table

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	lockTable "github.com/m04kA/SMC-ReservationService/internal/usecase/lock_table"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput       = "некорректные параметры бронирования"
	msgTableNotFound      = "стол не найден"
	msgTableNotAvailable  = "стол не обслуживается"
	msgCapacityExceeded   = "вместимость стола меньше числа гостей"
	msgWindowInPast       = "запрошенное время уже прошло"
	msgWindowConflict     = "стол занят на выбранное время"
)

type Handler struct {
	useCase LockTableUseCase
	metrics Metrics
	logger  Logger
}

func NewHandler(useCase LockTableUseCase, metrics Metrics, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/lock
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.CustomerID(r)

	var req LockTableRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/lock - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(customerID)
	if err != nil {
		h.logger.Warn("POST /reservations/lock - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, lockTable.ErrInvalidInput):
			h.logger.Warn("POST /reservations/lock - Invalid input: customer=%s, table=%d", customerID, req.TableID)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, lockTable.ErrWindowInPast):
			h.logger.Warn("POST /reservations/lock - Window in past: customer=%s, table=%d", customerID, req.TableID)
			handlers.RespondBadRequest(w, msgWindowInPast)

		case errors.Is(err, lockTable.ErrTableNotFound):
			h.logger.Warn("POST /reservations/lock - Table not found: table=%d", req.TableID)
			handlers.RespondNotFound(w, msgTableNotFound)

		case errors.Is(err, lockTable.ErrTableNotAvailable):
			h.logger.Warn("POST /reservations/lock - Table not available: table=%d", req.TableID)
			handlers.RespondConflict(w, msgTableNotAvailable)

		case errors.Is(err, lockTable.ErrCapacityExceeded):
			h.logger.Warn("POST /reservations/lock - Capacity exceeded: table=%d, guests=%d", req.TableID, req.Guests)
			handlers.RespondBadRequest(w, msgCapacityExceeded)

		case errors.Is(err, lockTable.ErrWindowConflict):
			h.logger.Warn("POST /reservations/lock - Window conflict: customer=%s, table=%d", customerID, req.TableID)
			h.metrics.IncLockConflict()
			handlers.RespondConflict(w, msgWindowConflict)

		default:
			h.logger.Error("POST /reservations/lock - Failed to lock table: customer=%s, table=%d, error=%v",
				customerID, req.TableID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.metrics.IncLockAcquired()
	h.logger.Info("POST /reservations/lock - Lock acquired: id=%s, customer=%s, table=%d",
		result.ID, customerID, req.TableID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
