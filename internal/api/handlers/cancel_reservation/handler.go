package cancel_reservation

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	cancelReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/cancel_reservation"
)

const (
	msgReservationNotFound = "бронирование не найдено"
	msgAccessDenied        = "нет доступа к этому бронированию"
	msgAlreadyFinished     = "бронирование уже завершено"
)

type Handler struct {
	useCase CancelReservationUseCase
	metrics Metrics
	logger  Logger
}

func NewHandler(useCase CancelReservationUseCase, metrics Metrics, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{id}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID := mux.Vars(r)["id"]
	customerID := middleware.CustomerID(r)
	isStaff := middleware.IsStaff(r)

	result, err := h.useCase.Execute(r.Context(), &cancelReservation.Request{
		ReservationID: reservationID,
		CustomerID:    customerID,
		IsStaff:       isStaff,
	})
	if err != nil {
		switch {
		case errors.Is(err, cancelReservation.ErrReservationNotFound):
			h.logger.Warn("POST /reservations/{id}/cancel - Not found: id=%s", reservationID)
			handlers.RespondNotFound(w, msgReservationNotFound)

		case errors.Is(err, cancelReservation.ErrAccessDenied):
			h.logger.Warn("POST /reservations/{id}/cancel - Access denied: id=%s, customer=%s", reservationID, customerID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, cancelReservation.ErrAlreadyFinished):
			h.logger.Warn("POST /reservations/{id}/cancel - Already finished: id=%s", reservationID)
			handlers.RespondConflict(w, msgAlreadyFinished)

		default:
			h.logger.Error("POST /reservations/{id}/cancel - Failed to cancel: id=%s, error=%v", reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.metrics.IncReservationCancelled()
	h.logger.Info("POST /reservations/{id}/cancel - Cancelled: id=%s, customer=%s, staff=%t",
		result.ID, customerID, isStaff)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
