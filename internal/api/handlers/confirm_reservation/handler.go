package confirm_reservation

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	confirmReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/confirm_reservation"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidInput        = "некорректные параметры подтверждения"
	msgReservationNotFound = "бронирование не найдено"
	msgAccessDenied        = "нет доступа к этому бронированию"
	msgLockExpired         = "время блокировки истекло, выберите стол заново"
	msgAlreadyConfirmed    = "бронирование уже подтверждено"
	msgAlreadyCancelled    = "бронирование уже отменено"
)

type Handler struct {
	useCase ConfirmReservationUseCase
	metrics Metrics
	logger  Logger
}

func NewHandler(useCase ConfirmReservationUseCase, metrics Metrics, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{id}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID := mux.Vars(r)["id"]
	customerID := middleware.CustomerID(r)

	var req ConfirmReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /reservations/{id}/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &confirmReservation.Request{
		ReservationID:   reservationID,
		CustomerID:      customerID,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		switch {
		case errors.Is(err, confirmReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations/{id}/confirm - Invalid input: id=%s", reservationID)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, confirmReservation.ErrReservationNotFound):
			h.logger.Warn("POST /reservations/{id}/confirm - Not found: id=%s", reservationID)
			handlers.RespondNotFound(w, msgReservationNotFound)

		case errors.Is(err, confirmReservation.ErrAccessDenied):
			h.logger.Warn("POST /reservations/{id}/confirm - Access denied: id=%s, customer=%s", reservationID, customerID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, confirmReservation.ErrLockExpired):
			h.logger.Warn("POST /reservations/{id}/confirm - Lock expired: id=%s", reservationID)
			handlers.RespondGone(w, msgLockExpired)

		case errors.Is(err, confirmReservation.ErrAlreadyConfirmed):
			h.logger.Warn("POST /reservations/{id}/confirm - Already confirmed: id=%s", reservationID)
			handlers.RespondConflict(w, msgAlreadyConfirmed)

		case errors.Is(err, confirmReservation.ErrAlreadyCancelled):
			h.logger.Warn("POST /reservations/{id}/confirm - Already cancelled: id=%s", reservationID)
			handlers.RespondConflict(w, msgAlreadyCancelled)

		default:
			h.logger.Error("POST /reservations/{id}/confirm - Failed to confirm: id=%s, error=%v", reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.metrics.IncReservationConfirmed()
	h.logger.Info("POST /reservations/{id}/confirm - Confirmed: id=%s, customer=%s", result.ID, customerID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
