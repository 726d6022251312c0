package delete_table

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/tables"
)

const (
	msgInvalidTableID        = "некорректный ID стола"
	msgTableNotFound         = "стол не найден"
	msgHasActiveReservations = "у стола есть активные бронирования"
	msgStaffOnly             = "операция доступна только персоналу"
)

type Handler struct {
	service TableService
	logger  Logger
}

func NewHandler(service TableService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/tables/{tableId}
// Только для персонала; стол с активными бронированиями удалить нельзя
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsStaff(r) {
		h.logger.Warn("DELETE /tables/{id} - Staff role required: customer=%s", middleware.CustomerID(r))
		handlers.RespondForbidden(w, msgStaffOnly)
		return
	}

	tableID, err := strconv.ParseInt(mux.Vars(r)["tableId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /tables/{id} - Invalid table ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTableID)
		return
	}

	if err := h.service.Delete(r.Context(), tableID); err != nil {
		switch {
		case errors.Is(err, tables.ErrTableNotFound):
			h.logger.Warn("DELETE /tables/{id} - Table not found: table_id=%d", tableID)
			handlers.RespondNotFound(w, msgTableNotFound)

		case errors.Is(err, tables.ErrTableHasActiveReservations):
			h.logger.Warn("DELETE /tables/{id} - Active reservations exist: table_id=%d", tableID)
			handlers.RespondConflict(w, msgHasActiveReservations)

		default:
			h.logger.Error("DELETE /tables/{id} - Failed to delete table: table_id=%d, error=%v", tableID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /tables/{id} - Table deleted: table_id=%d", tableID)
	w.WriteHeader(http.StatusNoContent)
}
