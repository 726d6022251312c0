package create_table

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/tables"
	"github.com/m04kA/SMC-ReservationService/internal/service/tables/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные параметры стола"
	msgDuplicateNumber    = "стол с таким номером уже существует"
	msgStaffOnly          = "операция доступна только персоналу"
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

// Handle POST /api/v1/tables
// Только для персонала
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsStaff(r) {
		h.logger.Warn("POST /tables - Staff role required: customer=%s", middleware.CustomerID(r))
		handlers.RespondForbidden(w, msgStaffOnly)
		return
	}

	var req models.CreateTableRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /tables - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, tables.ErrInvalidInput):
			h.logger.Warn("POST /tables - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, tables.ErrDuplicateNumber):
			h.logger.Warn("POST /tables - Duplicate number: number=%d", req.Number)
			handlers.RespondConflict(w, msgDuplicateNumber)

		default:
			h.logger.Error("POST /tables - Failed to create table: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /tables - Table created: id=%d, number=%d", result.ID, result.Number)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
