package find_available_tables

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	findAvailableTables "github.com/m04kA/SMC-ReservationService/internal/usecase/find_available_tables"
)

const (
	msgInvalidQuery = "некорректные параметры запроса, ожидаются date, time, guests и опционально duration"
	msgInvalidInput = "некорректные параметры поиска"
	msgWindowInPast = "запрошенное время уже прошло"
)

type Handler struct {
	useCase FindAvailableTablesUseCase
	logger  Logger
}

func NewHandler(useCase FindAvailableTablesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tables/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req, err := ParseQuery(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /tables/availability - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, findAvailableTables.ErrInvalidInput):
			h.logger.Warn("GET /tables/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, findAvailableTables.ErrWindowInPast):
			h.logger.Warn("GET /tables/availability - Window in past")
			handlers.RespondBadRequest(w, msgWindowInPast)

		default:
			h.logger.Error("GET /tables/availability - Failed to find tables: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tables/availability - Found %d available tables", len(result.Tables))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
