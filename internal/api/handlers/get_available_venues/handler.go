package get_available_venues

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-HallBookingService/internal/api/handlers"
	getAvailableVenues "github.com/m04kA/SMC-HallBookingService/internal/usecase/get_available_venues"
)

const (
	msgMissingParams = "параметры date, startTime и endTime обязательны"
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime   = "некорректный формат времени, ожидается HH:MM"
)

type Handler struct {
	useCase GetAvailableVenuesUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableVenuesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/venues/available
// Query params: date (YYYY-MM-DD), startTime, endTime (HH:MM) - все обязательны
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dateStr, startStr, endStr := q.Get("date"), q.Get("startTime"), q.Get("endTime")

	if dateStr == "" || startStr == "" || endStr == "" {
		h.logger.Warn("GET /venues/available - Missing parameters")
		handlers.RespondBadRequest(w, msgMissingParams)
		return
	}

	useCaseReq, err := ToUseCaseRequest(dateStr, startStr, endStr)
	if err != nil {
		h.logger.Warn("GET /venues/available - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if errors.Is(err, getAvailableVenues.ErrInvalidInput) {
			h.logger.Warn("GET /venues/available - Invalid time: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTime)
			return
		}

		h.logger.Error("GET /venues/available - Failed to get venues: date=%s, error=%v", dateStr, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /venues/available - Venues retrieved successfully: date=%s, time=%s-%s, count=%d",
		dateStr, startStr, endStr, len(result.Venues))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
