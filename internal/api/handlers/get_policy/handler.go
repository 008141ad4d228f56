package get_policy

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-HallBookingService/internal/api/handlers"
)

const msgInvalidVenueID = "некорректный ID площадки"

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/policy
// Query params: venueId (опционально, без него - глобальная политика)
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var venueID *int64
	if v := r.URL.Query().Get("venueId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			h.logger.Warn("GET /policy - Invalid venue ID: %q", v)
			handlers.RespondBadRequest(w, msgInvalidVenueID)
			return
		}
		venueID = &id
	}

	// Если ничего не сохранено, сервис вернет встроенные значения по умолчанию
	result, err := h.service.GetEffective(r.Context(), venueID)
	if err != nil {
		h.logger.Error("GET /policy - Failed to get policy: venue_id=%v, error=%v", venueID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /policy - Policy retrieved successfully: venue_id=%v, level=%s", venueID, result.Level)
	handlers.RespondJSON(w, http.StatusOK, result)
}
