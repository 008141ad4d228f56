package get_events

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-HallBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HallBookingService/internal/service/bookings/models"
)

const (
	msgInvalidVenueID = "некорректный ID площадки"
	msgInvalidLimit   = "некорректный лимит"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/events
// Query params: venueId, limit (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := &models.GetEventsRequest{}

	if v := r.URL.Query().Get("venueId"); v != "" {
		venueID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || venueID <= 0 {
			h.logger.Warn("GET /events - Invalid venue ID: %q", v)
			handlers.RespondBadRequest(w, msgInvalidVenueID)
			return
		}
		req.VenueID = &venueID
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			h.logger.Warn("GET /events - Invalid limit: %q", v)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		req.Limit = limit
	}

	result, err := h.service.GetEvents(r.Context(), req)
	if err != nil {
		h.logger.Error("GET /events - Failed to get events: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /events - Events retrieved successfully: count=%d", len(result.Events))
	handlers.RespondJSON(w, http.StatusOK, result)
}
