package get_slot_conflicts

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-HallBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	getAvailableVenues "github.com/m04kA/SMC-HallBookingService/internal/usecase/get_available_venues"
	"github.com/m04kA/SMC-HallBookingService/pkg/types"
)

const (
	msgInvalidVenueID = "некорректный ID площадки"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange   = "некорректный временной диапазон"
)

type Handler struct {
	finder ConflictFinder
	logger Logger
}

func NewHandler(finder ConflictFinder, logger Logger) *Handler {
	return &Handler{
		finder: finder,
		logger: logger,
	}
}

// Handle GET /api/v1/venues/{venueId}/conflicts
// Query params: date, startTime, endTime
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.ParseInt(mux.Vars(r)["venueId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /venues/{id}/conflicts - Invalid venue ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVenueID)
		return
	}

	q := r.URL.Query()
	date, err := time.Parse(domain.DateFormat, q.Get("date"))
	if err != nil {
		h.logger.Warn("GET /venues/{id}/conflicts - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.finder.FindConflicts(r.Context(), &getAvailableVenues.ConflictsRequest{
		VenueID:   venueID,
		Date:      date,
		StartTime: types.TimeString(q.Get("startTime")),
		EndTime:   types.TimeString(q.Get("endTime")),
	})
	if err != nil {
		if errors.Is(err, getAvailableVenues.ErrInvalidInput) {
			h.logger.Warn("GET /venues/{id}/conflicts - Invalid range: venue_id=%d: %v", venueID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)
			return
		}

		h.logger.Error("GET /venues/{id}/conflicts - Failed to find conflicts: venue_id=%d, error=%v", venueID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /venues/{id}/conflicts - venue_id=%d, date=%s, occupied=%d", venueID, q.Get("date"), len(result.Occupied))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
