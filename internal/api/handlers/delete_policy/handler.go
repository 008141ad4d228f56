package delete_policy

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-HallBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HallBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-HallBookingService/internal/service/policy"
	"github.com/m04kA/SMC-HallBookingService/internal/service/policy/models"
)

const (
	msgInvalidVenueID  = "некорректный ID площадки"
	msgMissingIdentity = "требуется авторизация"
	msgNotFound        = "политика не найдена"
	msgVenueNotFound   = "площадка не найдена"
	msgForbidden       = "доступ запрещен"
)

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

// Handle DELETE /api/v1/policy
// Query params: venueId (опционально). После удаления действует вышестоящий уровень
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("DELETE /policy - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	req := &models.DeletePolicyRequest{Identity: identity}
	if v := r.URL.Query().Get("venueId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			h.logger.Warn("DELETE /policy - Invalid venue ID: %q", v)
			handlers.RespondBadRequest(w, msgInvalidVenueID)
			return
		}
		req.VenueID = &id
	}

	if err := h.service.Delete(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, policy.ErrPolicyNotFound):
			h.logger.Warn("DELETE /policy - Policy not found: venue_id=%v", req.VenueID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, policy.ErrVenueNotFound):
			h.logger.Warn("DELETE /policy - Venue not found: venue_id=%v", req.VenueID)
			handlers.RespondVenueNotFound(w, msgVenueNotFound)

		case errors.Is(err, policy.ErrAccessDenied):
			h.logger.Warn("DELETE /policy - Access denied: venue_id=%v, user_id=%d", req.VenueID, identity.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /policy - Failed to delete policy: venue_id=%v, error=%v", req.VenueID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /policy - Policy deleted successfully: venue_id=%v", req.VenueID)
	w.WriteHeader(http.StatusNoContent)
}
