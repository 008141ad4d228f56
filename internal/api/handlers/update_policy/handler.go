package update_policy

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-HallBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HallBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-HallBookingService/internal/service/policy"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingIdentity    = "требуется авторизация"
	msgVenueNotFound      = "площадка не найдена"
	msgForbidden          = "доступ запрещен"
	msgInvalidData        = "некорректные параметры политики"
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

// Handle PUT /api/v1/policy
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("PUT /policy - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	var req UpdatePolicyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /policy - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Сервис сам проверит права: глобальная политика только для администратора
	result, err := h.service.Upsert(r.Context(), req.ToServiceRequest(identity))
	if err != nil {
		switch {
		case errors.Is(err, policy.ErrVenueNotFound):
			h.logger.Warn("PUT /policy - Venue not found: venue_id=%v", req.VenueID)
			handlers.RespondVenueNotFound(w, msgVenueNotFound)

		case errors.Is(err, policy.ErrAccessDenied):
			h.logger.Warn("PUT /policy - Access denied: venue_id=%v, user_id=%d", req.VenueID, identity.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, policy.ErrInvalidInput):
			h.logger.Warn("PUT /policy - Invalid data: venue_id=%v: %v", req.VenueID, err)
			handlers.RespondErrorDetails(w, http.StatusBadRequest, handlers.KindValidationFailed, msgInvalidData, err.Error())

		default:
			h.logger.Error("PUT /policy - Failed to save policy: venue_id=%v, error=%v", req.VenueID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /policy - Policy saved successfully: policy_id=%d, level=%s", result.ID, result.Level)
	handlers.RespondJSON(w, http.StatusOK, result)
}
