package reschedule_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-HallBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HallBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-HallBookingService/internal/service/bookings"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingIdentity    = "требуется авторизация"
	msgNotFound           = "бронирование не найдено"
	msgVenueNotFound      = "площадка не найдена"
	msgForbidden          = "доступ запрещен"
	msgInvalidSchedule    = "некорректное расписание мероприятия"
	msgPolicyViolation    = "новое время нарушает правила сроков площадки"
	msgCannotReschedule   = "отклоненное бронирование нельзя перенести"
	msgSlotConflict       = "новое время пересекается с существующим бронированием"
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

// Handle PUT /api/v1/bookings/{bookingId}/schedule
// При конфликте старое время остается за бронированием
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /bookings/{id}/schedule - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("PUT /bookings/{id}/schedule - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Reschedule(r.Context(), bookingID, req.ToServiceRequest(identity))
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PUT /bookings/{id}/schedule - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrVenueNotFound):
			h.logger.Warn("PUT /bookings/{id}/schedule - Venue not found: booking_id=%d", bookingID)
			handlers.RespondVenueNotFound(w, msgVenueNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PUT /bookings/{id}/schedule - Access denied: booking_id=%d, user_id=%d",
				bookingID, identity.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrSlotConflict):
			h.logger.Warn("PUT /bookings/{id}/schedule - Slot conflict: booking_id=%d: %v", bookingID, err)
			handlers.RespondConflict(w, msgSlotConflict, handlers.NewConflictDetails(err))

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("PUT /bookings/{id}/schedule - Booking is not live: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgCannotReschedule)

		case errors.Is(err, bookings.ErrInvalidInput) && handlers.IsPolicyViolation(err):
			h.logger.Warn("PUT /bookings/{id}/schedule - Policy violation: booking_id=%d: %v", bookingID, err)
			handlers.RespondErrorDetails(w, http.StatusBadRequest, handlers.KindValidationFailed, msgPolicyViolation, err.Error())

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PUT /bookings/{id}/schedule - Invalid schedule: booking_id=%d: %v", bookingID, err)
			handlers.RespondErrorDetails(w, http.StatusBadRequest, handlers.KindValidationFailed, msgInvalidSchedule, err.Error())

		default:
			h.logger.Error("PUT /bookings/{id}/schedule - Failed to reschedule: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id}/schedule - Booking rescheduled successfully: booking_id=%d, state=%s",
		bookingID, result.ApprovalState)
	handlers.RespondJSON(w, http.StatusOK, result)
}
