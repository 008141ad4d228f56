package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-HallBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HallBookingService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-HallBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingIdentity    = "требуется авторизация"
	msgInvalidSchedule    = "некорректное расписание мероприятия"
	msgInvalidData        = "некорректные данные бронирования"
	msgPolicyViolation    = "бронирование нарушает правила сроков площадки"
	msgVenueNotFound      = "площадка не найдена"
	msgSlotConflict       = "выбранное время пересекается с существующим бронированием"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом дат)
	useCaseReq, err := req.ToUseCaseRequest(identity)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse schedule: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSchedule)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotConflict):
			h.logger.Warn("POST /bookings - Slot conflict: user_id=%d, venue_id=%d: %v", identity.UserID, req.VenueID, err)
			handlers.RespondConflict(w, msgSlotConflict, handlers.NewConflictDetails(err))

		case errors.Is(err, createBooking.ErrVenueNotFound):
			h.logger.Warn("POST /bookings - Venue not found: venue_id=%d", req.VenueID)
			handlers.RespondVenueNotFound(w, msgVenueNotFound)

		case errors.Is(err, createBooking.ErrInvalidInput) && handlers.IsPolicyViolation(err):
			h.logger.Warn("POST /bookings - Policy violation: user_id=%d, venue_id=%d: %v", identity.UserID, req.VenueID, err)
			handlers.RespondErrorDetails(w, http.StatusBadRequest, handlers.KindValidationFailed, msgPolicyViolation, err.Error())

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid data: user_id=%d: %v", identity.UserID, err)
			handlers.RespondErrorDetails(w, http.StatusBadRequest, handlers.KindValidationFailed, msgInvalidData, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, venue_id=%d, error=%v",
				identity.UserID, req.VenueID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, venue_id=%d, state=%s",
		result.ID, identity.UserID, req.VenueID, result.ApprovalState)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
