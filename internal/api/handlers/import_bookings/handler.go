package import_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-HallBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HallBookingService/internal/api/middleware"
	importBookings "github.com/m04kA/SMC-HallBookingService/internal/usecase/import_bookings"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingIdentity    = "требуется авторизация"
	msgForbidden          = "импорт доступен только администратору"
	msgInvalidData        = "некорректный набор строк импорта"
)

type Handler struct {
	useCase ImportBookingsUseCase
	logger  Logger
}

func NewHandler(useCase ImportBookingsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/import
// Ошибочные строки пропускаются и попадают в отчет, остальные импортируются
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/import - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	var req ImportRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/import - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(identity))
	if err != nil {
		switch {
		case errors.Is(err, importBookings.ErrAccessDenied):
			h.logger.Warn("POST /bookings/import - Access denied: user_id=%d", identity.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, importBookings.ErrInvalidInput):
			h.logger.Warn("POST /bookings/import - Invalid data: %v", err)
			handlers.RespondErrorDetails(w, http.StatusBadRequest, handlers.KindValidationFailed, msgInvalidData, err.Error())

		default:
			h.logger.Error("POST /bookings/import - Failed to import: user_id=%d, error=%v", identity.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/import - Import finished: user_id=%d, total=%d, imported=%d, skipped=%d",
		identity.UserID, result.Total, result.Imported, result.Skipped)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
