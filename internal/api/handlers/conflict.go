package handlers

import (
	"errors"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	"github.com/m04kA/SMC-HallBookingService/internal/infra/storage/reservation"
)

// ConflictDetails занятые интервалы для ответа 409
type ConflictDetails struct {
	VenueID   int64          `json:"venueId"`
	Conflicts []ConflictSpan `json:"conflicts"`
}

// ConflictSpan занятые слоты одного дня
type ConflictSpan struct {
	Date  string `json:"date"`
	Slots []int  `json:"slots"`
}

// NewConflictDetails извлекает занятые слоты из цепочки ошибок
// Возвращает nil, если деталей нет
func NewConflictDetails(err error) *ConflictDetails {
	var conflict *reservation.ConflictError
	if !errors.As(err, &conflict) {
		return nil
	}

	details := &ConflictDetails{
		VenueID:   conflict.VenueID,
		Conflicts: make([]ConflictSpan, 0, len(conflict.Conflicts)),
	}
	for _, set := range conflict.Conflicts {
		details.Conflicts = append(details.Conflicts, ConflictSpan{Date: set.Date, Slots: set.Slots})
	}
	return details
}

// IsPolicyViolation true для ошибок сроков бронирования
func IsPolicyViolation(err error) bool {
	return errors.Is(err, domain.ErrDateInPast) ||
		errors.Is(err, domain.ErrDateTooFarInFuture) ||
		errors.Is(err, domain.ErrTooLateToBook) ||
		errors.Is(err, domain.ErrSpanTooLong)
}
