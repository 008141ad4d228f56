package reservation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
)

var (
	// ErrSlotConflict возвращается, когда хотя бы один запрошенный слот уже занят
	ErrSlotConflict = errors.New("reservation.repository: slot already claimed")

	// ErrEmptyClaim возвращается при попытке захватить пустой набор слотов
	ErrEmptyClaim = errors.New("reservation.repository: nothing to claim")

	// ErrClaimNotFound возвращается, когда захват истёк и был удалён до привязки
	ErrClaimNotFound = errors.New("reservation.repository: claim not found or expired")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)

// ConflictError детали конфликта: какие слоты уже заняты
type ConflictError struct {
	VenueID   int64
	Conflicts []domain.SlotSet
}

func (e *ConflictError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("%s%v", c.Date, c.Slots))
	}
	return fmt.Sprintf("%v: venue=%d %s", ErrSlotConflict, e.VenueID, strings.Join(parts, " "))
}

func (e *ConflictError) Unwrap() error {
	return ErrSlotConflict
}
