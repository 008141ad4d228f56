package get_available_venues

import (
	"context"

	"github.com/m04kA/SMC-HallBookingService/internal/integrations/venuedirectory"
)

// Ledger интерфейс реестра резервирований
type Ledger interface {
	// FindOccupiedVenues возвращает площадки, у которых занят хотя бы один из слотов
	FindOccupiedVenues(ctx context.Context, date string, slots []int) ([]int64, error)
	// FindConflicts возвращает занятые слоты площадки из запрошенных
	FindConflicts(ctx context.Context, venueID int64, date string, slots []int) ([]int, error)
}

// VenueDirectory интерфейс справочника площадок
type VenueDirectory interface {
	ListVenues(ctx context.Context) ([]venuedirectory.Venue, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
