package import_bookings

import (
	"context"

	"github.com/m04kA/SMC-HallBookingService/internal/integrations/venuedirectory"
	"github.com/m04kA/SMC-HallBookingService/internal/usecase/create_booking"
)

// Admission интерфейс создания бронирования через реестр
type Admission interface {
	Execute(ctx context.Context, req *create_booking.Request) (*create_booking.Response, error)
}

// VenueDirectory интерфейс справочника площадок
type VenueDirectory interface {
	FindByName(ctx context.Context, name string) (*venuedirectory.Venue, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
