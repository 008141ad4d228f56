package import_bookings

import (
	"context"

	importBookings "github.com/m04kA/SMC-HallBookingService/internal/usecase/import_bookings"
)

type ImportBookingsUseCase interface {
	Execute(ctx context.Context, req *importBookings.Request) (*importBookings.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
