package get_available_venues

import (
	"context"

	getAvailableVenues "github.com/m04kA/SMC-HallBookingService/internal/usecase/get_available_venues"
)

type GetAvailableVenuesUseCase interface {
	Execute(ctx context.Context, req *getAvailableVenues.Request) (*getAvailableVenues.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
