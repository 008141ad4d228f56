package get_slot_conflicts

import (
	"context"

	getAvailableVenues "github.com/m04kA/SMC-HallBookingService/internal/usecase/get_available_venues"
)

type ConflictFinder interface {
	FindConflicts(ctx context.Context, req *getAvailableVenues.ConflictsRequest) (*getAvailableVenues.ConflictsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
