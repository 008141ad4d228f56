package policy

import (
	"context"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	"github.com/m04kA/SMC-HallBookingService/internal/integrations/venuedirectory"
)

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	Create(ctx context.Context, policy *domain.BookingPolicy) (*domain.BookingPolicy, error)
	GetByVenue(ctx context.Context, venueID *int64) (*domain.BookingPolicy, error)
	GetWithHierarchy(ctx context.Context, venueID *int64) (*domain.BookingPolicy, error)
	Update(ctx context.Context, id int64, policy *domain.BookingPolicy) (*domain.BookingPolicy, error)
	Delete(ctx context.Context, id int64) error
}

// VenueDirectory интерфейс справочника площадок
type VenueDirectory interface {
	GetVenue(ctx context.Context, venueID int64) (*venuedirectory.Venue, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
