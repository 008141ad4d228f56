package create_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	"github.com/m04kA/SMC-HallBookingService/internal/integrations/venuedirectory"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// Ledger интерфейс реестра резервирований
type Ledger interface {
	TryClaimDays(ctx context.Context, venueID int64, days []domain.SlotSet) (*domain.Claim, error)
	LinkToBooking(ctx context.Context, claim *domain.Claim, bookingID int64) error
	ReleaseClaim(ctx context.Context, token uuid.UUID) (int64, error)
}

// PolicyResolver интерфейс получения действующей политики площадки
type PolicyResolver interface {
	Resolve(ctx context.Context, venueID int64) (*domain.BookingPolicy, error)
}

// VenueDirectory интерфейс справочника площадок
type VenueDirectory interface {
	GetVenue(ctx context.Context, venueID int64) (*venuedirectory.Venue, error)
}

// Notifier интерфейс асинхронных уведомлений
type Notifier interface {
	BookingRequested(booking *domain.Booking, ownerEmail string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
