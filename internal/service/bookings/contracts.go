package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	"github.com/m04kA/SMC-HallBookingService/internal/integrations/venuedirectory"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	UpdateApproval(ctx context.Context, id int64, state domain.ApprovalState, reason *string) error
	UpdateSchedule(ctx context.Context, id int64, schedule domain.Schedule, state domain.ApprovalState) error
	Delete(ctx context.Context, id int64) error
}

// Ledger интерфейс реестра резервирований
type Ledger interface {
	ClaimForBooking(ctx context.Context, bookingID, venueID int64, days []domain.SlotSet) error
	ReleaseByBooking(ctx context.Context, bookingID int64) (int64, error)
}

// PolicyResolver интерфейс получения действующей политики площадки
type PolicyResolver interface {
	Resolve(ctx context.Context, venueID int64) (*domain.BookingPolicy, error)
}

// VenueDirectory интерфейс справочника площадок
type VenueDirectory interface {
	GetVenue(ctx context.Context, venueID int64) (*venuedirectory.Venue, error)
}

// Notifier интерфейс асинхронных уведомлений заявителю
type Notifier interface {
	BookingApproved(booking *domain.Booking)
	BookingRejected(booking *domain.Booking)
	BookingCancelled(booking *domain.Booking)
	BookingRescheduled(booking *domain.Booking)
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
