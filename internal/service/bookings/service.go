package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-HallBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-HallBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-HallBookingService/internal/integrations/venuedirectory"
	"github.com/m04kA/SMC-HallBookingService/internal/service/bookings/models"
)

// defaultEventsLimit ограничение публичного списка мероприятий
const defaultEventsLimit = 100

// Service сервис жизненного цикла бронирований
// Все изменения реестра выполняются в одной транзакции с изменением бронирования
type Service struct {
	bookingRepo  BookingRepository
	ledger       Ledger
	policies     PolicyResolver
	venues       VenueDirectory
	notifier     Notifier
	txManager    TransactionManager
	granularity  int
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	ledger Ledger,
	policies PolicyResolver,
	venues VenueDirectory,
	notifier Notifier,
	txManager TransactionManager,
	granularity int,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		ledger:       ledger,
		policies:     policies,
		venues:       venues,
		notifier:     notifier,
		txManager:    txManager,
		granularity:  granularity,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Видно заявителю и персоналу площадки
func (s *Service) GetByID(ctx context.Context, id int64, identity domain.Identity) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, identity.UserID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkRequesterOrStaff(ctx, "GetByID", booking, identity); err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает бронирования текущего пользователя
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, state=%v", req.Identity.UserID, req.State)

	state, err := models.ParseState(req.State)
	if err != nil {
		s.logger.Warn("GetUserBookings: invalid state for user=%d: %v", req.Identity.UserID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.List(ctx, domain.BookingsFilter{
		RequesterID: &req.Identity.UserID,
		State:       state,
	})
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.Identity.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.Identity.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetVenueBookings получает бронирования площадки с фильтрацией
// Доступно только персоналу площадки
func (s *Service) GetVenueBookings(ctx context.Context, req *models.GetVenueBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetVenueBookings: fetching bookings for venue=%d, user=%d", req.VenueID, req.Identity.UserID)

	if err := s.checkStaff(ctx, "GetVenueBookings", req.VenueID, req.Identity); err != nil {
		return nil, err
	}

	state, err := models.ParseState(req.State)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		return nil, fmt.Errorf("%w: 'to' is before 'from'", ErrInvalidInput)
	}

	var department *string
	if req.Department != nil {
		if d := strings.TrimSpace(*req.Department); d != "" {
			department = &d
		}
	}

	bookings, err := s.bookingRepo.List(ctx, domain.BookingsFilter{
		VenueID:    &req.VenueID,
		State:      state,
		Department: department,
		From:       req.From,
		To:         req.To,
	})
	if err != nil {
		s.logger.Error("GetVenueBookings: repository error for venue=%d: %v", req.VenueID, err)
		return nil, fmt.Errorf("%w: GetVenueBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetVenueBookings: successfully fetched %d bookings for venue=%d", len(bookings), req.VenueID)
	return models.FromDomainBookingList(bookings), nil
}

// GetEvents публичный список согласованных мероприятий, которые еще не закончились
func (s *Service) GetEvents(ctx context.Context, req *models.GetEventsRequest) (*models.EventListResponse, error) {
	limit := req.Limit
	if limit <= 0 || limit > defaultEventsLimit {
		limit = defaultEventsLimit
	}

	today := domain.CanonicalDate(s.timeProvider.Now().UTC())
	approved := domain.ApprovalApproved

	bookings, err := s.bookingRepo.List(ctx, domain.BookingsFilter{
		VenueID: req.VenueID,
		State:   &approved,
		From:    &today,
		Limit:   limit,
	})
	if err != nil {
		s.logger.Error("GetEvents: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetEvents - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainEventList(bookings), nil
}

// UpdateApproval меняет статус согласования
// Отклонение освобождает слоты, повторное согласование отклоненной заявки захватывает их снова
func (s *Service) UpdateApproval(ctx context.Context, bookingID int64, req *models.UpdateApprovalRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateApproval: booking id=%d to state=%s by user=%d", bookingID, req.State, req.Identity.UserID)

	// 1. Валидируем целевой статус
	target, err := domain.ParseApprovalState(req.State)
	if err != nil {
		s.logger.Warn("UpdateApproval: invalid state=%q", req.State)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Проверяем права до начала транзакции
	current, err := s.getBooking(ctx, "UpdateApproval", bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.checkStaff(ctx, "UpdateApproval", current.VenueID, req.Identity); err != nil {
		return nil, err
	}

	var result *domain.Booking

	// 3. Статус и реестр меняются вместе
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByIDForUpdate(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: UpdateApproval - lock booking: %v", ErrInternal, err)
		}

		previous := booking.ApprovalState
		if err := booking.ApplyApproval(target, req.Reason); err != nil {
			return mapDomainError(err)
		}

		switch {
		case target == domain.ApprovalRejected:
			released, err := s.ledger.ReleaseByBooking(txCtx, bookingID)
			if err != nil {
				return fmt.Errorf("%w: UpdateApproval - release slots: %v", ErrInternal, err)
			}
			s.logger.Info("UpdateApproval: released %d entries of booking id=%d", released, bookingID)
		case previous == domain.ApprovalRejected:
			if err := s.claim(txCtx, booking, booking.Schedule); err != nil {
				return err
			}
		}

		if err := s.bookingRepo.UpdateApproval(txCtx, bookingID, booking.ApprovalState, booking.RejectionReason); err != nil {
			return fmt.Errorf("%w: UpdateApproval - repository error: %v", ErrInternal, err)
		}

		result = booking
		return nil
	})
	if err != nil {
		s.logTxError("UpdateApproval", bookingID, err)
		return nil, err
	}

	s.logger.Info("UpdateApproval: booking id=%d is %s", bookingID, result.ApprovalState)

	// 4. Уведомляем заявителя
	if result.ApprovalState == domain.ApprovalRejected {
		s.notifier.BookingRejected(result)
	} else {
		s.notifier.BookingApproved(result)
	}

	return models.FromDomainBooking(result), nil
}

// Delete удаляет бронирование и освобождает все его слоты
// Доступно заявителю и персоналу площадки
func (s *Service) Delete(ctx context.Context, bookingID int64, req *models.DeleteBookingRequest) error {
	s.logger.Info("Delete: deleting booking id=%d by user=%d", bookingID, req.Identity.UserID)

	booking, err := s.getBooking(ctx, "Delete", bookingID)
	if err != nil {
		return err
	}

	if err := s.checkRequesterOrStaff(ctx, "Delete", booking, req.Identity); err != nil {
		return err
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		released, err := s.ledger.ReleaseByBooking(txCtx, bookingID)
		if err != nil {
			return fmt.Errorf("%w: Delete - release slots: %v", ErrInternal, err)
		}

		if err := s.bookingRepo.Delete(txCtx, bookingID); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}

		s.logger.Info("Delete: released %d entries of booking id=%d", released, bookingID)
		return nil
	})
	if err != nil {
		s.logTxError("Delete", bookingID, err)
		return err
	}

	s.logger.Info("Delete: successfully deleted booking id=%d", bookingID)

	// Заявитель узнает об удалении, только если удалил не он сам
	if booking.RequesterID != req.Identity.UserID {
		s.notifier.BookingCancelled(booking)
	}

	return nil
}

// Reschedule переносит бронирование на новое время
// Старые слоты освобождаются и новые захватываются в одной транзакции:
// при конфликте старое бронирование остается нетронутым
func (s *Service) Reschedule(ctx context.Context, bookingID int64, req *models.RescheduleRequest) (*models.BookingResponse, error) {
	s.logger.Info("Reschedule: booking id=%d by user=%d", bookingID, req.Identity.UserID)

	// 1. Новое расписание
	schedule, err := req.Schedule.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := schedule.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	// 2. Бронирование и права
	current, err := s.getBooking(ctx, "Reschedule", bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.checkRequesterOrStaff(ctx, "Reschedule", current, req.Identity); err != nil {
		return nil, err
	}

	// 3. Сроки по политике площадки
	policy, err := s.policies.Resolve(ctx, current.VenueID)
	if err != nil {
		s.logger.Error("Reschedule: failed to resolve policy for venue=%d: %v", current.VenueID, err)
		return nil, fmt.Errorf("%w: Reschedule - resolve policy: %v", ErrInternal, err)
	}
	if err := policy.CheckSchedule(schedule, s.timeProvider.Now()); err != nil {
		s.logger.Warn("Reschedule: schedule rejected by policy: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	var result *domain.Booking

	// 4. Освобождение, захват и обновление атомарны
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByIDForUpdate(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Reschedule - lock booking: %v", ErrInternal, err)
		}

		if !booking.IsLive() {
			return fmt.Errorf("%w: %s booking cannot be rescheduled", ErrInvalidTransition, booking.ApprovalState)
		}

		if _, err := s.ledger.ReleaseByBooking(txCtx, bookingID); err != nil {
			return fmt.Errorf("%w: Reschedule - release slots: %v", ErrInternal, err)
		}

		if err := s.claim(txCtx, booking, schedule); err != nil {
			return err
		}

		// Согласованная заявка без права автосогласования снова ждет решения
		state := booking.ApprovalState
		if state == domain.ApprovalApproved && !policy.AutoApproves(booking.RequesterRole) {
			state = domain.ApprovalPending
		}

		if err := s.bookingRepo.UpdateSchedule(txCtx, bookingID, schedule, state); err != nil {
			return fmt.Errorf("%w: Reschedule - repository error: %v", ErrInternal, err)
		}

		booking.Schedule = schedule
		booking.ApprovalState = state
		result = booking
		return nil
	})
	if err != nil {
		s.logTxError("Reschedule", bookingID, err)
		return nil, err
	}

	s.logger.Info("Reschedule: booking id=%d moved, state=%s", bookingID, result.ApprovalState)

	s.notifier.BookingRescheduled(result)

	return models.FromDomainBooking(result), nil
}

// Вспомогательные методы

// claim захватывает слоты расписания сразу за бронированием
func (s *Service) claim(ctx context.Context, booking *domain.Booking, schedule domain.Schedule) error {
	days, err := domain.ExpandSchedule(schedule, s.granularity)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := s.ledger.ClaimForBooking(ctx, booking.ID, booking.VenueID, days); err != nil {
		if errors.Is(err, reservation.ErrSlotConflict) {
			return fmt.Errorf("%w: %w", ErrSlotConflict, err)
		}
		return fmt.Errorf("%w: claim slots: %v", ErrInternal, err)
	}

	return nil
}

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// checkRequesterOrStaff заявитель или персонал площадки
func (s *Service) checkRequesterOrStaff(ctx context.Context, op string, booking *domain.Booking, identity domain.Identity) error {
	if booking.RequesterID == identity.UserID {
		return nil
	}
	return s.checkStaff(ctx, op, booking.VenueID, identity)
}

// checkStaff администратор или ответственный за площадку
func (s *Service) checkStaff(ctx context.Context, op string, venueID int64, identity domain.Identity) error {
	if identity.IsAdmin() {
		return nil
	}

	venue, err := s.venues.GetVenue(ctx, venueID)
	if err != nil {
		if errors.Is(err, venuedirectory.ErrVenueNotFound) {
			s.logger.Warn("%s: venue id=%d not found", op, venueID)
			return ErrVenueNotFound
		}
		s.logger.Error("%s: failed to get venue id=%d: %v", op, venueID, err)
		return fmt.Errorf("%w: %s - failed to get venue: %v", ErrInternal, op, err)
	}

	if !identity.CanManageVenue(venue.OwnerID) {
		s.logger.Warn("%s: user=%d is not staff of venue=%d", op, identity.UserID, venueID)
		return ErrAccessDenied
	}

	return nil
}

func (s *Service) logTxError(op string, bookingID int64, err error) {
	if errors.Is(err, ErrInternal) {
		s.logger.Error("%s: booking id=%d: %v", op, bookingID, err)
		return
	}
	s.logger.Warn("%s: booking id=%d: %v", op, bookingID, err)
}

// mapDomainError переводит ошибки смены статуса в ошибки сервиса
func mapDomainError(err error) error {
	switch {
	case errors.Is(err, domain.ErrRejectionReasonRequired), errors.Is(err, domain.ErrRejectionReasonTooLong):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, domain.ErrInvalidTransition):
		return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
