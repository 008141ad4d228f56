package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	"github.com/m04kA/SMC-HallBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-HallBookingService/internal/integrations/venuedirectory"
)

// releaseTimeout ограничение на откат захвата после ошибки
const releaseTimeout = 5 * time.Second

// UseCase use case для создания бронирования
// Сначала захватываются слоты реестра, затем в транзакции сохраняется бронирование
type UseCase struct {
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

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	ledger Ledger,
	policies PolicyResolver,
	venues VenueDirectory,
	notifier Notifier,
	txManager TransactionManager,
	granularity int,
	logger Logger,
) *UseCase {
	return &UseCase{
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

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, venue=%d, kind=%s, time=%s-%s",
		req.Identity.UserID, req.VenueID, req.Schedule.Kind, req.Schedule.StartTime, req.Schedule.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем площадку
	venue, err := uc.venues.GetVenue(ctx, req.VenueID)
	if err != nil {
		if errors.Is(err, venuedirectory.ErrVenueNotFound) {
			uc.logger.Warn("CreateBooking: venue id=%d not found", req.VenueID)
			return nil, ErrVenueNotFound
		}
		uc.logger.Error("CreateBooking: failed to get venue id=%d: %v", req.VenueID, err)
		return nil, fmt.Errorf("%w: failed to get venue: %v", ErrInternal, err)
	}

	// 4. Действующая политика площадки
	policy, err := uc.policies.Resolve(ctx, req.VenueID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to resolve policy for venue=%d: %v", req.VenueID, err)
		return nil, fmt.Errorf("%w: failed to resolve policy: %v", ErrInternal, err)
	}

	// 5. Сроки. Импорт переносит исторические данные, поэтому проверяется только длина
	if req.Imported {
		err = policy.CheckSpan(req.Schedule)
	} else {
		err = policy.CheckSchedule(req.Schedule, now)
	}
	if err != nil {
		uc.logger.Warn("CreateBooking: schedule rejected by policy: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	// 6. Раскладываем расписание по слотам
	days, err := domain.ExpandSchedule(req.Schedule, uc.granularity)
	if err != nil {
		uc.logger.Warn("CreateBooking: failed to expand schedule: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	// 7. Захватываем все слоты всех дней одной операцией
	claim, err := uc.ledger.TryClaimDays(ctx, req.VenueID, days)
	if err != nil {
		if errors.Is(err, reservation.ErrSlotConflict) {
			uc.logger.Warn("CreateBooking: slots are taken: %v", err)
			return nil, fmt.Errorf("%w: %w", ErrSlotConflict, err)
		}
		uc.logger.Error("CreateBooking: failed to claim slots: %v", err)
		return nil, fmt.Errorf("%w: failed to claim slots: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: claimed %d slots on %d days, token=%s",
		claim.SlotCount(), len(claim.Days), claim.Token)

	// 8. Сохраняем бронирование и привязываем к нему захват
	var result *domain.Booking

	// Импортированное расписание уже согласовано администратором
	state := policy.InitialState(req.Identity.Role)
	if req.Imported {
		state = domain.ApprovalApproved
	}

	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		booking := &domain.Booking{
			RequesterID:    req.Identity.UserID,
			RequesterRole:  req.Identity.Role,
			RequesterEmail: req.Identity.Email,
			VenueID:        req.VenueID,
			VenueName:      venue.Name,
			EventName:      req.EventName,
			Organizer:      req.Organizer,
			Department:     req.Department,
			Institution:    req.Institution,
			OrganizingClub: req.OrganizingClub,
			Phone:          req.Phone,
			AltPhone:       req.AltPhone,
			Schedule:       req.Schedule,
			ApprovalState:  state,
			Imported:       req.Imported,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		if err := uc.ledger.LinkToBooking(txCtx, claim, created.ID); err != nil {
			return fmt.Errorf("failed to link claim: %w", err)
		}

		result = created
		return nil
	})

	// 9. Откат захвата, если бронирование не сохранилось
	if err != nil {
		uc.logger.Error("CreateBooking: %v", err)
		uc.releaseClaim(ctx, claim)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, state=%s", result.ID, result.ApprovalState)

	// 10. Уведомление не блокирует ответ
	if !req.SkipNotification {
		uc.notifier.BookingRequested(result, venue.OwnerEmail)
	}

	return newResponse(result, claim.SlotCount()), nil
}

// releaseClaim освобождает захват даже если контекст запроса уже отменен
// Неудачный откат оставляет записи до очистки по TTL
func (uc *UseCase) releaseClaim(ctx context.Context, claim *domain.Claim) {
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	released, err := uc.ledger.ReleaseClaim(releaseCtx, claim.Token)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to release claim token=%s venue=%d, entries expire after TTL: %v",
			claim.Token, claim.VenueID, err)
		return
	}

	uc.logger.Info("CreateBooking: released %d entries of claim token=%s", released, claim.Token)
}
