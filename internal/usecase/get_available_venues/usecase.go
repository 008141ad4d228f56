package get_available_venues

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
)

// UseCase use case для поиска свободных площадок
type UseCase struct {
	ledger      Ledger
	venues      VenueDirectory
	granularity int
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(ledger Ledger, venues VenueDirectory, granularity int, logger Logger) *UseCase {
	return &UseCase{
		ledger:      ledger,
		venues:      venues,
		granularity: granularity,
		logger:      logger,
	}
}

// Execute возвращает площадки, у которых свободен весь диапазон
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableVenues: date=%s, time=%s-%s",
		req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}
	if err := req.EndTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: endTime: %v", ErrInvalidInput, err)
	}

	resp := &Response{
		Date:      domain.CanonicalDate(req.Date),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Venues:    make([]Venue, 0),
	}

	// 2. Слоты диапазона. Пустой диапазон не ошибка, а пустой ответ
	set, err := domain.SlotsFor(req.Date, req.StartTime, req.EndTime, uc.granularity)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidGranularity) {
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if set.IsEmpty() {
		uc.logger.Warn("GetAvailableVenues: empty range %s-%s", req.StartTime, req.EndTime)
		resp.Message = MessageInvalidRange
		return resp, nil
	}

	// 3. Занятые площадки по реестру
	occupied, err := uc.ledger.FindOccupiedVenues(ctx, set.Date, set.Slots)
	if err != nil {
		uc.logger.Error("GetAvailableVenues: failed to find occupied venues: %v", err)
		return nil, fmt.Errorf("%w: failed to find occupied venues: %v", ErrInternal, err)
	}

	busy := make(map[int64]struct{}, len(occupied))
	for _, id := range occupied {
		busy[id] = struct{}{}
	}

	// 4. Дополнение до полного списка площадок
	all, err := uc.venues.ListVenues(ctx)
	if err != nil {
		uc.logger.Error("GetAvailableVenues: failed to list venues: %v", err)
		return nil, fmt.Errorf("%w: failed to list venues: %v", ErrInternal, err)
	}

	for _, v := range all {
		if _, ok := busy[v.ID]; ok {
			continue
		}
		resp.Venues = append(resp.Venues, Venue{
			ID:       v.ID,
			Name:     v.Name,
			Capacity: v.Capacity,
			Location: v.Location,
		})
	}

	if len(resp.Venues) == 0 {
		resp.Message = MessageNoneFree
	}

	uc.logger.Info("GetAvailableVenues: %d of %d venues free, %d occupied", len(resp.Venues), len(all), len(busy))

	return resp, nil
}
