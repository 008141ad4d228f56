package import_bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	"github.com/m04kA/SMC-HallBookingService/internal/integrations/venuedirectory"
	"github.com/m04kA/SMC-HallBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-HallBookingService/pkg/ptr"
	"github.com/m04kA/SMC-HallBookingService/pkg/types"
)

// UseCase use case массового импорта расписания
// Каждая строка проходит тот же путь захвата слотов, что и обычная заявка
type UseCase struct {
	admission Admission
	venues    VenueDirectory
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(admission Admission, venues VenueDirectory, logger Logger) *UseCase {
	return &UseCase{
		admission: admission,
		venues:    venues,
		logger:    logger,
	}
}

// Execute импортирует строки по одной, ошибочные строки пропускаются
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ImportBookings: user=%d, rows=%d", req.Identity.UserID, len(req.Rows))

	// 1. Только администратор
	if !req.Identity.IsAdmin() {
		uc.logger.Warn("ImportBookings: user=%d role=%s is not admin", req.Identity.UserID, req.Identity.Role)
		return nil, ErrAccessDenied
	}

	// 2. Проверка набора строк
	if len(req.Rows) == 0 {
		return nil, fmt.Errorf("%w: no rows to import", ErrInvalidInput)
	}
	if len(req.Rows) > domain.MaxImportRows {
		return nil, fmt.Errorf("%w: at most %d rows per import", ErrInvalidInput, domain.MaxImportRows)
	}

	resp := &Response{
		Total:   len(req.Rows),
		Results: make([]RowResult, 0, len(req.Rows)),
	}

	// Площадки ищутся по названию, повторные названия не запрашиваются
	venueIDs := make(map[string]*int64)

	// 3. Строки обрабатываются последовательно, поэтому пересечения внутри файла тоже конфликты
	for i, row := range req.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result := RowResult{Row: i + 1}

		bookingID, err := uc.importRow(ctx, req, row, venueIDs)
		if err != nil {
			result.Status = RowSkipped
			result.Reason = err.Error()
			resp.Skipped++
			uc.logger.Warn("ImportBookings: row %d skipped: %v", i+1, err)
		} else {
			result.Status = RowImported
			result.BookingID = ptr.Ptr(bookingID)
			resp.Imported++
		}

		resp.Results = append(resp.Results, result)
	}

	uc.logger.Info("ImportBookings: imported %d of %d rows, skipped %d", resp.Imported, resp.Total, resp.Skipped)

	return resp, nil
}

func (uc *UseCase) importRow(ctx context.Context, req *Request, row Row, venueIDs map[string]*int64) (int64, error) {
	venueID, err := uc.resolveVenue(ctx, row.VenueName, venueIDs)
	if err != nil {
		return 0, err
	}

	schedule, err := parseSchedule(row)
	if err != nil {
		return 0, err
	}

	var club *string
	if batch := strings.TrimSpace(row.Batch); batch != "" {
		club = ptr.Ptr(batch)
	}

	created, err := uc.admission.Execute(ctx, &create_booking.Request{
		Identity:         req.Identity,
		VenueID:          venueID,
		EventName:        strings.TrimSpace(row.EventName),
		Organizer:        strings.TrimSpace(row.Organizer),
		Department:       strings.TrimSpace(row.Department),
		Institution:      req.Institution,
		OrganizingClub:   club,
		Phone:            req.Phone,
		Schedule:         schedule,
		Imported:         true,
		SkipNotification: true,
	})
	if err != nil {
		switch {
		case errors.Is(err, create_booking.ErrSlotConflict):
			return 0, fmt.Errorf("slot conflict: %v", err)
		case errors.Is(err, create_booking.ErrInvalidInput):
			return 0, fmt.Errorf("invalid row: %v", err)
		default:
			return 0, err
		}
	}

	return created.ID, nil
}

func (uc *UseCase) resolveVenue(ctx context.Context, name string, cache map[string]*int64) (int64, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return 0, errors.New("venue name is empty")
	}

	if id, ok := cache[key]; ok {
		if id == nil {
			return 0, fmt.Errorf("venue %q not found", name)
		}
		return *id, nil
	}

	venue, err := uc.venues.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, venuedirectory.ErrVenueNotFound) {
			cache[key] = nil
			return 0, fmt.Errorf("venue %q not found", name)
		}
		// Недоступность справочника не кэшируется
		return 0, fmt.Errorf("venue directory: %v", err)
	}

	cache[key] = ptr.Ptr(venue.ID)
	return venue.ID, nil
}

// parseSchedule строит расписание строки
// Совпадающие даты дают однодневное мероприятие, иначе multi-day
func parseSchedule(row Row) (domain.Schedule, error) {
	start, err := time.Parse(domain.DateFormat, strings.TrimSpace(row.StartDate))
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("invalid start date %q", row.StartDate)
	}
	end, err := time.Parse(domain.DateFormat, strings.TrimSpace(row.EndDate))
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("invalid end date %q", row.EndDate)
	}

	startTime, err := types.NewTimeStringFromString(strings.TrimSpace(row.StartTime))
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("invalid start time %q", row.StartTime)
	}
	endTime, err := types.NewTimeStringFromString(strings.TrimSpace(row.EndTime))
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("invalid end time %q", row.EndTime)
	}

	schedule := domain.Schedule{
		StartTime: startTime,
		EndTime:   endTime,
	}

	if start.Equal(end) {
		schedule.Kind = domain.DateKindSingleDay
		schedule.EventDate = &start
		return schedule, nil
	}

	schedule.Kind = domain.DateKindMultiDay
	schedule.StartDate = &start
	schedule.EndDate = &end

	if wd := strings.TrimSpace(row.Weekday); wd != "" {
		weekday, err := domain.ParseWeekday(wd)
		if err != nil {
			return domain.Schedule{}, err
		}
		schedule.Weekday = &weekday
	}

	return schedule, nil
}
