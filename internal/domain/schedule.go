package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-HallBookingService/pkg/types"
)

// DateKind тип бронирования по датам
type DateKind string

const (
	DateKindSingleDay DateKind = "single-day"
	DateKindHalfDay   DateKind = "half-day"
	DateKindMultiDay  DateKind = "multi-day"
)

// IsValid returns true for a known date kind
func (k DateKind) IsValid() bool {
	return k == DateKindSingleDay || k == DateKindHalfDay || k == DateKindMultiDay
}

// Schedule когда проходит мероприятие
// single-day и half-day: EventDate + StartTime..EndTime
// multi-day: StartDate..EndDate (включительно) + StartTime..EndTime каждый день,
// при заданном Weekday только в этот день недели
type Schedule struct {
	Kind      DateKind
	EventDate *time.Time
	StartDate *time.Time
	EndDate   *time.Time
	Weekday   *time.Weekday
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Validate проверяет согласованность полей расписания
func (s Schedule) Validate() error {
	if !s.Kind.IsValid() {
		return fmt.Errorf("%w: unknown date kind %q", ErrInvalidSchedule, s.Kind)
	}

	if err := s.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: startTime: %v", ErrInvalidSchedule, err)
	}
	if err := s.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: endTime: %v", ErrInvalidSchedule, err)
	}
	if !s.StartTime.IsBefore(s.EndTime) {
		return fmt.Errorf("%w: start %s is not before end %s", ErrInvalidRange, s.StartTime, s.EndTime)
	}

	switch s.Kind {
	case DateKindSingleDay, DateKindHalfDay:
		if s.EventDate == nil || s.EventDate.IsZero() {
			return fmt.Errorf("%w: eventDate is required for %s", ErrInvalidSchedule, s.Kind)
		}
		if s.StartDate != nil || s.EndDate != nil || s.Weekday != nil {
			return fmt.Errorf("%w: date range is only allowed for %s", ErrInvalidSchedule, DateKindMultiDay)
		}
	case DateKindMultiDay:
		if s.StartDate == nil || s.EndDate == nil || s.StartDate.IsZero() || s.EndDate.IsZero() {
			return fmt.Errorf("%w: startDate and endDate are required for %s", ErrInvalidSchedule, s.Kind)
		}
		if !CanonicalDate(*s.StartDate).Before(CanonicalDate(*s.EndDate)) {
			return fmt.Errorf("%w: startDate must be before endDate", ErrInvalidSchedule)
		}
		if s.EventDate != nil {
			return fmt.Errorf("%w: eventDate is not allowed for %s", ErrInvalidSchedule, s.Kind)
		}
		if len(s.Days()) == 0 {
			return fmt.Errorf("%w: no %s within the date range", ErrInvalidSchedule, s.Weekday)
		}
	}

	return nil
}

// Days возвращает календарные дни (UTC полночь), которые занимает мероприятие
func (s Schedule) Days() []time.Time {
	switch s.Kind {
	case DateKindSingleDay, DateKindHalfDay:
		if s.EventDate == nil {
			return nil
		}
		return []time.Time{CanonicalDate(*s.EventDate)}
	case DateKindMultiDay:
		if s.StartDate == nil || s.EndDate == nil {
			return nil
		}
		first := CanonicalDate(*s.StartDate)
		last := CanonicalDate(*s.EndDate)

		days := make([]time.Time, 0)
		for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
			if s.Weekday != nil && d.Weekday() != *s.Weekday {
				continue
			}
			days = append(days, d)
		}
		return days
	default:
		return nil
	}
}

// FirstDay первая дата расписания
func (s Schedule) FirstDay() time.Time {
	if s.Kind == DateKindMultiDay && s.StartDate != nil {
		return CanonicalDate(*s.StartDate)
	}
	if s.EventDate != nil {
		return CanonicalDate(*s.EventDate)
	}
	return time.Time{}
}

// LastDay последняя дата расписания
func (s Schedule) LastDay() time.Time {
	if s.Kind == DateKindMultiDay && s.EndDate != nil {
		return CanonicalDate(*s.EndDate)
	}
	return s.FirstDay()
}

// SpanDays количество календарных дней от первой до последней даты включительно
func (s Schedule) SpanDays() int {
	first, last := s.FirstDay(), s.LastDay()
	if first.IsZero() || last.IsZero() {
		return 0
	}
	return int(last.Sub(first).Hours()/24) + 1
}

// CanonicalDate приводит дату к полуночи UTC того же календарного дня
func CanonicalDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseWeekday парсит название дня недели ("monday", "Mon")
func ParseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := d.String()
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("%w: unknown weekday %q", ErrInvalidSchedule, s)
}
