package domain

import (
	"fmt"
	"time"
)

// BookingPolicy правила бронирования
// Иерархия:
// 1. Для конкретной площадки (venue_id)
// 2. Глобальная (venue_id = NULL)
// 3. Встроенные значения по умолчанию
type BookingPolicy struct {
	ID                      int64
	VenueID                 *int64   // NULL = global policy
	AutoApproveRoles        []string // Роли, чьи заявки согласуются автоматически
	AdvanceBookingDays      int      // 0 = unlimited
	MinBookingNoticeMinutes int
	MaxSpanDays             int // Максимальная длина multi-day бронирования
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// DefaultBookingPolicy returns the built-in policy used when nothing is stored
func DefaultBookingPolicy() *BookingPolicy {
	return &BookingPolicy{
		AutoApproveRoles:        []string{string(RoleFaculty), string(RoleAdmin)},
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
		MaxSpanDays:             DefaultMaxSpanDays,
	}
}

// IsGlobal returns true if this is the global policy
func (p *BookingPolicy) IsGlobal() bool {
	return p.VenueID == nil
}

// AutoApproves returns true if bookings by the role start approved
func (p *BookingPolicy) AutoApproves(role Role) bool {
	for _, r := range p.AutoApproveRoles {
		if Role(r) == role {
			return true
		}
	}
	return false
}

// InitialState начальный статус согласования для роли заявителя
func (p *BookingPolicy) InitialState(role Role) ApprovalState {
	if p.AutoApproves(role) {
		return ApprovalApproved
	}
	return ApprovalPending
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (p *BookingPolicy) HasAdvanceBookingLimit() bool {
	return p.AdvanceBookingDays > 0
}

// CheckSpan проверяет длину multi-day бронирования
func (p *BookingPolicy) CheckSpan(s Schedule) error {
	if s.Kind != DateKindMultiDay || p.MaxSpanDays <= 0 {
		return nil
	}
	if span := s.SpanDays(); span > p.MaxSpanDays {
		return fmt.Errorf("%w: %d days, at most %d allowed", ErrSpanTooLong, span, p.MaxSpanDays)
	}
	return nil
}

// CheckSchedule проверяет сроки расписания относительно now
// Все даты сравниваются в UTC, как и слоты реестра
func (p *BookingPolicy) CheckSchedule(s Schedule, now time.Time) error {
	if err := p.CheckSpan(s); err != nil {
		return err
	}

	now = now.UTC()
	today := CanonicalDate(now)
	first := s.FirstDay()

	if first.Before(today) {
		return fmt.Errorf("%w: %s", ErrDateInPast, first.Format(DateFormat))
	}

	// Ограничение считается от первого дня мероприятия
	if p.HasAdvanceBookingLimit() {
		maxDate := today.AddDate(0, 0, p.AdvanceBookingDays)
		if first.After(maxDate) {
			return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, p.AdvanceBookingDays)
		}
	}

	if first.Equal(today) {
		startMin, err := s.StartTime.Minutes()
		if err != nil {
			return fmt.Errorf("%w: startTime: %v", ErrInvalidSchedule, err)
		}
		earliest := now.Hour()*60 + now.Minute() + p.MinBookingNoticeMinutes
		if startMin < earliest {
			return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, p.MinBookingNoticeMinutes)
		}
	}

	return nil
}
