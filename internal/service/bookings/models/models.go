package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	"github.com/m04kA/SMC-HallBookingService/pkg/types"
)

var (
	// ErrInvalidSchedule возвращается при некорректном формате расписания
	ErrInvalidSchedule = errors.New("invalid schedule format")
)

// Request модели

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	Identity domain.Identity `json:"-"`
	State    *string         `json:"state,omitempty"`
}

// GetVenueBookingsRequest запрос на получение бронирований площадки
type GetVenueBookingsRequest struct {
	Identity   domain.Identity `json:"-"`
	VenueID    int64           `json:"venueId"`
	State      *string         `json:"state,omitempty"`      // Фильтр по статусу (опционально)
	Department *string         `json:"department,omitempty"` // Кафедра организатора (просмотр заведующего)
	From       *time.Time      `json:"from,omitempty"`       // Начало периода (опционально)
	To         *time.Time      `json:"to,omitempty"`         // Конец периода (опционально)
}

// GetEventsRequest запрос публичного списка мероприятий
type GetEventsRequest struct {
	VenueID *int64 `json:"venueId,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

// UpdateApprovalRequest запрос на смену статуса согласования
type UpdateApprovalRequest struct {
	Identity domain.Identity `json:"-"`
	State    string          `json:"state"`
	Reason   string          `json:"reason,omitempty"` // Обязательна для rejected
}

// RescheduleRequest запрос на перенос бронирования
type RescheduleRequest struct {
	Identity domain.Identity `json:"-"`
	Schedule ScheduleDTO     `json:"schedule"`
}

// DeleteBookingRequest запрос на удаление бронирования
type DeleteBookingRequest struct {
	Identity domain.Identity `json:"-"`
}

// ScheduleDTO расписание в формате API
type ScheduleDTO struct {
	DateKind  string  `json:"dateKind"`            // single-day | half-day | multi-day
	EventDate *string `json:"eventDate,omitempty"` // "2025-10-15"
	StartDate *string `json:"startDate,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`
	Weekday   *string `json:"weekday,omitempty"` // "monday"
	StartTime string  `json:"startTime"`         // "10:00"
	EndTime   string  `json:"endTime"`
}

// ToDomain конвертирует DTO в domain расписание
// Проверяется только формат, согласованность полей проверяет domain
func (s ScheduleDTO) ToDomain() (domain.Schedule, error) {
	schedule := domain.Schedule{
		Kind:      domain.DateKind(strings.ToLower(strings.TrimSpace(s.DateKind))),
		StartTime: types.TimeString(strings.TrimSpace(s.StartTime)),
		EndTime:   types.TimeString(strings.TrimSpace(s.EndTime)),
	}

	var err error
	if schedule.EventDate, err = parseDate("eventDate", s.EventDate); err != nil {
		return schedule, err
	}
	if schedule.StartDate, err = parseDate("startDate", s.StartDate); err != nil {
		return schedule, err
	}
	if schedule.EndDate, err = parseDate("endDate", s.EndDate); err != nil {
		return schedule, err
	}

	if s.Weekday != nil && strings.TrimSpace(*s.Weekday) != "" {
		wd, err := domain.ParseWeekday(strings.TrimSpace(*s.Weekday))
		if err != nil {
			return schedule, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
		}
		schedule.Weekday = &wd
	}

	return schedule, nil
}

func parseDate(field string, value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateFormat, strings.TrimSpace(*value))
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", ErrInvalidSchedule, field)
	}
	return &t, nil
}

// FromDomainSchedule конвертирует domain расписание в DTO
func FromDomainSchedule(s domain.Schedule) ScheduleDTO {
	dto := ScheduleDTO{
		DateKind:  string(s.Kind),
		EventDate: formatDate(s.EventDate),
		StartDate: formatDate(s.StartDate),
		EndDate:   formatDate(s.EndDate),
		StartTime: s.StartTime.String(),
		EndTime:   s.EndTime.String(),
	}
	if s.Weekday != nil {
		wd := strings.ToLower(s.Weekday.String())
		dto.Weekday = &wd
	}
	return dto
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateFormat)
	return &s
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID             int64       `json:"id"`
	RequesterID    int64       `json:"requesterId"`
	RequesterRole  string      `json:"requesterRole"`
	VenueID        int64       `json:"venueId"`
	VenueName      string      `json:"venueName"`
	EventName      string      `json:"eventName"`
	Organizer      string      `json:"organizer"`
	Department     string      `json:"department"`
	Institution    string      `json:"institution"`
	OrganizingClub *string     `json:"organizingClub,omitempty"`
	Phone          string      `json:"phone"`
	AltPhone       *string     `json:"altPhone,omitempty"`
	Schedule       ScheduleDTO `json:"schedule"`

	ApprovalState   string  `json:"approvalState"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
	Imported        bool    `json:"imported"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// EventResponse публичное представление согласованного мероприятия
// Контактные данные заявителя не раскрываются
type EventResponse struct {
	ID             int64       `json:"id"`
	VenueID        int64       `json:"venueId"`
	VenueName      string      `json:"venueName"`
	EventName      string      `json:"eventName"`
	Organizer      string      `json:"organizer"`
	Department     string      `json:"department"`
	Institution    string      `json:"institution"`
	OrganizingClub *string     `json:"organizingClub,omitempty"`
	Schedule       ScheduleDTO `json:"schedule"`
}

// EventListResponse ответ со списком мероприятий
type EventListResponse struct {
	Events []EventResponse `json:"events"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:              b.ID,
		RequesterID:     b.RequesterID,
		RequesterRole:   string(b.RequesterRole),
		VenueID:         b.VenueID,
		VenueName:       b.VenueName,
		EventName:       b.EventName,
		Organizer:       b.Organizer,
		Department:      b.Department,
		Institution:     b.Institution,
		OrganizingClub:  b.OrganizingClub,
		Phone:           b.Phone,
		AltPhone:        b.AltPhone,
		Schedule:        FromDomainSchedule(b.Schedule),
		ApprovalState:   string(b.ApprovalState),
		RejectionReason: b.RejectionReason,
		Imported:        b.Imported,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}

// FromDomainEventList конвертирует бронирования в публичный список мероприятий
func FromDomainEventList(bookings []*domain.Booking) *EventListResponse {
	resp := &EventListResponse{
		Events: make([]EventResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Events = append(resp.Events, EventResponse{
			ID:             b.ID,
			VenueID:        b.VenueID,
			VenueName:      b.VenueName,
			EventName:      b.EventName,
			Organizer:      b.Organizer,
			Department:     b.Department,
			Institution:    b.Institution,
			OrganizingClub: b.OrganizingClub,
			Schedule:       FromDomainSchedule(b.Schedule),
		})
	}
	return resp
}

// ParseState конвертирует строку фильтра в статус согласования
func ParseState(s *string) (*domain.ApprovalState, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	state, err := domain.ParseApprovalState(*s)
	if err != nil {
		return nil, err
	}
	return &state, nil
}
