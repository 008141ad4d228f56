package models

import (
	"time"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
)

// Уровни политики
const (
	LevelVenue   = "venue"
	LevelGlobal  = "global"
	LevelDefault = "default"
)

// Request модели

// UpsertPolicyRequest запрос на создание или обновление политики
// Все поля правил опциональны - обновляются только переданные значения
type UpsertPolicyRequest struct {
	Identity                domain.Identity `json:"-"`
	VenueID                 *int64          `json:"venueId,omitempty"` // NULL = глобальная политика
	AutoApproveRoles        []string        `json:"autoApproveRoles,omitempty"`
	AdvanceBookingDays      *int            `json:"advanceBookingDays,omitempty"`
	MinBookingNoticeMinutes *int            `json:"minBookingNoticeMinutes,omitempty"`
	MaxSpanDays             *int            `json:"maxSpanDays,omitempty"`
}

// DeletePolicyRequest запрос на удаление политики (площадка возвращается к глобальной)
type DeletePolicyRequest struct {
	Identity domain.Identity
	VenueID  *int64
}

// Response модели

// PolicyResponse ответ с данными политики
type PolicyResponse struct {
	ID                      int64     `json:"id,omitempty"`
	VenueID                 *int64    `json:"venueId,omitempty"`
	Level                   string    `json:"level"`
	AutoApproveRoles        []string  `json:"autoApproveRoles"`
	AdvanceBookingDays      int       `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int       `json:"minBookingNoticeMinutes"`
	MaxSpanDays             int       `json:"maxSpanDays"`
	CreatedAt               time.Time `json:"createdAt,omitempty"`
	UpdatedAt               time.Time `json:"updatedAt,omitempty"`
}

// Методы конвертации

// FromDomainPolicy конвертирует domain модель в DTO
func FromDomainPolicy(p *domain.BookingPolicy) *PolicyResponse {
	if p == nil {
		return nil
	}

	roles := p.AutoApproveRoles
	if roles == nil {
		roles = []string{}
	}

	return &PolicyResponse{
		ID:                      p.ID,
		VenueID:                 p.VenueID,
		Level:                   levelOf(p),
		AutoApproveRoles:        roles,
		AdvanceBookingDays:      p.AdvanceBookingDays,
		MinBookingNoticeMinutes: p.MinBookingNoticeMinutes,
		MaxSpanDays:             p.MaxSpanDays,
		CreatedAt:               p.CreatedAt,
		UpdatedAt:               p.UpdatedAt,
	}
}

// ApplyToPolicy применяет обновления к политике
// Обновляются только непустые (not nil) поля из request
func (r *UpsertPolicyRequest) ApplyToPolicy(p *domain.BookingPolicy) {
	if r.AutoApproveRoles != nil {
		p.AutoApproveRoles = r.AutoApproveRoles
	}
	if r.AdvanceBookingDays != nil {
		p.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.MinBookingNoticeMinutes != nil {
		p.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
	if r.MaxSpanDays != nil {
		p.MaxSpanDays = *r.MaxSpanDays
	}
}

func levelOf(p *domain.BookingPolicy) string {
	switch {
	case p.ID == 0:
		return LevelDefault
	case p.IsGlobal():
		return LevelGlobal
	default:
		return LevelVenue
	}
}
