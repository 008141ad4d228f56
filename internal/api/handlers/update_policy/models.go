package update_policy

import (
	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	"github.com/m04kA/SMC-HallBookingService/internal/service/policy/models"
)

// UpdatePolicyRequest HTTP request model
// Передаются только изменяемые поля
type UpdatePolicyRequest struct {
	VenueID                 *int64   `json:"venueId,omitempty"`
	AutoApproveRoles        []string `json:"autoApproveRoles,omitempty"`
	AdvanceBookingDays      *int     `json:"advanceBookingDays,omitempty"`
	MinBookingNoticeMinutes *int     `json:"minBookingNoticeMinutes,omitempty"`
	MaxSpanDays             *int     `json:"maxSpanDays,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdatePolicyRequest) ToServiceRequest(identity domain.Identity) *models.UpsertPolicyRequest {
	return &models.UpsertPolicyRequest{
		Identity:                identity,
		VenueID:                 r.VenueID,
		AutoApproveRoles:        r.AutoApproveRoles,
		AdvanceBookingDays:      r.AdvanceBookingDays,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
		MaxSpanDays:             r.MaxSpanDays,
	}
}
