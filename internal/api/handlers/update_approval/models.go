package update_approval

import (
	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	"github.com/m04kA/SMC-HallBookingService/internal/service/bookings/models"
)

// UpdateApprovalRequest HTTP request model
type UpdateApprovalRequest struct {
	State  string  `json:"state"`            // approved | rejected | pending
	Reason *string `json:"reason,omitempty"` // Обязательна для rejected
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateApprovalRequest) ToServiceRequest(identity domain.Identity) *models.UpdateApprovalRequest {
	reason := ""
	if r.Reason != nil {
		reason = *r.Reason
	}

	return &models.UpdateApprovalRequest{
		Identity: identity,
		State:    r.State,
		Reason:   reason,
	}
}
