package reschedule_booking

import (
	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	"github.com/m04kA/SMC-HallBookingService/internal/service/bookings/models"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	Schedule models.ScheduleDTO `json:"schedule"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *RescheduleRequest) ToServiceRequest(identity domain.Identity) *models.RescheduleRequest {
	return &models.RescheduleRequest{
		Identity: identity,
		Schedule: r.Schedule,
	}
}
