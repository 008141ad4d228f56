package get_booking

import (
	"time"

	"github.com/m04kA/SMC-HallBookingService/internal/service/bookings/models"
)

// BookingDetailsResponse карточка бронирования
// Время в RFC3339, как в ответе на создание
type BookingDetailsResponse struct {
	ID              int64              `json:"id"`
	RequesterID     int64              `json:"requesterId"`
	RequesterRole   string             `json:"requesterRole"`
	VenueID         int64              `json:"venueId"`
	VenueName       string             `json:"venueName"`
	EventName       string             `json:"eventName"`
	Organizer       string             `json:"organizer"`
	Department      string             `json:"department"`
	Institution     string             `json:"institution"`
	OrganizingClub  *string            `json:"organizingClub,omitempty"`
	Phone           string             `json:"phone"`
	AltPhone        *string            `json:"altPhone,omitempty"`
	Schedule        models.ScheduleDTO `json:"schedule"`
	ApprovalState   string             `json:"approvalState"`
	RejectionReason *string            `json:"rejectionReason,omitempty"`
	Imported        bool               `json:"imported"`
	CreatedAt       string             `json:"createdAt"`
	UpdatedAt       string             `json:"updatedAt"`
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(b *models.BookingResponse) *BookingDetailsResponse {
	return &BookingDetailsResponse{
		ID:              b.ID,
		RequesterID:     b.RequesterID,
		RequesterRole:   b.RequesterRole,
		VenueID:         b.VenueID,
		VenueName:       b.VenueName,
		EventName:       b.EventName,
		Organizer:       b.Organizer,
		Department:      b.Department,
		Institution:     b.Institution,
		OrganizingClub:  b.OrganizingClub,
		Phone:           b.Phone,
		AltPhone:        b.AltPhone,
		Schedule:        b.Schedule,
		ApprovalState:   b.ApprovalState,
		RejectionReason: b.RejectionReason,
		Imported:        b.Imported,
		CreatedAt:       b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       b.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
