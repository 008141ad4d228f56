package create_booking

import (
	"time"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	"github.com/m04kA/SMC-HallBookingService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-HallBookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	VenueID        int64              `json:"venueId"`
	EventName      string             `json:"eventName"`
	Organizer      string             `json:"organizer"`
	Department     string             `json:"department"`
	Institution    string             `json:"institution"`
	OrganizingClub *string            `json:"organizingClub,omitempty"`
	Phone          string             `json:"phone"`
	AltPhone       *string            `json:"altPhone,omitempty"`
	Schedule       models.ScheduleDTO `json:"schedule"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID             int64              `json:"id"`
	RequesterID    int64              `json:"requesterId"`
	VenueID        int64              `json:"venueId"`
	VenueName      string             `json:"venueName"`
	EventName      string             `json:"eventName"`
	Organizer      string             `json:"organizer"`
	Department     string             `json:"department"`
	Institution    string             `json:"institution"`
	OrganizingClub *string            `json:"organizingClub,omitempty"`
	Phone          string             `json:"phone"`
	AltPhone       *string            `json:"altPhone,omitempty"`
	Schedule       models.ScheduleDTO `json:"schedule"`
	ApprovalState  string             `json:"approvalState"`
	SlotCount      int                `json:"slotCount"`
	CreatedAt      string             `json:"createdAt"`
	UpdatedAt      string             `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Заявитель берется из токена, а не из тела
func (r *CreateBookingRequest) ToUseCaseRequest(identity domain.Identity) (*createBooking.Request, error) {
	schedule, err := r.Schedule.ToDomain()
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		Identity:       identity,
		VenueID:        r.VenueID,
		EventName:      r.EventName,
		Organizer:      r.Organizer,
		Department:     r.Department,
		Institution:    r.Institution,
		OrganizingClub: r.OrganizingClub,
		Phone:          r.Phone,
		AltPhone:       r.AltPhone,
		Schedule:       schedule,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:             resp.ID,
		RequesterID:    resp.RequesterID,
		VenueID:        resp.VenueID,
		VenueName:      resp.VenueName,
		EventName:      resp.EventName,
		Organizer:      resp.Organizer,
		Department:     resp.Department,
		Institution:    resp.Institution,
		OrganizingClub: resp.OrganizingClub,
		Phone:          resp.Phone,
		AltPhone:       resp.AltPhone,
		Schedule:       models.FromDomainSchedule(resp.Schedule),
		ApprovalState:  string(resp.ApprovalState),
		SlotCount:      resp.SlotCount,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      resp.UpdatedAt.Format(time.RFC3339),
	}
}
