package create_booking

import (
	"time"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
)

// Request модель запроса на создание бронирования
// Identity берется только из контекста аутентификации
type Request struct {
	Identity domain.Identity

	VenueID        int64   `validate:"required,gt=0"`
	EventName      string  `validate:"required,max=200"`
	Organizer      string  `validate:"required,max=255,fullname"` // Полное имя координатора
	Department     string  `validate:"required,max=255"`
	Institution    string  `validate:"required,max=255"`
	OrganizingClub *string `validate:"omitempty,max=255"`
	Phone          string  `validate:"required,phone"`
	AltPhone       *string `validate:"omitempty,phone"`

	Schedule domain.Schedule

	Imported         bool // Строка массового импорта: без проверок сроков, сразу approved
	SkipNotification bool
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID             int64
	RequesterID    int64
	VenueID        int64
	VenueName      string
	EventName      string
	Organizer      string
	Department     string
	Institution    string
	OrganizingClub *string
	Phone          string
	AltPhone       *string
	Schedule       domain.Schedule
	ApprovalState  domain.ApprovalState
	Imported       bool
	SlotCount      int // Сколько записей реестра занято

	CreatedAt time.Time
	UpdatedAt time.Time
}

func newResponse(b *domain.Booking, slotCount int) *Response {
	return &Response{
		ID:             b.ID,
		RequesterID:    b.RequesterID,
		VenueID:        b.VenueID,
		VenueName:      b.VenueName,
		EventName:      b.EventName,
		Organizer:      b.Organizer,
		Department:     b.Department,
		Institution:    b.Institution,
		OrganizingClub: b.OrganizingClub,
		Phone:          b.Phone,
		AltPhone:       b.AltPhone,
		Schedule:       b.Schedule,
		ApprovalState:  b.ApprovalState,
		Imported:       b.Imported,
		SlotCount:      slotCount,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
