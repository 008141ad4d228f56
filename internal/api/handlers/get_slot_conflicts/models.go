package get_slot_conflicts

import (
	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	getAvailableVenues "github.com/m04kA/SMC-HallBookingService/internal/usecase/get_available_venues"
)

// SlotConflictsResponse HTTP response model
type SlotConflictsResponse struct {
	VenueID   int64  `json:"venueId"`
	Date      string `json:"date"`
	Requested []int  `json:"requestedSlots"`
	Occupied  []int  `json:"occupiedSlots"`
	Free      bool   `json:"free"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableVenues.ConflictsResponse) *SlotConflictsResponse {
	return &SlotConflictsResponse{
		VenueID:   resp.VenueID,
		Date:      resp.Date.Format(domain.DateFormat),
		Requested: resp.Requested,
		Occupied:  resp.Occupied,
		Free:      resp.Free(),
	}
}
