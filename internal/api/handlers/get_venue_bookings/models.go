package get_venue_bookings

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	"github.com/m04kA/SMC-HallBookingService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(venueID int64, identity domain.Identity, stateStr, department, fromStr, toStr string) (*models.GetVenueBookingsRequest, error) {
	req := &models.GetVenueBookingsRequest{
		Identity: identity,
		VenueID:  venueID,
	}

	if stateStr != "" {
		req.State = &stateStr
	}
	if department != "" {
		req.Department = &department
	}

	var err error
	if req.From, err = parseDate("from", fromStr); err != nil {
		return nil, err
	}
	if req.To, err = parseDate("to", toStr); err != nil {
		return nil, err
	}

	return req, nil
}

func parseDate(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	date, err := time.Parse(domain.DateFormat, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value: %w", name, err)
	}
	return &date, nil
}
