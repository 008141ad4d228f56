package get_available_venues

import (
	"time"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	getAvailableVenues "github.com/m04kA/SMC-HallBookingService/internal/usecase/get_available_venues"
	"github.com/m04kA/SMC-HallBookingService/pkg/types"
)

// AvailableVenuesResponse HTTP response model
type AvailableVenuesResponse struct {
	Date      string           `json:"date"`
	StartTime string           `json:"startTime"`
	EndTime   string           `json:"endTime"`
	Venues    []AvailableVenue `json:"venues"`
	Message   string           `json:"message,omitempty"`
}

// AvailableVenue свободная площадка
type AvailableVenue struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Location string `json:"location,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableVenues.Response) *AvailableVenuesResponse {
	venues := make([]AvailableVenue, len(resp.Venues))
	for i, v := range resp.Venues {
		venues[i] = AvailableVenue{
			ID:       v.ID,
			Name:     v.Name,
			Capacity: v.Capacity,
			Location: v.Location,
		}
	}

	return &AvailableVenuesResponse{
		Date:      resp.Date.Format(domain.DateFormat),
		StartTime: resp.StartTime.String(),
		EndTime:   resp.EndTime.String(),
		Venues:    venues,
		Message:   resp.Message,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
// Формат времени проверяет use case
func ToUseCaseRequest(dateStr, startStr, endStr string) (*getAvailableVenues.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableVenues.Request{
		Date:      date,
		StartTime: types.TimeString(startStr),
		EndTime:   types.TimeString(endStr),
	}, nil
}
