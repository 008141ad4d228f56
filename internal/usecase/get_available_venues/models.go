package get_available_venues

import (
	"time"

	"github.com/m04kA/SMC-HallBookingService/pkg/types"
)

// Сообщения для пустого результата
const (
	MessageInvalidRange = "Invalid time range: start time must be before end time"
	MessageNoneFree     = "No venues are available for the selected time"
)

// Request модель запроса свободных площадок
type Request struct {
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Response модель ответа со списком свободных площадок
// Пустой список всегда сопровождается Message
type Response struct {
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Venues    []Venue
	Message   string
}

// Venue свободная площадка
type Venue struct {
	ID       int64
	Name     string
	Capacity int
	Location string
}

// ConflictsRequest модель запроса занятых слотов площадки
type ConflictsRequest struct {
	VenueID   int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
}

// ConflictsResponse занятые слоты из запрошенного диапазона
type ConflictsResponse struct {
	VenueID   int64
	Date      time.Time
	Requested []int
	Occupied  []int
}

// Free true, если весь диапазон свободен
func (r *ConflictsResponse) Free() bool {
	return len(r.Occupied) == 0
}
