package import_bookings

import (
	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	importBookings "github.com/m04kA/SMC-HallBookingService/internal/usecase/import_bookings"
)

// ImportRequest HTTP request model
type ImportRequest struct {
	Institution string      `json:"institution"`
	Phone       string      `json:"phone"`
	Rows        []ImportRow `json:"rows"`
}

// ImportRow строка расписания
type ImportRow struct {
	VenueName  string `json:"venueName"`
	EventName  string `json:"eventName"`
	Organizer  string `json:"organizer"`
	Department string `json:"department"`
	Batch      string `json:"batch,omitempty"`
	Weekday    string `json:"weekday,omitempty"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
}

// ImportResponse HTTP response model
type ImportResponse struct {
	Total    int         `json:"total"`
	Imported int         `json:"imported"`
	Skipped  int         `json:"skipped"`
	Results  []RowResult `json:"results"`
}

// RowResult итог строки
type RowResult struct {
	Row       int    `json:"row"`
	Status    string `json:"status"`
	BookingID *int64 `json:"bookingId,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ImportRequest) ToUseCaseRequest(identity domain.Identity) *importBookings.Request {
	rows := make([]importBookings.Row, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = importBookings.Row{
			VenueName:  row.VenueName,
			EventName:  row.EventName,
			Organizer:  row.Organizer,
			Department: row.Department,
			Batch:      row.Batch,
			Weekday:    row.Weekday,
			StartDate:  row.StartDate,
			EndDate:    row.EndDate,
			StartTime:  row.StartTime,
			EndTime:    row.EndTime,
		}
	}

	return &importBookings.Request{
		Identity:    identity,
		Institution: r.Institution,
		Phone:       r.Phone,
		Rows:        rows,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *importBookings.Response) *ImportResponse {
	results := make([]RowResult, len(resp.Results))
	for i, res := range resp.Results {
		results[i] = RowResult{
			Row:       res.Row,
			Status:    res.Status,
			BookingID: res.BookingID,
			Reason:    res.Reason,
		}
	}

	return &ImportResponse{
		Total:    resp.Total,
		Imported: resp.Imported,
		Skipped:  resp.Skipped,
		Results:  results,
	}
}
