package import_bookings

import "github.com/m04kA/SMC-HallBookingService/internal/domain"

// Статусы строки импорта
const (
	RowImported = "imported"
	RowSkipped  = "skipped"
)

// Request модель запроса на импорт расписания
// Institution и Phone общие для всех строк: контакт отвечающего за расписание
type Request struct {
	Identity    domain.Identity
	Institution string
	Phone       string
	Rows        []Row
}

// Row строка расписания
// Даты в формате YYYY-MM-DD, время HH:MM, Weekday необязателен
type Row struct {
	VenueName  string
	EventName  string
	Organizer  string
	Department string
	Batch      string
	Weekday    string
	StartDate  string
	EndDate    string
	StartTime  string
	EndTime    string
}

// Response итог импорта
type Response struct {
	Total    int
	Imported int
	Skipped  int
	Results  []RowResult
}

// RowResult результат обработки одной строки
type RowResult struct {
	Row       int // Номер строки, начиная с 1
	Status    string
	BookingID *int64
	Reason    string
}
