package venuedirectory

// Venue модель площадки из справочника площадок
type Venue struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Capacity   int    `json:"capacity"`
	Location   string `json:"location"`
	OwnerID    int64  `json:"ownerId"`    // Ответственный за площадку (согласует заявки)
	OwnerEmail string `json:"ownerEmail"` // Куда отправлять уведомления о новых заявках
}

// ErrorResponse модель ошибки от справочника площадок
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
