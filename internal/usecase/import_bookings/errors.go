package import_bookings

import "errors"

var (
	// ErrAccessDenied возвращается, когда импорт запускает не администратор
	ErrAccessDenied = errors.New("import_bookings: access denied")

	// ErrInvalidInput возвращается при некорректном наборе строк
	ErrInvalidInput = errors.New("import_bookings: invalid input data")
)
