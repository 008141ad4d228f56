package venuedirectory

import "errors"

var (
	// ErrVenueNotFound возвращается, когда площадка не найдена в справочнике
	ErrVenueNotFound = errors.New("venue not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("venuedirectory client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("venuedirectory client: invalid response")
)
