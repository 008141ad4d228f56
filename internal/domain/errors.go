package domain

import "errors"

var (
	// ErrInvalidRange возвращается, когда временной диапазон пуст (start >= end)
	ErrInvalidRange = errors.New("domain: invalid time range")

	// ErrInvalidSchedule возвращается при некорректном сочетании полей расписания
	ErrInvalidSchedule = errors.New("domain: invalid schedule")

	// ErrInvalidGranularity возвращается при недопустимом шаге слотов
	ErrInvalidGranularity = errors.New("domain: invalid slot granularity")

	// ErrInvalidTransition возвращается при недопустимой смене статуса согласования
	ErrInvalidTransition = errors.New("domain: invalid approval transition")

	// ErrRejectionReasonRequired возвращается при отклонении без причины
	ErrRejectionReasonRequired = errors.New("domain: rejection reason is required")

	// ErrRejectionReasonTooLong возвращается, когда причина отклонения слишком длинная
	ErrRejectionReasonTooLong = errors.New("domain: rejection reason is too long")

	// ErrInvalidRole возвращается для неизвестной роли
	ErrInvalidRole = errors.New("domain: invalid role")

	// ErrDateInPast возвращается, когда мероприятие начинается в прошлом
	ErrDateInPast = errors.New("domain: event date is in the past")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("domain: date is too far in the future")

	// ErrTooLateToBook возвращается, когда бронирование нарушает minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("domain: too late to book this time")

	// ErrSpanTooLong возвращается, когда multi-day бронирование длиннее maxSpanDays
	ErrSpanTooLong = errors.New("domain: date range is too long")
)
