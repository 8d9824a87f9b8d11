package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("bookings: booking not found")

	// ErrNotAuthenticated возвращается, когда запрос выполняется без сессии
	ErrNotAuthenticated = errors.New("bookings: not authenticated")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("bookings: access denied")

	// ErrCannotCancel возвращается, когда бронирование уже не в статусе upcoming
	ErrCannotCancel = errors.New("bookings: booking cannot be canceled")

	// ErrCancellationCutoff возвращается, когда до начала записи меньше допустимого окна отмены
	ErrCancellationCutoff = errors.New("bookings: too late to cancel")

	// ErrInvalidTransition возвращается при недопустимой смене статуса
	ErrInvalidTransition = errors.New("bookings: invalid status transition")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bookings: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)
