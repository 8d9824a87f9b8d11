package waitlist

import "errors"

var (
	// ErrNotAuthenticated возвращается, когда запрос выполняется без сессии
	ErrNotAuthenticated = errors.New("waitlist: not authenticated")

	// ErrAccessDenied возвращается, когда список читает не администратор
	ErrAccessDenied = errors.New("waitlist: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("waitlist: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("waitlist: internal error")
)
