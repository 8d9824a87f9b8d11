package finance

import "errors"

var (
	// ErrAccessDenied возвращается, когда к финансам обращается не администратор
	ErrAccessDenied = errors.New("finance: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("finance: invalid input data")

	// ErrReport возвращается при ошибке формирования отчёта
	ErrReport = errors.New("finance: failed to build report")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("finance: internal error")
)
