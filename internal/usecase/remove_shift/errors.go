package remove_shift

import "errors"

var (
	// ErrForbidden возвращается, когда операцию вызывает не администратор
	ErrForbidden = errors.New("remove_shift: admin role required")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("remove_shift: invalid input data")

	// ErrShiftNotFound возвращается, когда смены нет или она относится к другой дате
	ErrShiftNotFound = errors.New("remove_shift: shift window not found")

	// ErrConflictsChanged возвращается, когда набор конфликтующих бронирований
	// изменился с момента подтверждения; ничего не записано
	ErrConflictsChanged = errors.New("remove_shift: conflicting bookings changed")

	// ErrRemovalFailed возвращается, когда удаление откатилось целиком
	ErrRemovalFailed = errors.New("remove_shift: removal failed and was rolled back")
)
