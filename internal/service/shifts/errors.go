package shifts

import "errors"

var (
	// ErrAccessDenied возвращается, когда смены меняет не администратор
	ErrAccessDenied = errors.New("shifts: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("shifts: invalid input data")

	// ErrDuplicateShift возвращается при попытке добавить уже существующую смену
	ErrDuplicateShift = errors.New("shifts: duplicate shift window")

	// ErrBookingsUncovered возвращается, когда новый список смен оставляет бронирования без смены
	ErrBookingsUncovered = errors.New("shifts: bookings would lose their shift")

	// ErrConcurrentEdit возвращается, когда смены дня одновременно меняет другой запрос
	ErrConcurrentEdit = errors.New("shifts: day was modified concurrently")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("shifts: internal error")
)

// UncoveredError содержит бронирования, которые остались бы без смены
type UncoveredError struct {
	BookingIDs []int64
}

func (e *UncoveredError) Error() string {
	return ErrBookingsUncovered.Error()
}

func (e *UncoveredError) Unwrap() error {
	return ErrBookingsUncovered
}
