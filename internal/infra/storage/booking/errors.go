package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotTaken возвращается, когда на (дату, слот) уже есть активное бронирование
	ErrSlotTaken = errors.New("booking.repository: slot already taken")

	// ErrSerializationFailure возвращается, когда Postgres отклонил конкурентную транзакцию
	ErrSerializationFailure = errors.New("booking.repository: serialization failure")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")

	// ErrListener возвращается при ошибке подписки на изменения бронирований
	ErrListener = errors.New("booking.repository: listener error")
)
