package create_booking

import "errors"

var (
	// ErrNotAuthenticated возвращается, когда запрос выполняется без сессии
	ErrNotAuthenticated = errors.New("create_booking: not authenticated")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInvalidDate возвращается для даты в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата дальше горизонта бронирования
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrDayClosed возвращается, когда на дату нет ни одной смены
	ErrDayClosed = errors.New("create_booking: day is closed")

	// ErrSlotNotOffered возвращается, когда ни одна смена дня не порождает этот слот
	ErrSlotNotOffered = errors.New("create_booking: slot is not offered on this day")

	// ErrCategoryMismatch возвращается, когда слот есть, но в другой категории
	ErrCategoryMismatch = errors.New("create_booking: slot is not offered in this category")

	// ErrTooLateToBook возвращается, когда время слота уже наступило
	ErrTooLateToBook = errors.New("create_booking: slot time has already passed")

	// ErrSlotTaken возвращается, когда слот уже занят другим бронированием
	ErrSlotTaken = errors.New("create_booking: slot already taken")

	// ErrStoreUnavailable возвращается, когда хранилище не смогло подтвердить результат
	ErrStoreUnavailable = errors.New("create_booking: store unavailable")
)
