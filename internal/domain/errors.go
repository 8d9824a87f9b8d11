package domain

import "errors"

var (
	// ErrInvalidTransition возвращается при попытке выйти из терминального статуса
	ErrInvalidTransition = errors.New("domain: invalid booking status transition")

	// ErrInvalidStatus возвращается для неизвестного статуса бронирования
	ErrInvalidStatus = errors.New("domain: invalid booking status")

	// ErrInvalidCategory возвращается для неизвестной категории слота
	ErrInvalidCategory = errors.New("domain: invalid slot category")

	// ErrInvalidShiftRange возвращается, если начало смены не раньше её конца
	ErrInvalidShiftRange = errors.New("domain: shift start must be before end")

	// ErrInvalidRole возвращается для неизвестной роли
	ErrInvalidRole = errors.New("domain: invalid role")

	// ErrInvalidPhone возвращается для номера телефона неверной длины
	ErrInvalidPhone = errors.New("domain: invalid phone number")
)
