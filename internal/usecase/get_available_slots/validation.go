package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil || req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}

// validateDate проверяет дату для клиента: не в прошлом и в пределах горизонта
// Администратор может смотреть любую дату
func validateDate(req *Request, now time.Time, loc *time.Location, horizonDays int) error {
	if req.Session.IsAdmin() {
		return nil
	}

	if domain.IsPastDate(req.Date, now, loc) {
		return fmt.Errorf("%w: %s is in the past", ErrInvalidDate, req.Date.Format(domain.DateFormat))
	}

	if domain.IsBeyondHorizon(req.Date, now, loc, horizonDays) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, horizonDays)
	}

	return nil
}
