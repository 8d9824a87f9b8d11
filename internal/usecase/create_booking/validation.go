package create_booking

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

// validateRequest проверяет и нормализует входные данные
// Пустые имя и телефон заполняются из сессии
func validateRequest(req *Request) error {
	if req == nil || !req.Session.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.TimeSlot.Validate(); err != nil {
		return fmt.Errorf("%w: invalid timeSlot: %v", ErrInvalidInput, err)
	}

	if !req.Category.IsValid() {
		return fmt.Errorf("%w: category must be %q or %q", ErrInvalidInput, domain.CategoryRegular, domain.CategoryReserved)
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		req.Name = strings.TrimSpace(req.Session.Name)
	}
	if req.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.Name) > domain.MaxNameLength {
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, domain.MaxNameLength)
	}

	phone := req.Phone
	if strings.TrimSpace(phone) == "" {
		phone = req.Session.Phone
	}
	normalized, err := domain.NormalizePhone(phone)
	if err != nil {
		return fmt.Errorf("%w: phone: %v", ErrInvalidInput, err)
	}
	req.Phone = normalized

	if req.Notes != nil {
		notes := strings.TrimSpace(*req.Notes)
		if utf8.RuneCountInString(notes) > domain.MaxNotesLength {
			return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
		}
		if notes == "" {
			req.Notes = nil
		} else {
			req.Notes = &notes
		}
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом и (для клиента) в пределах горизонта
func validateDate(req *Request, now time.Time, loc *time.Location, horizonDays int) error {
	if domain.IsPastDate(req.Date, now, loc) {
		return fmt.Errorf("%w: %s is in the past", ErrInvalidDate, req.Date.Format(domain.DateFormat))
	}

	if !req.Session.IsAdmin() && domain.IsBeyondHorizon(req.Date, now, loc, horizonDays) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, horizonDays)
	}

	return nil
}

// validateSlotOffered проверяет, что слот порождается сменами дня в запрошенной категории
func validateSlotOffered(req *Request, windows []*domain.ShiftWindow, slotDurationMinutes int) error {
	categories := domain.OfferedCategories(windows, slotDurationMinutes, req.TimeSlot)
	if len(categories) == 0 {
		return fmt.Errorf("%w: %s", ErrSlotNotOffered, req.TimeSlot)
	}

	for _, c := range categories {
		if c == req.Category {
			return nil
		}
	}

	return fmt.Errorf("%w: %s is offered as %s", ErrCategoryMismatch, req.TimeSlot, categories[0])
}
