package models

import (
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	"github.com/m04kA/SMC-BarberShop/pkg/types"
)

// WindowInput смена во входящем запросе
type WindowInput struct {
	Start    types.TimeString
	End      types.TimeString
	Category domain.SlotCategory
}

// AddShiftRequest запрос на добавление смены
type AddShiftRequest struct {
	Session *domain.Session
	Date    time.Time
	Window  WindowInput
}

// SetDayRequest запрос на полную замену смен дня
// Пустой список закрывает день
type SetDayRequest struct {
	Session *domain.Session
	Date    time.Time
	Windows []WindowInput
}

// ShiftResponse смена в ответе
type ShiftResponse struct {
	ID       string `json:"id"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Category string `json:"category"`
}

// DayResponse смены на дату
type DayResponse struct {
	Date   string          `json:"date"`
	Open   bool            `json:"open"`
	Shifts []ShiftResponse `json:"shifts"`
}

// OpenDaysResponse даты, на которые есть смены
type OpenDaysResponse struct {
	Dates []string `json:"dates"`
}

// FromDomainWindow конвертирует domain модель в DTO
func FromDomainWindow(w *domain.ShiftWindow) ShiftResponse {
	return ShiftResponse{
		ID:       w.ID.String(),
		Start:    w.Start.String(),
		End:      w.End.String(),
		Category: string(w.Category),
	}
}

// FromDomainDay конвертирует смены дня в DTO
func FromDomainDay(date time.Time, windows []*domain.ShiftWindow) *DayResponse {
	resp := &DayResponse{
		Date:   date.Format(domain.DateFormat),
		Open:   len(windows) > 0,
		Shifts: make([]ShiftResponse, 0, len(windows)),
	}
	for _, w := range windows {
		resp.Shifts = append(resp.Shifts, FromDomainWindow(w))
	}
	return resp
}
