package remove_shift

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	"github.com/m04kA/SMC-BarberShop/pkg/types"
)

// State состояние процесса удаления смены
type State string

const (
	StateProposed             State = "proposed"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateApplying             State = "applying"
	StateApplied              State = "applied"
	StateCancelled            State = "cancelled"
)

// Request модель запроса на удаление смены
type Request struct {
	Session  *domain.Session
	Date     time.Time
	WindowID uuid.UUID
}

// ConfirmRequest модель подтверждения удаления с каскадной отменой
// CascadeCancel - идентификаторы бронирований, которые администратор видел и согласился отменить
type ConfirmRequest struct {
	Request
	CascadeCancel []int64
}

// Conflict бронирование, попадающее в удаляемую смену
type Conflict struct {
	BookingID     int64
	CustomerName  string
	CustomerPhone string
	TimeSlot      types.TimeString
}

// Result модель ответа
type Result struct {
	State     State
	Window    *domain.ShiftWindow
	Conflicts []Conflict
	Canceled  []int64
}

func toConflicts(bookings []*domain.Booking) []Conflict {
	conflicts := make([]Conflict, 0, len(bookings))
	for _, b := range bookings {
		conflicts = append(conflicts, Conflict{
			BookingID:     b.ID,
			CustomerName:  b.CustomerName,
			CustomerPhone: b.CustomerPhone,
			TimeSlot:      b.TimeSlot,
		})
	}
	return conflicts
}
