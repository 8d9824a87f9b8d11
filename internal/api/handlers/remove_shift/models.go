package remove_shift

import (
	removeShift "github.com/m04kA/SMC-BarberShop/internal/usecase/remove_shift"
)

// ConfirmRequest HTTP request model
// cascadeCancel - бронирования из списка конфликтов, которые администратор согласился отменить
type ConfirmRequest struct {
	CascadeCancel []int64 `json:"cascadeCancel" validate:"dive,gt=0"`
}

// ConflictResponse конфликтующее бронирование
type ConflictResponse struct {
	BookingID     int64  `json:"bookingId"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	TimeSlot      string `json:"timeSlot"`
}

// RemovalResponse HTTP response model
type RemovalResponse struct {
	State     string             `json:"state"`
	ShiftID   string             `json:"shiftId,omitempty"`
	Start     string             `json:"start,omitempty"`
	End       string             `json:"end,omitempty"`
	Category  string             `json:"category,omitempty"`
	Conflicts []ConflictResponse `json:"conflicts"`
	Canceled  []int64            `json:"canceled"`
}

// FromUseCaseResult конвертирует результат use case в HTTP response
func FromUseCaseResult(res *removeShift.Result) *RemovalResponse {
	out := &RemovalResponse{
		State:     string(res.State),
		Conflicts: make([]ConflictResponse, 0, len(res.Conflicts)),
		Canceled:  make([]int64, 0, len(res.Canceled)),
	}
	if res.Window != nil {
		out.ShiftID = res.Window.ID.String()
		out.Start = res.Window.Start.String()
		out.End = res.Window.End.String()
		out.Category = string(res.Window.Category)
	}
	for _, c := range res.Conflicts {
		out.Conflicts = append(out.Conflicts, ConflictResponse{
			BookingID:     c.BookingID,
			CustomerName:  c.CustomerName,
			CustomerPhone: c.CustomerPhone,
			TimeSlot:      c.TimeSlot.String(),
		})
	}
	out.Canceled = append(out.Canceled, res.Canceled...)
	return out
}
