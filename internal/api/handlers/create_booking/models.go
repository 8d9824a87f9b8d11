package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	createBooking "github.com/m04kA/SMC-BarberShop/internal/usecase/create_booking"
	"github.com/m04kA/SMC-BarberShop/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time slot")
)

// CreateBookingRequest HTTP request model
// Имя и телефон необязательны: по умолчанию берутся из токена
type CreateBookingRequest struct {
	Date     string  `json:"date" validate:"required"`     // "2025-10-15"
	TimeSlot string  `json:"timeSlot" validate:"required"` // "10:00"
	Category string  `json:"category" validate:"omitempty,oneof=regular reserved"`
	Name     string  `json:"name" validate:"max=100"`
	Phone    string  `json:"phone" validate:"max=32"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64   `json:"id"`
	CustomerID    string  `json:"customerId"`
	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	Date          string  `json:"date"`
	TimeSlot      string  `json:"timeSlot"`
	Category      string  `json:"category"`
	Status        string  `json:"status"`
	Notes         *string `json:"notes,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(session *domain.Session) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	slot, err := types.NewTimeStringFromString(r.TimeSlot)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	category := domain.SlotCategory(r.Category)
	if category == "" {
		category = domain.CategoryRegular
	}

	return &createBooking.Request{
		Session:  session,
		Date:     date,
		TimeSlot: slot,
		Category: category,
		Name:     r.Name,
		Phone:    r.Phone,
		Notes:    r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:            resp.ID,
		CustomerID:    resp.CustomerID,
		CustomerName:  resp.CustomerName,
		CustomerPhone: resp.CustomerPhone,
		Date:          resp.Date.Format(domain.DateFormat),
		TimeSlot:      resp.TimeSlot.String(),
		Category:      string(resp.Category),
		Status:        string(resp.Status),
		Notes:         resp.Notes,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
}
