package models

import (
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

// Request модели

// ListBookingsRequest запрос на получение списка бронирований
// Администратор видит все бронирования, клиент только свои
type ListBookingsRequest struct {
	Session         *domain.Session
	StartDate       *time.Time // Начало периода (опционально)
	EndDate         *time.Time // Конец периода (опционально)
	Status          *string    // Фильтр по статусу (опционально)
	IncludeCanceled bool       // Включить отменённые бронирования
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Session   *domain.Session
	BookingID int64
	Reason    *string
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	Session   *domain.Session
	BookingID int64
	Status    string
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64   `json:"id"`
	CustomerID    string  `json:"customerId"`
	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	Date          string  `json:"date"`     // "2025-10-15"
	TimeSlot      string  `json:"timeSlot"` // "10:00"
	Category      string  `json:"category"`
	Status        string  `json:"status"`
	Notes         *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CanceledAt         *string `json:"canceledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// CalendarResponse запись в календарь для бронирования
type CalendarResponse struct {
	Filename  string `json:"filename"`
	ICS       string `json:"ics"`
	GoogleURL string `json:"googleUrl"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		CustomerID:         b.CustomerID,
		CustomerName:       b.CustomerName,
		CustomerPhone:      b.CustomerPhone,
		Date:               b.Date.Format(domain.DateFormat),
		TimeSlot:           b.TimeSlot.String(),
		Category:           string(b.Category),
		Status:             string(b.Status),
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CanceledAt != nil {
		canceledStr := b.CanceledAt.Format(time.RFC3339)
		resp.CanceledAt = &canceledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}
