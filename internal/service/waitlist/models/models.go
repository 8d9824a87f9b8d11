package models

import (
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

// JoinRequest запрос на добавление в лист ожидания
// Имя и телефон по умолчанию берутся из сессии
type JoinRequest struct {
	Session *domain.Session
	Date    time.Time
	Name    string
	Phone   string
}

// WaitlistResponse заявка в ответе
type WaitlistResponse struct {
	ID         int64     `json:"id"`
	Date       string    `json:"date"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	CustomerID *string   `json:"customerId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// WaitlistListResponse заявки на дату
type WaitlistListResponse struct {
	Date     string             `json:"date"`
	Requests []WaitlistResponse `json:"requests"`
}

// FromDomainRequest конвертирует domain модель в DTO
func FromDomainRequest(r *domain.WaitlistRequest) WaitlistResponse {
	return WaitlistResponse{
		ID:         r.ID,
		Date:       r.Date.Format(domain.DateFormat),
		Name:       r.Name,
		Phone:      r.Phone,
		CustomerID: r.CustomerID,
		CreatedAt:  r.CreatedAt,
	}
}
