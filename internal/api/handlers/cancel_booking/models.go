package cancel_booking

import (
	"github.com/m04kA/SMC-BarberShop/internal/domain"
	"github.com/m04kA/SMC-BarberShop/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model; тело запроса необязательно
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty" validate:"omitempty,max=500"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(session *domain.Session, bookingID int64) *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		Session:   session,
		BookingID: bookingID,
		Reason:    r.CancellationReason,
	}
}
