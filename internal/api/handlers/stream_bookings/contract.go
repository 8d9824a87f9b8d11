package stream_bookings

import (
	"context"

	bookingRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BarberShop/internal/service/bookings/models"
)

type BookingService interface {
	List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error)
}

// ChangeSource источник сигналов об изменении бронирований
type ChangeSource interface {
	Subscribe(buffer int) (<-chan bookingRepo.Change, func())
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
