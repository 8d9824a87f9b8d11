package list_bookings

import (
	"net/http"

	"github.com/m04kA/SMC-BarberShop/internal/api/handlers"
	"github.com/m04kA/SMC-BarberShop/internal/domain"
	"github.com/m04kA/SMC-BarberShop/internal/service/bookings/models"
)

// ParseRequest собирает фильтр списка из query параметров
// Используется и для снимка, и для SSE потока
func ParseRequest(r *http.Request, session *domain.Session) (*models.ListBookingsRequest, error) {
	from, err := handlers.OptionalQueryDate(r, "from")
	if err != nil {
		return nil, err
	}
	to, err := handlers.OptionalQueryDate(r, "to")
	if err != nil {
		return nil, err
	}

	return &models.ListBookingsRequest{
		Session:         session,
		StartDate:       from,
		EndDate:         to,
		Status:          handlers.OptionalQueryString(r, "status"),
		IncludeCanceled: handlers.QueryBool(r, "includeCanceled"),
	}, nil
}
