package join_waitlist

import (
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	"github.com/m04kA/SMC-BarberShop/internal/service/waitlist/models"
)

// JoinWaitlistRequest HTTP request model
type JoinWaitlistRequest struct {
	Date  string `json:"date" validate:"required"`
	Name  string `json:"name" validate:"max=100"`
	Phone string `json:"phone" validate:"max=32"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *JoinWaitlistRequest) ToServiceRequest(session *domain.Session) (*models.JoinRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}
	return &models.JoinRequest{
		Session: session,
		Date:    date,
		Name:    r.Name,
		Phone:   r.Phone,
	}, nil
}
