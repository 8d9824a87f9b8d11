package waitlist

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	"github.com/m04kA/SMC-BarberShop/internal/service/waitlist/models"
)

// Service сервис листа ожидания на полностью занятые дни
type Service struct {
	waitlistRepo WaitlistRepository
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса листа ожидания
func NewService(waitlistRepo WaitlistRepository, location *time.Location, logger Logger) *Service {
	return &Service{
		waitlistRepo: waitlistRepo,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Join добавляет клиента в лист ожидания на дату
func (s *Service) Join(ctx context.Context, req *models.JoinRequest) (*models.WaitlistResponse, error) {
	if req == nil || !req.Session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	date := domain.DateIn(req.Date, s.location)
	if domain.IsPastDate(date, s.timeProvider.Now(), s.location) {
		return nil, fmt.Errorf("%w: date is in the past", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = strings.TrimSpace(req.Session.Name)
	}
	if name == "" || utf8.RuneCountInString(name) > domain.MaxNameLength {
		return nil, fmt.Errorf("%w: name is required and must be at most %d characters", ErrInvalidInput, domain.MaxNameLength)
	}

	phone := req.Phone
	if strings.TrimSpace(phone) == "" {
		phone = req.Session.Phone
	}
	phone, err := domain.NormalizePhone(phone)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	customerID := req.Session.UserID

	s.logger.Info("Join: customer=%s, date=%s", customerID, date.Format(domain.DateFormat))

	created, err := s.waitlistRepo.Create(ctx, &domain.WaitlistRequest{
		Date:       date,
		Name:       name,
		Phone:      phone,
		CustomerID: &customerID,
	})
	if err != nil {
		s.logger.Error("Join: repository error: %v", err)
		return nil, fmt.Errorf("%w: Join - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Join: created waitlist request id=%d", created.ID)
	resp := models.FromDomainRequest(created)
	return &resp, nil
}

// List возвращает заявки на дату (только администратор)
func (s *Service) List(ctx context.Context, session *domain.Session, date time.Time) (*models.WaitlistListResponse, error) {
	if !session.IsAdmin() {
		return nil, ErrAccessDenied
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	date = domain.DateIn(date, s.location)

	requests, err := s.waitlistRepo.ListByDate(ctx, date)
	if err != nil {
		s.logger.Error("List: repository error for date=%s: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &models.WaitlistListResponse{
		Date:     date.Format(domain.DateFormat),
		Requests: make([]models.WaitlistResponse, 0, len(requests)),
	}
	for _, r := range requests {
		resp.Requests = append(resp.Requests, models.FromDomainRequest(r))
	}
	return resp, nil
}
