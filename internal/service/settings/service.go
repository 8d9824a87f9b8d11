package settings

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	settingsRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/settings"
	"github.com/m04kA/SMC-BarberShop/internal/service/settings/models"
)

var currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

// Service сервис настроек барбершопа
type Service struct {
	settingsRepo SettingsRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(settingsRepo SettingsRepository, logger Logger) *Service {
	return &Service{
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// Get возвращает текущие настройки
// Публичный метод; пока администратор ничего не сохранил, возвращаются значения по умолчанию
func (s *Service) Get(ctx context.Context) (*models.SettingsResponse, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Warn("Get: settings not found, using defaults")
			return models.FromDomainSettings(domain.DefaultSettings()), nil
		}
		s.logger.Error("Get: repository error: %v", err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSettings(settings), nil
}

// Update частично обновляет настройки (только администратор)
// Записываются только переданные поля
func (s *Service) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	if req == nil || !req.Session.IsAdmin() {
		return nil, ErrAccessDenied
	}

	patch := req.ToDomainPatch()
	if err := validatePatch(&patch); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	s.logger.Info("Update: updating settings by user=%s", req.Session.UserID)

	updated, err := s.settingsRepo.Update(ctx, patch)
	if err != nil {
		s.logger.Error("Update: repository error: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: settings updated, slotDuration=%d, price=%s, cutoff=%d, horizon=%d",
		updated.SlotDurationMinutes, updated.PricePerCut, updated.CancellationCutoffMinutes, updated.BookingHorizonDays)
	return models.FromDomainSettings(updated), nil
}

// validatePatch валидирует переданные поля настроек
func validatePatch(p *domain.SettingsPatch) error {
	if p.SlotDurationMinutes != nil {
		v := *p.SlotDurationMinutes
		if v < domain.MinSlotDurationMinutes || v > domain.MaxSlotDurationMinutes {
			return fmt.Errorf("%w: slotDurationMinutes must be between %d and %d",
				ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
		}
	}

	if p.PricePerCut != nil && p.PricePerCut.IsNegative() {
		return fmt.Errorf("%w: pricePerCut must not be negative", ErrInvalidInput)
	}

	if p.CancellationCutoffMinutes != nil {
		v := *p.CancellationCutoffMinutes
		if v < domain.MinCancellationCutoffMinutes || v > domain.MaxCancellationCutoffMinutes {
			return fmt.Errorf("%w: cancellationCutoffMinutes must be between %d and %d",
				ErrInvalidInput, domain.MinCancellationCutoffMinutes, domain.MaxCancellationCutoffMinutes)
		}
	}

	if p.BookingHorizonDays != nil {
		v := *p.BookingHorizonDays
		if v < domain.MinBookingHorizonDays || v > domain.MaxBookingHorizonDays {
			return fmt.Errorf("%w: bookingHorizonDays must be between %d and %d",
				ErrInvalidInput, domain.MinBookingHorizonDays, domain.MaxBookingHorizonDays)
		}
	}

	if p.Currency != nil && !currencyCode.MatchString(*p.Currency) {
		return fmt.Errorf("%w: currency must be an ISO 4217 code", ErrInvalidInput)
	}

	return nil
}
