package settings

import (
	"context"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.BusinessSettings, error)
	Update(ctx context.Context, patch domain.SettingsPatch) (*domain.BusinessSettings, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
