package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	"github.com/m04kA/SMC-BarberShop/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	Date    time.Time       // Дата (без времени)
	Session *domain.Session // nil для анонимного просмотра
}

// Response модель ответа со слотами дня
type Response struct {
	Date                time.Time
	State               domain.DayState
	Regular             []types.TimeString
	Reserved            []types.TimeString
	SlotDurationMinutes int
}
