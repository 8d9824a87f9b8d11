package create_booking

import (
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	"github.com/m04kA/SMC-BarberShop/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	Session  *domain.Session     // Текущий пользователь
	Date     time.Time           // Дата бронирования (без времени)
	TimeSlot types.TimeString    // Время слота (например, "10:00")
	Category domain.SlotCategory // Категория, в которой клиент выбрал слот
	Name     string              // Имя клиента; пустое - берётся из сессии
	Phone    string              // Телефон клиента; пустой - берётся из сессии
	Notes    *string             // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            int64
	CustomerID    string
	CustomerName  string
	CustomerPhone string
	Date          time.Time
	TimeSlot      types.TimeString
	Category      domain.SlotCategory
	Status        domain.BookingStatus
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// исходы бронирования для метрик
const (
	outcomeCreated          = "created"
	outcomeSlotTaken        = "slot_taken"
	outcomeRejected         = "rejected"
	outcomeStoreUnavailable = "store_unavailable"
)
