package notifier

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

// Channel канал доставки уведомления
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// Envelope сообщение, которое уходит в очередь
type Envelope struct {
	MessageID string                  `json:"messageId"`
	Kind      domain.NotificationKind `json:"kind"`
	Payload   json.RawMessage         `json:"payload"`
	CreatedAt time.Time               `json:"createdAt"`
}

// NewEnvelope собирает конверт из сообщения outbox
func NewEnvelope(m *domain.OutboxMessage) Envelope {
	return Envelope{
		MessageID: m.MessageID,
		Kind:      m.Kind,
		Payload:   m.Payload,
		CreatedAt: m.CreatedAt,
	}
}

// Rendered готовый к отправке текст уведомления
type Rendered struct {
	Channel Channel
	To      string
	Subject string
	Body    string
}

// Renderer формирует тексты уведомлений
type Renderer struct {
	BusinessName string
	OwnerEmail   string
}

// Render превращает конверт в текст для конкретного канала
func (r Renderer) Render(env Envelope) (Rendered, error) {
	var notice domain.CancellationNotice
	if err := json.Unmarshal(env.Payload, &notice); err != nil {
		return Rendered{}, fmt.Errorf("%w: message_id=%s: %v", ErrInvalidPayload, env.MessageID, err)
	}

	switch env.Kind {
	case domain.NotificationCustomerCancellation:
		return Rendered{
			Channel: ChannelSMS,
			To:      notice.CustomerPhone,
			Body: fmt.Sprintf(
				"Dear %s, unfortunately your appointment on %s at %s has been canceled due to schedule changes. Please book a new slot.",
				notice.CustomerName, notice.Date, notice.TimeSlot,
			),
		}, nil
	case domain.NotificationOwnerCancellation:
		body := fmt.Sprintf("%s (%s) canceled the appointment on %s at %s.",
			notice.CustomerName, notice.CustomerPhone, notice.Date, notice.TimeSlot)
		if notice.Reason != "" {
			body += " Reason: " + notice.Reason
		}
		return Rendered{
			Channel: ChannelEmail,
			To:      r.OwnerEmail,
			Subject: fmt.Sprintf("%s: booking canceled %s %s", r.BusinessName, notice.Date, notice.TimeSlot),
			Body:    body,
		}, nil
	default:
		return Rendered{}, fmt.Errorf("%w: %s", ErrUnknownKind, env.Kind)
	}
}
