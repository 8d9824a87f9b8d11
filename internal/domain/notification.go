package domain

import (
	"encoding/json"
	"time"
)

// NotificationKind identifies the template and channel of an outgoing message
type NotificationKind string

const (
	NotificationCustomerCancellation NotificationKind = "customer_cancellation_sms"
	NotificationOwnerCancellation    NotificationKind = "owner_cancellation_email"
)

// OutboxStatus is the delivery state of an outbox message
type OutboxStatus string

const (
	OutboxPending OutboxStatus = "pending"
	OutboxSent    OutboxStatus = "sent"
	OutboxFailed  OutboxStatus = "failed"
)

// CancellationNotice is the payload of both cancellation notifications
type CancellationNotice struct {
	BookingID     int64  `json:"bookingId"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	Date          string `json:"date"`
	TimeSlot      string `json:"timeSlot"`
	Reason        string `json:"reason"`
}

// NewCancellationNotice builds a notice from a booking
func NewCancellationNotice(b *Booking, reason string) CancellationNotice {
	return CancellationNotice{
		BookingID:     b.ID,
		CustomerName:  b.CustomerName,
		CustomerPhone: b.CustomerPhone,
		Date:          b.Date.Format(DateFormat),
		TimeSlot:      b.TimeSlot.String(),
		Reason:        reason,
	}
}

// OutboxMessage is a notification persisted in the same transaction as the change
// that caused it; a relay delivers it later
type OutboxMessage struct {
	ID            int64
	MessageID     string
	Kind          NotificationKind
	Payload       json.RawMessage
	Status        OutboxStatus
	Attempts      int
	NextAttemptAt time.Time
	LastError     *string
	CreatedAt     time.Time
	SentAt        *time.Time
}

// NewOutboxMessage marshals the payload into a pending message
func NewOutboxMessage(messageID string, kind NotificationKind, payload interface{}) (*OutboxMessage, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &OutboxMessage{
		MessageID: messageID,
		Kind:      kind,
		Payload:   raw,
		Status:    OutboxPending,
	}, nil
}
