package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

// Publisher публикует уведомления в очередь RabbitMQ
// Соединение открывается лениво и переоткрывается после ошибки
type Publisher struct {
	url   string
	queue string
	log   Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher создает новый экземпляр Publisher
func NewPublisher(url, queue string, log Logger) *Publisher {
	return &Publisher{url: url, queue: queue, log: log}
}

// Publish отправляет сообщение outbox как persistent JSON
// MessageID сообщения передаётся в свойствах AMQP для дедупликации на стороне потребителя
func (p *Publisher) Publish(ctx context.Context, m *domain.OutboxMessage) error {
	body, err := json.Marshal(NewEnvelope(m))
	if err != nil {
		return fmt.Errorf("%w: marshal envelope: %v", ErrPublish, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    m.MessageID,
		Type:         string(m.Kind),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		p.reset()
		return fmt.Errorf("%w: message_id=%s: %v", ErrPublish, m.MessageID, err)
	}

	return nil
}

// Close закрывает канал и соединение
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}

func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %v", ErrConnect, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: declare queue %s: %v", ErrConnect, p.queue, err)
	}

	p.conn = conn
	p.ch = ch
	p.log.Info("Notifier: connected to broker, queue=%s", p.queue)

	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// LogPublisher пишет уведомления в лог вместо брокера (notifications.enabled = false)
type LogPublisher struct {
	renderer Renderer
	log      Logger
}

// NewLogPublisher создает новый экземпляр LogPublisher
func NewLogPublisher(renderer Renderer, log Logger) *LogPublisher {
	return &LogPublisher{renderer: renderer, log: log}
}

// Publish рендерит сообщение и пишет его в лог
func (p *LogPublisher) Publish(_ context.Context, m *domain.OutboxMessage) error {
	rendered, err := p.renderer.Render(NewEnvelope(m))
	if err != nil {
		return err
	}
	p.log.Info("Notifier: channel=%s, to=%s, message_id=%s, text=%q",
		rendered.Channel, rendered.To, m.MessageID, rendered.Body)
	return nil
}
