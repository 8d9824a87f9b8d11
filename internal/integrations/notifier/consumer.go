package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	consumerPrefetch   = 20
	initialBackoff     = time.Second
	maxBackoff         = 30 * time.Second
	reconnectPauseTime = 2 * time.Second
)

// Sender доставляет отрендеренное уведомление получателю
type Sender interface {
	Send(ctx context.Context, r Rendered) error
}

// LogSender "отправляет" уведомление записью в лог
type LogSender struct {
	log Logger
}

// NewLogSender создает новый экземпляр LogSender
func NewLogSender(log Logger) *LogSender {
	return &LogSender{log: log}
}

// Send пишет текст уведомления в лог
func (s *LogSender) Send(_ context.Context, r Rendered) error {
	if r.Subject != "" {
		s.log.Info("Deliver: channel=%s, to=%s, subject=%q, text=%q", r.Channel, r.To, r.Subject, r.Body)
		return nil
	}
	s.log.Info("Deliver: channel=%s, to=%s, text=%q", r.Channel, r.To, r.Body)
	return nil
}

// Consumer читает очередь уведомлений и передаёт их Sender
type Consumer struct {
	url      string
	queue    string
	renderer Renderer
	sender   Sender
	log      Logger
}

// NewConsumer создает новый экземпляр Consumer
func NewConsumer(url, queue string, renderer Renderer, sender Sender, log Logger) *Consumer {
	return &Consumer{
		url:      url,
		queue:    queue,
		renderer: renderer,
		sender:   sender,
		log:      log,
	}
}

// Run подключается к брокеру и обрабатывает сообщения до отмены контекста
// При потере соединения переподключается с экспоненциальной задержкой
func (c *Consumer) Run(ctx context.Context) error {
	backoff := initialBackoff
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("Consumer: dial failed: %v, retry in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = initialBackoff

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("Consumer: consume loop ended: %v, reconnecting", err)
		if !sleep(ctx, reconnectPauseTime) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(consumerPrefetch, 0, false); err != nil {
		c.log.Warn("Consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("%w: declare queue %s: %v", ErrConnect, c.queue, err)
	}

	deliveries, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%w: consume %s: %v", ErrConnect, c.queue, err)
	}

	c.log.Info("Consumer: listening on queue=%s", c.queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.Handle(ctx, d.Body); err != nil {
				c.log.Error("Consumer: handle message_id=%s failed: %v", d.MessageId, err)
				// без requeue
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle разбирает тело сообщения, рендерит текст и отправляет его
func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	rendered, err := c.renderer.Render(env)
	if err != nil {
		return err
	}

	return c.sender.Send(ctx, rendered)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
