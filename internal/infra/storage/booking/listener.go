package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"
)

// ChangesChannel канал LISTEN/NOTIFY, в который триггер на таблице bookings
// публикует дату изменённого бронирования
const ChangesChannel = "bookings_changed"

const (
	minReconnectInterval = 1 * time.Second
	maxReconnectInterval = 30 * time.Second
	pingInterval         = 90 * time.Second
)

// Change сигнал об изменении бронирований на дату
// Пустая Date означает "неизвестно что изменилось" (например, после переподключения)
type Change struct {
	Date string
}

// Broadcaster раздаёт сигналы об изменениях всем подписчикам
// Медленный подписчик с заполненным буфером пропускает сигнал: получатель
// в любом случае перечитывает актуальный снимок из БД
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[int]chan Change
	nextID int
	closed bool
}

// NewBroadcaster создает Broadcaster
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan Change)}
}

// Subscribe регистрирует подписчика; возвращает канал и функцию отписки
func (b *Broadcaster) Subscribe(buffer int) (<-chan Change, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Change, buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

// Publish рассылает сигнал без блокировки
func (b *Broadcaster) Publish(change Change) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- change:
		default:
		}
	}
}

// Subscribers возвращает количество активных подписчиков
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close закрывает все подписки
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// Listener слушает NOTIFY от Postgres и передаёт сигналы в Broadcaster
type Listener struct {
	listener *pq.Listener
	hub      *Broadcaster
	logger   Logger
}

// NewListener подключается к Postgres и подписывается на ChangesChannel
func NewListener(dsn string, hub *Broadcaster, logger Logger) (*Listener, error) {
	l := pq.NewListener(dsn, minReconnectInterval, maxReconnectInterval, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnectionAttemptFailed:
			logger.Warn("BookingListener: connection attempt failed: %v", err)
		case pq.ListenerEventDisconnected:
			logger.Warn("BookingListener: disconnected: %v", err)
		case pq.ListenerEventReconnected:
			logger.Info("BookingListener: reconnected")
		}
	})

	if err := l.Listen(ChangesChannel); err != nil {
		_ = l.Close()
		return nil, fmt.Errorf("%w: listen %s: %v", ErrListener, ChangesChannel, err)
	}

	return &Listener{listener: l, hub: hub, logger: logger}, nil
}

// Run пересылает уведомления до отмены контекста
func (l *Listener) Run(ctx context.Context) {
	defer func() {
		if err := l.listener.Close(); err != nil {
			l.logger.Warn("BookingListener: close: %v", err)
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case n := <-l.listener.Notify:
			// nil приходит после переподключения: изменения могли быть пропущены
			if n == nil {
				l.hub.Publish(Change{})
				continue
			}
			l.hub.Publish(Change{Date: n.Extra})
		case <-ticker.C:
			if err := l.listener.Ping(); err != nil {
				l.logger.Warn("BookingListener: ping failed: %v", err)
			}
		}
	}
}
