package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) FetchPending(ctx context.Context, now time.Time, limit uint64) ([]*domain.OutboxMessage, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OutboxMessage), args.Error(1)
}

func (m *mockStore) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	return m.Called(ctx, id, sentAt).Error(0)
}

func (m *mockStore) MarkFailed(ctx context.Context, id int64, errText string, nextAttempt *time.Time) error {
	return m.Called(ctx, id, errText, nextAttempt).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, msg *domain.OutboxMessage) error {
	return m.Called(ctx, msg).Error(0)
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type countingMetrics struct {
	results map[string]int
}

func (c *countingMetrics) RecordNotification(kind, result string) {
	c.results[result]++
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newRelay(store Store, pub Publisher, m *countingMetrics) *Relay {
	return NewRelay(
		Config{BatchSize: 10, MaxAttempts: 3, RetryBackoff: time.Minute},
		store, pub, passthroughTx{}, m, fixedClock{t: now}, nopLogger{},
	)
}

func TestRelay_ProcessBatch(t *testing.T) {
	ctx := context.Background()
	ok := &domain.OutboxMessage{ID: 1, Kind: domain.NotificationCustomerCancellation, Attempts: 0}
	retry := &domain.OutboxMessage{ID: 2, Kind: domain.NotificationCustomerCancellation, Attempts: 0}
	last := &domain.OutboxMessage{ID: 3, Kind: domain.NotificationOwnerCancellation, Attempts: 2}

	store := &mockStore{}
	pub := &mockPublisher{}
	m := &countingMetrics{results: map[string]int{}}

	store.On("FetchPending", mock.Anything, now, uint64(10)).
		Return([]*domain.OutboxMessage{ok, retry, last}, nil)
	pub.On("Publish", mock.Anything, ok).Return(nil)
	pub.On("Publish", mock.Anything, retry).Return(errors.New("broker down"))
	pub.On("Publish", mock.Anything, last).Return(errors.New("broker down"))

	store.On("MarkSent", mock.Anything, int64(1), now).Return(nil)
	store.On("MarkFailed", mock.Anything, int64(2), "broker down", mock.MatchedBy(func(next *time.Time) bool {
		return next != nil && next.Equal(now.Add(time.Minute))
	})).Return(nil)
	store.On("MarkFailed", mock.Anything, int64(3), "broker down", (*time.Time)(nil)).Return(nil)

	sent, err := newRelay(store, pub, m).ProcessBatch(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, sent)
	assert.Equal(t, map[string]int{resultSent: 1, resultRetry: 1, resultDropped: 1}, m.results)
	store.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestRelay_ProcessBatch_FetchError(t *testing.T) {
	store := &mockStore{}
	store.On("FetchPending", mock.Anything, now, uint64(10)).Return(nil, errors.New("db down"))

	sent, err := newRelay(store, &mockPublisher{}, &countingMetrics{results: map[string]int{}}).ProcessBatch(context.Background())
	assert.Error(t, err)
	assert.Zero(t, sent)
}

func TestRelay_Backoff(t *testing.T) {
	r := newRelay(&mockStore{}, &mockPublisher{}, &countingMetrics{results: map[string]int{}})
	assert.Equal(t, time.Minute, r.backoff(0))
	assert.Equal(t, 3*time.Minute, r.backoff(2))
}

func TestRelay_ProcessBatch_RolledBackBatchRecordsNothing(t *testing.T) {
	first := &domain.OutboxMessage{ID: 1, Kind: domain.NotificationCustomerCancellation}
	second := &domain.OutboxMessage{ID: 2, Kind: domain.NotificationCustomerCancellation}

	store := &mockStore{}
	pub := &mockPublisher{}
	m := &countingMetrics{results: map[string]int{}}

	store.On("FetchPending", mock.Anything, now, uint64(10)).
		Return([]*domain.OutboxMessage{first, second}, nil)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	store.On("MarkSent", mock.Anything, int64(1), now).Return(nil)
	store.On("MarkSent", mock.Anything, int64(2), now).Return(errors.New("connection reset"))

	sent, err := newRelay(store, pub, m).ProcessBatch(context.Background())
	require.Error(t, err)

	assert.Zero(t, sent)
	assert.Empty(t, m.results)
	pub.AssertNumberOfCalls(t, "Publish", 2)
}
