package reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/infra/queue"
	"github.com/m04kA/SMC-RoomReservationService/pkg/logger"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

type mockSource struct {
	upcomingFn func(ctx context.Context) ([]*domain.Reservation, error)
}

func (m *mockSource) Upcoming(ctx context.Context) ([]*domain.Reservation, error) {
	return m.upcomingFn(ctx)
}

type mockPublisher struct {
	events  []queue.ReservationEvent
	failIDs map[int64]bool
}

func (m *mockPublisher) Publish(ctx context.Context, event queue.ReservationEvent) error {
	if m.failIDs[event.ReservationID] {
		return errors.New("broker unavailable")
	}
	m.events = append(m.events, event)
	return nil
}

// memoryRedis минимальная эмуляция SETNX/DEL
type memoryRedis struct {
	keys map[string]time.Duration
	err  error
}

func (m *memoryRedis) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	if m.err != nil {
		return redis.NewBoolResult(false, m.err)
	}
	if _, ok := m.keys[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	m.keys[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (m *memoryRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := m.keys[k]; ok {
			delete(m.keys, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func approved(id int64) *domain.Reservation {
	return &domain.Reservation{
		ID:        id,
		UserID:    7,
		RoomID:    1,
		Date:      types.MustDate("2025-03-10"),
		StartTime: types.MustTimeString("14:00"),
		EndTime:   types.MustTimeString("15:00"),
		Status:    domain.StatusApproved,
	}
}

func sourceOf(reservations ...*domain.Reservation) *mockSource {
	return &mockSource{upcomingFn: func(ctx context.Context) ([]*domain.Reservation, error) {
		return reservations, nil
	}}
}

func TestWorker_RunOnce_Dedupe(t *testing.T) {
	rdb := &memoryRedis{keys: make(map[string]time.Duration)}
	publisher := &mockPublisher{}

	w, err := NewWorker("*/15 * * * *", sourceOf(approved(1), approved(2)), NewRedisDeduper(rdb, 0), publisher, logger.Nop())
	require.NoError(t, err)

	sent, err := w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	sent, err = w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)

	require.Len(t, publisher.events, 2)
	assert.Equal(t, queue.EventReservationReminder, publisher.events[0].Type)
	assert.Equal(t, DefaultDedupeTTL, rdb.keys["reminder:1"])
}

func TestWorker_RunOnce_PublishFailureRetried(t *testing.T) {
	publisher := &mockPublisher{failIDs: map[int64]bool{2: true}}
	w, err := NewWorker("@every 1m", sourceOf(approved(1), approved(2)), NewMemoryDeduper(0), publisher, logger.Nop())
	require.NoError(t, err)

	sent, err := w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	// Брокер восстановился: второе напоминание уходит на следующем проходе
	publisher.failIDs = nil
	sent, err = w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, publisher.events, 2)
	assert.Equal(t, int64(2), publisher.events[1].ReservationID)
}

func TestWorker_RunOnce_DedupeError(t *testing.T) {
	rdb := &memoryRedis{keys: make(map[string]time.Duration), err: errors.New("redis down")}
	publisher := &mockPublisher{}

	w, err := NewWorker("*/15 * * * *", sourceOf(approved(1)), NewRedisDeduper(rdb, time.Hour), publisher, logger.Nop())
	require.NoError(t, err)

	sent, err := w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, publisher.events)
}

func TestWorker_RunOnce_SourceError(t *testing.T) {
	source := &mockSource{upcomingFn: func(ctx context.Context) ([]*domain.Reservation, error) {
		return nil, errors.New("db down")
	}}
	w, err := NewWorker("*/15 * * * *", source, NewMemoryDeduper(0), &mockPublisher{}, logger.Nop())
	require.NoError(t, err)

	_, err = w.RunOnce(context.Background())
	assert.Error(t, err)
}

func TestNewWorker_InvalidSchedule(t *testing.T) {
	_, err := NewWorker("every quarter", sourceOf(), NewMemoryDeduper(0), &mockPublisher{}, logger.Nop())
	assert.Error(t, err)
}

func TestWorker_StartStop(t *testing.T) {
	w, err := NewWorker("*/15 * * * *", sourceOf(), NewMemoryDeduper(0), &mockPublisher{}, logger.Nop())
	require.NoError(t, err)

	w.Start()
	select {
	case <-w.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestMemoryDeduper_Expiry(t *testing.T) {
	d := NewMemoryDeduper(time.Hour)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }
	ctx := context.Background()

	ok, err := d.Acquire(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = d.Acquire(ctx, 1)
	assert.False(t, ok)

	now = now.Add(time.Hour)
	ok, _ = d.Acquire(ctx, 1)
	assert.True(t, ok)

	require.NoError(t, d.Release(ctx, 1))
	ok, _ = d.Acquire(ctx, 1)
	assert.True(t, ok)
}
