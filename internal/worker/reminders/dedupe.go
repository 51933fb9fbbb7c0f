package reminders

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const keyPrefix = "reminder:"

// DefaultDedupeTTL окно напоминаний (24 часа) с запасом
const DefaultDedupeTTL = 25 * time.Hour

// RedisDeduper отметки об отправке в Redis (SETNX с TTL), общие для всех реплик
type RedisDeduper struct {
	client RedisClient
	ttl    time.Duration
}

// NewRedisDeduper создает дедупликацию на Redis
func NewRedisDeduper(client RedisClient, ttl time.Duration) *RedisDeduper {
	if ttl <= 0 {
		ttl = DefaultDedupeTTL
	}
	return &RedisDeduper{client: client, ttl: ttl}
}

func key(id int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, id)
}

// Acquire выставляет ключ reminder:{id}, если его еще нет
func (d *RedisDeduper) Acquire(ctx context.Context, reservationID int64) (bool, error) {
	ok, err := d.client.SetNX(ctx, key(reservationID), 1, d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reminders: setnx %s: %w", key(reservationID), err)
	}
	return ok, nil
}

// Release удаляет ключ reminder:{id}
func (d *RedisDeduper) Release(ctx context.Context, reservationID int64) error {
	if err := d.client.Del(ctx, key(reservationID)).Err(); err != nil {
		return fmt.Errorf("reminders: del %s: %w", key(reservationID), err)
	}
	return nil
}

// MemoryDeduper отметки об отправке в памяти процесса
type MemoryDeduper struct {
	mu   sync.Mutex
	seen map[int64]time.Time
	ttl  time.Duration
	now  func() time.Time
}

// NewMemoryDeduper создает дедупликацию в памяти
func NewMemoryDeduper(ttl time.Duration) *MemoryDeduper {
	if ttl <= 0 {
		ttl = DefaultDedupeTTL
	}
	return &MemoryDeduper{seen: make(map[int64]time.Time), ttl: ttl, now: time.Now}
}

// Acquire отмечает бронирование, устаревшие отметки вычищаются
func (d *MemoryDeduper) Acquire(ctx context.Context, reservationID int64) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for id, expiresAt := range d.seen {
		if !now.Before(expiresAt) {
			delete(d.seen, id)
		}
	}

	if _, ok := d.seen[reservationID]; ok {
		return false, nil
	}
	d.seen[reservationID] = now.Add(d.ttl)
	return true, nil
}

// Release снимает отметку
func (d *MemoryDeduper) Release(ctx context.Context, reservationID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, reservationID)
	return nil
}
