// Package room кэширует комнаты каталога в Redis
package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

const keyPrefix = "room:"

// DefaultTTL время жизни записи кэша по умолчанию
const DefaultTTL = 5 * time.Minute

// CachedRepository репозиторий комнат с кэшированием GetByID в Redis.
// Ошибки Redis не ломают запрос: чтение уходит в БД, ошибка логируется.
// Без клиента Redis работает как прозрачная обертка.
type CachedRepository struct {
	next   RoomRepository
	client Client
	ttl    time.Duration
	logger Logger
}

// NewCachedRepository создает кэширующую обертку над репозиторием комнат.
// client может быть nil.
func NewCachedRepository(next RoomRepository, client Client, ttl time.Duration, logger Logger) *CachedRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedRepository{next: next, client: client, ttl: ttl, logger: logger}
}

func key(id int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, id)
}

// GetByID возвращает комнату из кэша или из БД
func (c *CachedRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	if c.client == nil {
		return c.next.GetByID(ctx, id)
	}

	body, err := c.client.Get(ctx, key(id)).Bytes()
	switch {
	case err == nil:
		var room domain.Room
		if err := json.Unmarshal(body, &room); err == nil {
			return &room, nil
		}
		c.logger.Warn("RoomCache: broken entry for room id=%d, refreshing", id)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("RoomCache: get room id=%d failed: %v", id, err)
	}

	room, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.store(ctx, room)
	return room, nil
}

// List не кэшируется
func (c *CachedRepository) List(ctx context.Context) ([]*domain.Room, error) {
	return c.next.List(ctx)
}

// Create добавляет комнату
func (c *CachedRepository) Create(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	return c.next.Create(ctx, room)
}

// CreateIfNotExists добавляет комнату, если ее еще нет
func (c *CachedRepository) CreateIfNotExists(ctx context.Context, room *domain.Room) (bool, error) {
	return c.next.CreateIfNotExists(ctx, room)
}

// Update обновляет комнату и сбрасывает запись кэша
func (c *CachedRepository) Update(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	updated, err := c.next.Update(ctx, room)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, room.ID)
	return updated, nil
}

// Delete удаляет комнату и сбрасывает запись кэша
func (c *CachedRepository) Delete(ctx context.Context, id int64) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *CachedRepository) store(ctx context.Context, room *domain.Room) {
	body, err := json.Marshal(room)
	if err != nil {
		c.logger.Warn("RoomCache: encode room id=%d failed: %v", room.ID, err)
		return
	}
	if err := c.client.Set(ctx, key(room.ID), body, c.ttl).Err(); err != nil {
		c.logger.Warn("RoomCache: set room id=%d failed: %v", room.ID, err)
	}
}

func (c *CachedRepository) invalidate(ctx context.Context, id int64) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, key(id)).Err(); err != nil {
		c.logger.Warn("RoomCache: invalidate room id=%d failed: %v", id, err)
	}
}
