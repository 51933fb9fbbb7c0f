package reminders

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/infra/queue"
)

// UpcomingSource источник подтвержденных бронирований на ближайшие 24 часа
type UpcomingSource interface {
	Upcoming(ctx context.Context) ([]*domain.Reservation, error)
}

// EventPublisher интерфейс публикации событий бронирования
type EventPublisher interface {
	Publish(ctx context.Context, event queue.ReservationEvent) error
}

// Deduper помнит, по каким бронированиям напоминание уже отправлено
type Deduper interface {
	// Acquire возвращает true, если напоминание по бронированию еще не отправлялось
	Acquire(ctx context.Context, reservationID int64) (bool, error)
	// Release снимает отметку, если отправить напоминание не удалось
	Release(ctx context.Context, reservationID int64) error
}

// RedisClient подмножество команд Redis (реализуется *redis.Client)
type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
