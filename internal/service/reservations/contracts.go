package reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/infra/queue"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByUserID(ctx context.Context, userID int64) ([]*domain.Reservation, error)
	GetByStatus(ctx context.Context, status domain.ReservationStatus) ([]*domain.Reservation, error)
	GetByStatusInDateRange(ctx context.Context, status domain.ReservationStatus, from, to types.Date) ([]*domain.Reservation, error)
	GetWithFilter(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.ReservationStatus) (time.Time, error)
}

// AccessGuard интерфейс правил доступа к бронированиям
type AccessGuard interface {
	CanView(r *domain.Reservation, actor domain.Actor) error
	CanCancel(r *domain.Reservation, actor domain.Actor) error
	CanMutateStatus(actor domain.Actor) error
	CanListAll(actor domain.Actor) error
}

// EventPublisher интерфейс публикации событий бронирования
type EventPublisher interface {
	Publish(ctx context.Context, event queue.ReservationEvent) error
}

// Metrics интерфейс бизнес-метрик бронирований
type Metrics interface {
	ReservationTransition(status string)
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
