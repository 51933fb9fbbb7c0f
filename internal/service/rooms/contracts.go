package rooms

import (
	"context"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// RoomRepository интерфейс репозитория комнат
type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	List(ctx context.Context) ([]*domain.Room, error)
	Create(ctx context.Context, room *domain.Room) (*domain.Room, error)
	Update(ctx context.Context, room *domain.Room) (*domain.Room, error)
	Delete(ctx context.Context, id int64) error
}

// ReservationCounter интерфейс подсчета бронирований комнаты
type ReservationCounter interface {
	CountByRoom(ctx context.Context, roomID int64) (int, error)
}

// ConflictChecker интерфейс проверки пересечений с активными бронированиями
type ConflictChecker interface {
	Conflicts(ctx context.Context, roomID int64, date types.Date, start, end types.TimeString) ([]*domain.Reservation, error)
}

// AccessGuard интерфейс правил доступа к каталогу
type AccessGuard interface {
	CanManageRooms(actor domain.Actor) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
