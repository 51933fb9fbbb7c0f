package availability

import (
	"context"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetOverlapping(ctx context.Context, roomID int64, date types.Date, start, end types.TimeString) ([]*domain.Reservation, error)
}
