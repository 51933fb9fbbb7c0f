package check_room_availability

import (
	"context"

	"github.com/m04kA/SMC-RoomReservationService/internal/service/rooms/models"
)

type RoomService interface {
	Availability(ctx context.Context, req *models.AvailabilityRequest) (*models.AvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
