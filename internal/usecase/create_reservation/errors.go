package create_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

var (
	// ErrRoomNotFound возвращается, когда комната не найдена в каталоге
	ErrRoomNotFound = fmt.Errorf("create_reservation: room not found: %w", domain.ErrNotFound)

	// ErrInvalidInterval возвращается, когда время окончания не позже времени начала
	ErrInvalidInterval = fmt.Errorf("create_reservation: end time must be after start time: %w", domain.ErrInvalidInterval)

	// ErrCapacityExceeded возвращается, когда участников больше вместимости комнаты
	ErrCapacityExceeded = fmt.Errorf("create_reservation: participants exceed room capacity: %w", domain.ErrCapacityExceeded)

	// ErrSlotUnavailable возвращается, когда интервал пересекается с активным бронированием
	ErrSlotUnavailable = fmt.Errorf("create_reservation: selected time slot is not available: %w", domain.ErrSlotUnavailable)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
