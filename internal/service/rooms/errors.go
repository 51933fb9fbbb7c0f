package rooms

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

var (
	// ErrRoomNotFound возвращается, когда комната не найдена
	ErrRoomNotFound = fmt.Errorf("room not found: %w", domain.ErrNotFound)

	// ErrDuplicateName возвращается, когда комната с таким названием уже есть
	ErrDuplicateName = errors.New("room with this name already exists")

	// ErrRoomInUse возвращается при удалении комнаты, на которую есть бронирования
	ErrRoomInUse = errors.New("room has reservations and cannot be deleted")

	// ErrInvalidInterval возвращается при пустом или обратном интервале проверки
	ErrInvalidInterval = fmt.Errorf("end time must be after start time: %w", domain.ErrInvalidInterval)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
