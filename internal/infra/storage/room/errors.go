package room

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

// Коды ошибок Postgres
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

var (
	// ErrRoomNotFound возвращается, когда комната не найдена
	ErrRoomNotFound = fmt.Errorf("room.repository: room not found: %w", domain.ErrNotFound)

	// ErrDuplicateName возвращается, когда комната с таким названием уже существует
	ErrDuplicateName = errors.New("room.repository: room name already exists")

	// ErrRoomInUse возвращается при удалении комнаты, на которую есть бронирования
	ErrRoomInUse = errors.New("room.repository: room has reservations")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("room.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("room.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("room.repository: failed to scan row")

	// ErrEncodeFeatures возвращается при ошибке сериализации списка оснащения
	ErrEncodeFeatures = errors.New("room.repository: failed to encode features")
)
