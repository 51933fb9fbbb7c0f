package reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

// Коды ошибок Postgres
const (
	pqExclusionViolation  = "23P01"
	pqForeignKeyViolation = "23503"
)

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = fmt.Errorf("reservation.repository: reservation not found: %w", domain.ErrNotFound)

	// ErrRoomNotFound возвращается, когда комната бронирования не существует
	ErrRoomNotFound = fmt.Errorf("reservation.repository: room not found: %w", domain.ErrNotFound)

	// ErrSlotUnavailable возвращается при нарушении ограничения непересечения интервалов
	ErrSlotUnavailable = fmt.Errorf("reservation.repository: slot not available: %w", domain.ErrSlotUnavailable)

	// ErrStatusChanged возвращается, когда статус бронирования изменился параллельно
	ErrStatusChanged = fmt.Errorf("reservation.repository: status changed concurrently: %w", domain.ErrInvalidTransition)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
