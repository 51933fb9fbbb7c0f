package reservations

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = fmt.Errorf("reservation not found: %w", domain.ErrNotFound)

	// ErrInvalidTransition возвращается, когда переход статуса запрещен таблицей переходов
	ErrInvalidTransition = fmt.Errorf("reservation status cannot be changed: %w", domain.ErrInvalidTransition)

	// ErrUnknownStatus возвращается при нераспознанном статусе
	ErrUnknownStatus = fmt.Errorf("invalid reservation status: %w", domain.ErrUnknownStatus)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
