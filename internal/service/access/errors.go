package access

import (
	"fmt"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

var (
	// ErrNotOwner возвращается, когда пользователь обращается к чужому бронированию
	ErrNotOwner = fmt.Errorf("access: reservation belongs to another user: %w", domain.ErrForbidden)

	// ErrAdminOnly возвращается, когда операция доступна только администратору
	ErrAdminOnly = fmt.Errorf("access: admin role required: %w", domain.ErrForbidden)
)
