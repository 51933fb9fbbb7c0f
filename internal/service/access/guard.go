// Package access определяет, какой пользователь может читать и менять бронирование
package access

import "github.com/m04kA/SMC-RoomReservationService/internal/domain"

// Guard правила доступа к бронированиям.
// Администратор может все, пользователь - только свои бронирования,
// менять статус (approve/reject/set) может только администратор.
type Guard struct{}

// NewGuard создает правила доступа
func NewGuard() Guard {
	return Guard{}
}

// CanView проверяет право на просмотр бронирования
func (Guard) CanView(r *domain.Reservation, actor domain.Actor) error {
	if actor.IsAdmin || actor.Owns(r) {
		return nil
	}
	return ErrNotOwner
}

// CanCancel проверяет право на отмену бронирования
func (Guard) CanCancel(r *domain.Reservation, actor domain.Actor) error {
	if actor.IsAdmin || actor.Owns(r) {
		return nil
	}
	return ErrNotOwner
}

// CanMutateStatus проверяет право на подтверждение, отклонение и установку статуса
func (Guard) CanMutateStatus(actor domain.Actor) error {
	if actor.IsAdmin {
		return nil
	}
	return ErrAdminOnly
}

// CanManageRooms проверяет право на изменение каталога комнат
func (Guard) CanManageRooms(actor domain.Actor) error {
	if actor.IsAdmin {
		return nil
	}
	return ErrAdminOnly
}

// CanListAll проверяет право на просмотр всех бронирований
func (Guard) CanListAll(actor domain.Actor) error {
	if actor.IsAdmin {
		return nil
	}
	return ErrAdminOnly
}
