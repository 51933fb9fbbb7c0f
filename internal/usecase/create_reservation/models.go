package create_reservation

import (
	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	Actor        domain.Actor     // Кто бронирует
	RoomID       int64            // ID комнаты
	Date         types.Date       // Дата бронирования
	StartTime    types.TimeString // Время начала (HH:MM)
	EndTime      types.TimeString // Время окончания (HH:MM), строго позже начала
	Participants *int             // Количество участников (опционально)
	Purpose      *string          // Цель встречи (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	Reservation *domain.Reservation
	Room        *domain.Room
}
