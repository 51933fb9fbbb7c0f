package queue

import (
	"time"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

// Типы событий (routing key топика)
const (
	EventReservationCreated   = "reservation.created"
	EventReservationApproved  = "reservation.approved"
	EventReservationRejected  = "reservation.rejected"
	EventReservationCancelled = "reservation.cancelled"
	EventReservationReminder  = "reservation.reminder"
)

// ReservationEvent событие жизненного цикла бронирования
type ReservationEvent struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	ReservationID int64     `json:"reservationId"`
	UserID        int64     `json:"userId"`
	RoomID        int64     `json:"roomId"`
	Date          string    `json:"date"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	Status        string    `json:"status"`
	TotalAmount   string    `json:"totalAmount"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// NewReservationEvent создает событие по бронированию
func NewReservationEvent(eventType string, r *domain.Reservation, occurredAt time.Time) ReservationEvent {
	return ReservationEvent{
		Type:          eventType,
		ReservationID: r.ID,
		UserID:        r.UserID,
		RoomID:        r.RoomID,
		Date:          r.Date.String(),
		StartTime:     r.StartTime.String(),
		EndTime:       r.EndTime.String(),
		Status:        string(r.Status),
		TotalAmount:   r.TotalAmount.StringFixed(domain.AmountPrecision),
		OccurredAt:    occurredAt.UTC(),
	}
}

// EventTypeForStatus возвращает тип события перехода в статус
func EventTypeForStatus(status domain.ReservationStatus) string {
	switch status {
	case domain.StatusApproved:
		return EventReservationApproved
	case domain.StatusRejected:
		return EventReservationRejected
	case domain.StatusCancelled:
		return EventReservationCancelled
	default:
		return EventReservationCreated
	}
}
