package reservations

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/access"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/availability"
	"github.com/m04kA/SMC-RoomReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-RoomReservationService/pkg/logger"
	"github.com/m04kA/SMC-RoomReservationService/pkg/ptr"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

type staticRooms struct{ room *domain.Room }

func (s staticRooms) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	return s.room, nil
}

type inlineTx struct{}

func (inlineTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopMetrics struct{}

func (nopMetrics) ReservationCreated()                 {}
func (nopMetrics) ReservationConflict()                {}
func (nopMetrics) ReservationTransition(status string) {}

// Комната на 10 человек по 50.00 в час: создание, конфликт, подтверждение, отмена
func TestReservationLifecycle_RoomOfTen(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	publisher := &mockPublisher{}
	room := &domain.Room{ID: 1, Name: "Orion", Capacity: 10, HourlyPrice: decimal.RequireFromString("50.0")}

	create := create_reservation.NewUseCase(repo, staticRooms{room: room}, availability.NewChecker(repo),
		inlineTx{}, publisher, nopMetrics{}, logger.Nop())
	service := NewService(repo, access.NewGuard(), publisher, nopMetrics{}, nil, logger.Nop())

	book := func(actor domain.Actor, start, end string, participants *int) (*create_reservation.Response, error) {
		return create.Execute(ctx, &create_reservation.Request{
			Actor:        actor,
			RoomID:       room.ID,
			Date:         types.MustDate("2025-03-10"),
			StartTime:    types.MustTimeString(start),
			EndTime:      types.MustTimeString(end),
			Participants: participants,
		})
	}

	// 1. 09:00-10:30 на 5 человек: PENDING, 1.5 часа, 75.00
	first, err := book(alice, "09:00", "10:30", ptr.Ptr(5))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, first.Reservation.Status)
	assert.Equal(t, 1.5, first.Reservation.DurationHours)
	assert.Equal(t, "75.00", first.Reservation.TotalAmount.StringFixed(2))

	// 2. 10:00-11:00 пересекается с первым, смежный 10:30-11:30 свободен
	_, err = book(bob, "10:00", "11:00", nil)
	assert.ErrorIs(t, err, domain.ErrSlotUnavailable)

	second, err := book(bob, "10:30", "11:30", nil)
	require.NoError(t, err)
	assert.Equal(t, "50.00", second.Reservation.TotalAmount.StringFixed(2))

	// 3. 10:15-10:45 пересекается с обоими
	_, err = book(admin, "10:15", "10:45", nil)
	assert.ErrorIs(t, err, domain.ErrSlotUnavailable)

	// 4. Подтверждение первого, повторное подтверждение запрещено
	approved, err := service.Approve(ctx, first.Reservation.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", approved.Status)
	assert.Equal(t, "75.00", approved.TotalAmount)

	_, err = service.Approve(ctx, first.Reservation.ID, admin)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// 5. Чужую бронь отменить нельзя, свою - можно
	_, err = service.Cancel(ctx, second.Reservation.ID, alice)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	cancelled, err := service.Cancel(ctx, second.Reservation.ID, bob)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.Status)

	// 6. Отмененная бронь слот не занимает
	again, err := book(admin, "10:30", "11:30", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, again.Reservation.Status)

	// 11 участников не помещаются
	_, err = book(alice, "12:00", "13:00", ptr.Ptr(11))
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)

	eventTypes := make([]string, 0, len(publisher.events))
	for _, e := range publisher.events {
		eventTypes = append(eventTypes, e.Type)
	}
	assert.Equal(t, []string{
		"reservation.created",
		"reservation.created",
		"reservation.approved",
		"reservation.cancelled",
		"reservation.created",
	}, eventTypes)
}
