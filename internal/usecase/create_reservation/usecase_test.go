package create_reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/infra/queue"
	reservationRepo "github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/reservation"
	roomRepo "github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/room"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/availability"
	"github.com/m04kA/SMC-RoomReservationService/pkg/logger"
	"github.com/m04kA/SMC-RoomReservationService/pkg/ptr"
	"github.com/m04kA/SMC-RoomReservationService/pkg/txmanager"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// memoryStore хранилище бронирований в памяти
type memoryStore struct {
	items    []*domain.Reservation
	createFn func(ctx context.Context, r *domain.Reservation) (*domain.Reservation, error)
}

func (s *memoryStore) GetOverlapping(ctx context.Context, roomID int64, date types.Date, start, end types.TimeString) ([]*domain.Reservation, error) {
	result := make([]*domain.Reservation, 0)
	for _, r := range s.items {
		if r.RoomID == roomID && r.Date.Equal(date) && r.IsActive() && r.Overlaps(start, end) {
			result = append(result, r)
		}
	}
	return result, nil
}

func (s *memoryStore) Create(ctx context.Context, r *domain.Reservation) (*domain.Reservation, error) {
	if s.createFn != nil {
		return s.createFn(ctx, r)
	}
	r.ID = int64(len(s.items) + 1)
	r.CreatedAt = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	r.UpdatedAt = r.CreatedAt
	s.items = append(s.items, r)
	return r, nil
}

type mockRoomRepo struct {
	getByIDFn func(ctx context.Context, id int64) (*domain.Room, error)
}

func (m *mockRoomRepo) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	return m.getByIDFn(ctx, id)
}

type mockChecker struct {
	conflictsFn func(ctx context.Context, roomID int64, date types.Date, start, end types.TimeString) ([]*domain.Reservation, error)
}

func (m *mockChecker) Conflicts(ctx context.Context, roomID int64, date types.Date, start, end types.TimeString) ([]*domain.Reservation, error) {
	return m.conflictsFn(ctx, roomID, date, start, end)
}

// fakeTxManager выполняет fn без транзакции и запоминает ее результат
type fakeTxManager struct {
	calls   int
	lastErr error
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	m.lastErr = fn(ctx)
	return m.lastErr
}

type mockPublisher struct {
	events []queue.ReservationEvent
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, event queue.ReservationEvent) error {
	m.events = append(m.events, event)
	return m.err
}

type mockMetrics struct {
	created   int
	conflicts int
}

func (m *mockMetrics) ReservationCreated()  { m.created++ }
func (m *mockMetrics) ReservationConflict() { m.conflicts++ }

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func testRoom() *domain.Room {
	return &domain.Room{
		ID:          1,
		Name:        "Orion",
		Capacity:    10,
		HourlyPrice: decimal.RequireFromString("50.00"),
	}
}

type fixture struct {
	uc        *UseCase
	store     *memoryStore
	tx        *fakeTxManager
	publisher *mockPublisher
	metrics   *mockMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := &memoryStore{}
	rooms := &mockRoomRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Room, error) {
			if id == 1 {
				return testRoom(), nil
			}
			return nil, roomRepo.ErrRoomNotFound
		},
	}
	f := &fixture{
		store:     store,
		tx:        &fakeTxManager{},
		publisher: &mockPublisher{},
		metrics:   &mockMetrics{},
	}
	f.uc = NewUseCase(store, rooms, availability.NewChecker(store), f.tx, f.publisher, f.metrics, logger.Nop())
	f.uc.timeProvider = fixedTime{t: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)}
	return f
}

func request(start, end string) *Request {
	return &Request{
		Actor:     domain.Actor{UserID: 7},
		RoomID:    1,
		Date:      types.MustDate("2025-03-10"),
		StartTime: types.MustTimeString(start),
		EndTime:   types.MustTimeString(end),
	}
}

func TestUseCase_Execute_Success(t *testing.T) {
	f := newFixture(t)

	req := request("09:00", "10:30")
	req.Participants = ptr.Ptr(5)
	req.Purpose = ptr.Ptr("Ретро")

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	res := resp.Reservation
	assert.NotZero(t, res.ID)
	assert.Equal(t, int64(7), res.UserID)
	assert.Equal(t, domain.StatusPending, res.Status)
	assert.Equal(t, 1.5, res.DurationHours)
	assert.Equal(t, "75.00", res.TotalAmount.StringFixed(2))
	assert.Equal(t, 5, *res.Participants)
	assert.Equal(t, "Orion", resp.Room.Name)

	assert.Equal(t, 1, f.tx.calls)
	assert.Equal(t, 1, f.metrics.created)
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, queue.EventReservationCreated, f.publisher.events[0].Type)
	assert.Equal(t, res.ID, f.publisher.events[0].ReservationID)
	assert.Equal(t, "75.00", f.publisher.events[0].TotalAmount)
}

func TestUseCase_Execute_RoomNotFound(t *testing.T) {
	f := newFixture(t)

	req := request("09:00", "10:00")
	req.RoomID = 404

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, f.tx.calls)
}

func TestUseCase_Execute_RoomRepoError(t *testing.T) {
	f := newFixture(t)
	f.uc.roomRepo = &mockRoomRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Room, error) {
			return nil, errors.New("connection refused")
		},
	}

	_, err := f.uc.Execute(context.Background(), request("09:00", "10:00"))
	assert.ErrorIs(t, err, ErrInternal)
}

func TestUseCase_Execute_Capacity(t *testing.T) {
	f := newFixture(t)

	req := request("09:00", "10:00")
	req.Participants = ptr.Ptr(11)
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)

	req.Participants = ptr.Ptr(10)
	_, err = f.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestUseCase_Execute_InvalidInterval(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
	}{
		{name: "equal", start: "10:00", end: "10:00"},
		{name: "reversed", start: "11:00", end: "10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.uc.Execute(context.Background(), request(tt.start, tt.end))
			assert.ErrorIs(t, err, ErrInvalidInterval)
			assert.ErrorIs(t, err, domain.ErrInvalidInterval)
			assert.Empty(t, f.store.items)
		})
	}
}

func TestUseCase_Execute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *Request)
	}{
		{name: "no user", modify: func(r *Request) { r.Actor.UserID = 0 }},
		{name: "no room", modify: func(r *Request) { r.RoomID = 0 }},
		{name: "no date", modify: func(r *Request) { r.Date = types.Date{} }},
		{name: "no start", modify: func(r *Request) { r.StartTime = types.TimeString{} }},
		{name: "no end", modify: func(r *Request) { r.EndTime = types.TimeString{} }},
		{name: "zero participants", modify: func(r *Request) { r.Participants = ptr.Ptr(0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := request("09:00", "10:00")
			tt.modify(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUseCase_Execute_Conflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, request("09:00", "10:30"))
	require.NoError(t, err)

	tests := []struct {
		name       string
		start, end string
		wantErr    error
	}{
		{name: "overlaps tail", start: "10:00", end: "11:00", wantErr: ErrSlotUnavailable},
		{name: "inside", start: "09:15", end: "09:45", wantErr: ErrSlotUnavailable},
		{name: "covers", start: "08:00", end: "12:00", wantErr: ErrSlotUnavailable},
		{name: "touches end", start: "10:30", end: "11:30", wantErr: nil},
		{name: "touches start", start: "08:00", end: "09:00", wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(ctx, request(tt.start, tt.end))
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
		})
	}

	assert.Equal(t, 3, f.metrics.conflicts)
	assert.Len(t, f.store.items, 3)
}

func TestUseCase_Execute_InactiveDoNotBlock(t *testing.T) {
	f := newFixture(t)
	f.store.items = []*domain.Reservation{
		{ID: 1, RoomID: 1, Date: types.MustDate("2025-03-10"), StartTime: types.MustTimeString("09:00"),
			EndTime: types.MustTimeString("12:00"), Status: domain.StatusCancelled},
		{ID: 2, RoomID: 1, Date: types.MustDate("2025-03-10"), StartTime: types.MustTimeString("09:00"),
			EndTime: types.MustTimeString("12:00"), Status: domain.StatusRejected},
		{ID: 3, RoomID: 2, Date: types.MustDate("2025-03-10"), StartTime: types.MustTimeString("09:00"),
			EndTime: types.MustTimeString("12:00"), Status: domain.StatusApproved},
	}

	_, err := f.uc.Execute(context.Background(), request("10:00", "11:00"))
	assert.NoError(t, err)
}

func TestUseCase_Execute_ConstraintViolation(t *testing.T) {
	f := newFixture(t)
	f.store.createFn = func(ctx context.Context, r *domain.Reservation) (*domain.Reservation, error) {
		return nil, reservationRepo.ErrSlotUnavailable
	}

	_, err := f.uc.Execute(context.Background(), request("09:00", "10:00"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Equal(t, 1, f.metrics.conflicts)
	assert.Empty(t, f.publisher.events)
}

func TestUseCase_Execute_SerializationFailureReachesTxManager(t *testing.T) {
	f := newFixture(t)
	f.uc.checker = &mockChecker{
		conflictsFn: func(ctx context.Context, roomID int64, date types.Date, start, end types.TimeString) ([]*domain.Reservation, error) {
			return nil, &pq.Error{Code: "40001"}
		},
	}

	_, err := f.uc.Execute(context.Background(), request("09:00", "10:00"))
	assert.ErrorIs(t, err, ErrInternal)
	// Менеджер транзакций должен распознать конфликт сериализации для повтора
	assert.True(t, txmanager.IsSerializationFailure(f.tx.lastErr))
}

func TestUseCase_Execute_PublishFailureIgnored(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker is down")

	resp, err := f.uc.Execute(context.Background(), request("09:00", "10:00"))
	require.NoError(t, err)
	assert.NotZero(t, resp.Reservation.ID)
	assert.Equal(t, 1, f.metrics.created)
}
