package create_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/infra/queue"
	reservationRepo "github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/reservation"
	roomRepo "github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/room"
)

// UseCase use case для создания бронирования комнаты
type UseCase struct {
	reservationRepo ReservationRepository
	roomRepo        RoomRepository
	checker         ConflictChecker
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	roomRepo RoomRepository,
	checker ConflictChecker,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		roomRepo:        roomRepo,
		checker:         checker,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка конфликтов и вставка идут в одной сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CreateReservation: user=%d, room=%d, date=%s, time=%s-%s",
		req.Actor.UserID, req.RoomID, req.Date, req.StartTime, req.EndTime)

	// 2. Получаем комнату
	room, err := uc.roomRepo.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			uc.logger.Warn("CreateReservation: room id=%d not found", req.RoomID)
			return nil, ErrRoomNotFound
		}
		uc.logger.Error("CreateReservation: failed to get room id=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: failed to get room: %v", ErrInternal, err)
	}

	// 3. Проверяем вместимость
	if !room.Fits(req.Participants) {
		uc.logger.Warn("CreateReservation: %d participants exceed capacity %d of room id=%d",
			*req.Participants, room.Capacity, room.ID)
		return nil, ErrCapacityExceeded
	}

	// 4. Проверяем интервал
	if err := validateInterval(req); err != nil {
		uc.logger.Warn("CreateReservation: %v", err)
		return nil, err
	}

	var result *domain.Reservation

	// 5. Проверка конфликтов и сохранение в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Активные пересекающиеся бронирования (FOR UPDATE)
		conflicts, err := uc.checker.Conflicts(txCtx, room.ID, req.Date, req.StartTime, req.EndTime)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to check conflicts: %v", err)
			return fmt.Errorf("%w: failed to check conflicts: %w", ErrInternal, err)
		}

		if len(conflicts) > 0 {
			uc.logger.Warn("CreateReservation: slot %s %s-%s in room id=%d conflicts with %d reservation(s)",
				req.Date, req.StartTime, req.EndTime, room.ID, len(conflicts))
			return ErrSlotUnavailable
		}

		// 5.2. Расчет длительности и стоимости
		pricing, err := domain.CalculatePrice(req.StartTime, req.EndTime, room.HourlyPrice)
		if err != nil {
			uc.logger.Warn("CreateReservation: failed to calculate price: %v", err)
			return fmt.Errorf("%w: %v", ErrInvalidInterval, err)
		}

		// 5.3. Сохраняем бронирование в статусе PENDING
		created, err := uc.reservationRepo.Create(txCtx, &domain.Reservation{
			UserID:        req.Actor.UserID,
			RoomID:        room.ID,
			Date:          req.Date,
			StartTime:     req.StartTime,
			EndTime:       req.EndTime,
			Participants:  req.Participants,
			Purpose:       req.Purpose,
			DurationHours: pricing.DurationHours,
			TotalAmount:   pricing.Amount,
			Status:        domain.StatusPending,
		})
		if err != nil {
			switch {
			case errors.Is(err, reservationRepo.ErrSlotUnavailable):
				uc.logger.Warn("CreateReservation: slot taken concurrently in room id=%d", room.ID)
				return ErrSlotUnavailable
			case errors.Is(err, reservationRepo.ErrRoomNotFound):
				uc.logger.Warn("CreateReservation: room id=%d removed concurrently", room.ID)
				return ErrRoomNotFound
			}
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotUnavailable) {
			uc.metrics.ReservationConflict()
		}
		if isKnownError(err) {
			return nil, err
		}
		uc.logger.Error("CreateReservation: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateReservation: successfully created reservation id=%d, amount=%s",
		result.ID, result.TotalAmount.StringFixed(domain.AmountPrecision))

	// 6. Публикуем событие после фиксации транзакции
	uc.metrics.ReservationCreated()
	event := queue.NewReservationEvent(queue.EventReservationCreated, result, uc.timeProvider.Now())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("CreateReservation: failed to publish event for reservation id=%d: %v", result.ID, err)
	}

	return &Response{Reservation: result, Room: room}, nil
}

func isKnownError(err error) bool {
	return errors.Is(err, ErrSlotUnavailable) ||
		errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrInvalidInterval) ||
		errors.Is(err, ErrInternal)
}
