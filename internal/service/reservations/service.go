package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/infra/queue"
	reservationRepo "github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/reservations/models"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// Service сервис для чтения бронирований и смены их статусов
type Service struct {
	reservationRepo ReservationRepository
	guard           AccessGuard
	publisher       EventPublisher
	metrics         Metrics
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований.
// location - часовой пояс, в котором трактуются дата и время бронирований.
func NewService(
	reservationRepo ReservationRepository,
	guard AccessGuard,
	publisher EventPublisher,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		reservationRepo: reservationRepo,
		guard:           guard,
		publisher:       publisher,
		metrics:         metrics,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает бронирование по ID.
// Пользователь видит только свои бронирования, администратор - любые.
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, actor.UserID)

	reservation, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.guard.CanView(reservation, actor); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", actor.UserID, id)
		return nil, err
	}

	return models.FromDomainReservation(reservation), nil
}

// ListMine возвращает бронирования пользователя: дата по убыванию, время начала по возрастанию
func (s *Service) ListMine(ctx context.Context, actor domain.Actor) (*models.ReservationListResponse, error) {
	s.logger.Info("ListMine: fetching reservations for user=%d", actor.UserID)

	reservations, err := s.reservationRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		s.logger.Error("ListMine: repository error for user=%d: %v", actor.UserID, err)
		return nil, fmt.Errorf("%w: ListMine - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListMine: fetched %d reservations for user=%d", len(reservations), actor.UserID)
	return models.FromDomainReservationList(reservations), nil
}

// ListPending возвращает бронирования, ожидающие решения администратора
func (s *Service) ListPending(ctx context.Context, actor domain.Actor) (*models.ReservationListResponse, error) {
	if err := s.guard.CanListAll(actor); err != nil {
		s.logger.Warn("ListPending: access denied for user=%d", actor.UserID)
		return nil, err
	}

	reservations, err := s.reservationRepo.GetByStatus(ctx, domain.StatusPending)
	if err != nil {
		s.logger.Error("ListPending: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListPending - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListPending: fetched %d pending reservations", len(reservations))
	return models.FromDomainReservationList(reservations), nil
}

// ListUpcoming возвращает подтвержденные бронирования, начинающиеся в ближайшие 24 часа
func (s *Service) ListUpcoming(ctx context.Context, actor domain.Actor) (*models.ReservationListResponse, error) {
	if err := s.guard.CanListAll(actor); err != nil {
		s.logger.Warn("ListUpcoming: access denied for user=%d", actor.UserID)
		return nil, err
	}

	reservations, err := s.Upcoming(ctx)
	if err != nil {
		return nil, err
	}

	return models.FromDomainReservationList(reservations), nil
}

// Upcoming возвращает подтвержденные бронирования со временем начала в окне (now, now+24h).
// Используется также воркером напоминаний.
func (s *Service) Upcoming(ctx context.Context) ([]*domain.Reservation, error) {
	now := s.timeProvider.Now().In(s.location)
	windowEnd := now.Add(domain.UpcomingWindowHours * time.Hour)
	today := types.NewDate(now)

	candidates, err := s.reservationRepo.GetByStatusInDateRange(ctx, domain.StatusApproved, today, types.NewDate(windowEnd))
	if err != nil {
		s.logger.Error("Upcoming: repository error: %v", err)
		return nil, fmt.Errorf("%w: Upcoming - repository error: %v", ErrInternal, err)
	}

	upcoming := make([]*domain.Reservation, 0, len(candidates))
	for _, r := range candidates {
		startsAt := r.StartsAt(s.location)
		if startsAt.After(now) && startsAt.Before(windowEnd) {
			upcoming = append(upcoming, r)
		}
	}

	s.logger.Info("Upcoming: %d of %d approved reservations start before %s",
		len(upcoming), len(candidates), windowEnd.Format(time.RFC3339))
	return upcoming, nil
}

// ListAll возвращает бронирования с необязательными фильтрами по статусу, комнате и дате
func (s *Service) ListAll(ctx context.Context, actor domain.Actor, req *models.ListAllRequest) (*models.ReservationListResponse, error) {
	if err := s.guard.CanListAll(actor); err != nil {
		s.logger.Warn("ListAll: access denied for user=%d", actor.UserID)
		return nil, err
	}

	if req == nil {
		req = &models.ListAllRequest{}
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListAll: invalid filter: %v", err)
		if errors.Is(err, domain.ErrUnknownStatus) {
			return nil, fmt.Errorf("%w: %v", ErrUnknownStatus, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	reservations, err := s.reservationRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListAll: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListAll - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListAll: fetched %d reservations", len(reservations))
	return models.FromDomainReservationList(reservations), nil
}

// Calendar возвращает подтвержденные бронирования.
// Пользователь получает только комнату, дату и время, администратор - полные записи.
func (s *Service) Calendar(ctx context.Context, actor domain.Actor) (*models.CalendarResponse, error) {
	reservations, err := s.reservationRepo.GetByStatus(ctx, domain.StatusApproved)
	if err != nil {
		s.logger.Error("Calendar: repository error: %v", err)
		return nil, fmt.Errorf("%w: Calendar - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Calendar: fetched %d approved reservations for user=%d", len(reservations), actor.UserID)
	return models.FromDomainCalendar(reservations, actor.IsAdmin), nil
}

// Approve подтверждает бронирование в статусе PENDING
func (s *Service) Approve(ctx context.Context, id int64, actor domain.Actor) (*models.ReservationResponse, error) {
	if err := s.guard.CanMutateStatus(actor); err != nil {
		s.logger.Warn("Approve: access denied for user=%d", actor.UserID)
		return nil, err
	}
	return s.transition(ctx, "Approve", id, domain.StatusApproved)
}

// Reject отклоняет бронирование в статусе PENDING
func (s *Service) Reject(ctx context.Context, id int64, actor domain.Actor) (*models.ReservationResponse, error) {
	if err := s.guard.CanMutateStatus(actor); err != nil {
		s.logger.Warn("Reject: access denied for user=%d", actor.UserID)
		return nil, err
	}
	return s.transition(ctx, "Reject", id, domain.StatusRejected)
}

// Cancel отменяет бронирование в статусе PENDING или APPROVED.
// Пользователь может отменить только свое бронирование.
func (s *Service) Cancel(ctx context.Context, id int64, actor domain.Actor) (*models.ReservationResponse, error) {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d", id, actor.UserID)

	reservation, err := s.get(ctx, "Cancel", id)
	if err != nil {
		return nil, err
	}

	if err := s.guard.CanCancel(reservation, actor); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to reservation id=%d", actor.UserID, id)
		return nil, err
	}

	return s.apply(ctx, "Cancel", reservation, domain.StatusCancelled)
}

// SetStatus устанавливает произвольный статус (администратор).
// Строка статуса не чувствительна к регистру, переход проверяется по таблице.
func (s *Service) SetStatus(ctx context.Context, id int64, status string, actor domain.Actor) (*models.ReservationResponse, error) {
	if err := s.guard.CanMutateStatus(actor); err != nil {
		s.logger.Warn("SetStatus: access denied for user=%d", actor.UserID)
		return nil, err
	}

	target, err := domain.ParseStatus(status)
	if err != nil {
		s.logger.Warn("SetStatus: invalid status=%q for reservation id=%d", status, id)
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}

	return s.transition(ctx, "SetStatus", id, target)
}

// Вспомогательные методы

func (s *Service) get(ctx context.Context, method string, id int64) (*domain.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("%s: reservation id=%d not found", method, id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("%s: repository error for reservation id=%d: %v", method, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
	}
	return reservation, nil
}

func (s *Service) transition(ctx context.Context, method string, id int64, target domain.ReservationStatus) (*models.ReservationResponse, error) {
	s.logger.Info("%s: moving reservation id=%d to %s", method, id, target)

	reservation, err := s.get(ctx, method, id)
	if err != nil {
		return nil, err
	}

	return s.apply(ctx, method, reservation, target)
}

// apply проверяет переход по таблице и сохраняет его сравнением с текущим статусом.
// Сумма и длительность не меняются.
func (s *Service) apply(ctx context.Context, method string, reservation *domain.Reservation, target domain.ReservationStatus) (*models.ReservationResponse, error) {
	from := reservation.Status
	if err := reservation.TransitionTo(target); err != nil {
		s.logger.Warn("%s: reservation id=%d: %v", method, reservation.ID, err)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, target)
	}

	updatedAt, err := s.reservationRepo.UpdateStatus(ctx, reservation.ID, from, target)
	if err != nil {
		switch {
		case errors.Is(err, reservationRepo.ErrReservationNotFound):
			s.logger.Warn("%s: reservation id=%d not found during update", method, reservation.ID)
			return nil, ErrReservationNotFound
		case errors.Is(err, reservationRepo.ErrStatusChanged):
			s.logger.Warn("%s: reservation id=%d changed status concurrently", method, reservation.ID)
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, target)
		}
		s.logger.Error("%s: repository error for reservation id=%d: %v", method, reservation.ID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
	}
	reservation.UpdatedAt = updatedAt

	s.logger.Info("%s: reservation id=%d moved %s -> %s", method, reservation.ID, from, target)

	s.metrics.ReservationTransition(string(target))
	event := queue.NewReservationEvent(queue.EventTypeForStatus(target), reservation, s.timeProvider.Now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("%s: failed to publish event for reservation id=%d: %v", method, reservation.ID, err)
	}

	return models.FromDomainReservation(reservation), nil
}
