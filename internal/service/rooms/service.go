package rooms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	roomRepo "github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/room"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/rooms/models"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// Service сервис каталога комнат
type Service struct {
	roomRepo RoomRepository
	counter  ReservationCounter
	checker  ConflictChecker
	guard    AccessGuard
	logger   Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(
	roomRepo RoomRepository,
	counter ReservationCounter,
	checker ConflictChecker,
	guard AccessGuard,
	logger Logger,
) *Service {
	return &Service{
		roomRepo: roomRepo,
		counter:  counter,
		checker:  checker,
		guard:    guard,
		logger:   logger,
	}
}

// List возвращает все комнаты каталога
func (s *Service) List(ctx context.Context) (*models.RoomListResponse, error) {
	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d rooms", len(rooms))
	return models.FromDomainRoomList(rooms), nil
}

// GetByID получает комнату по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.RoomResponse, error) {
	room, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainRoom(room), nil
}

// Create добавляет комнату в каталог (администратор)
func (s *Service) Create(ctx context.Context, actor domain.Actor, req *models.RoomRequest) (*models.RoomResponse, error) {
	s.logger.Info("Create: creating room by user=%d", actor.UserID)

	// 1. Проверяем права доступа
	if err := s.guard.CanManageRooms(actor); err != nil {
		s.logger.Warn("Create: access denied for user=%d", actor.UserID)
		return nil, err
	}

	// 2. Валидируем входные данные
	if err := validateRoomRequest(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 3. Сохраняем комнату
	room := &domain.Room{}
	req.ToDomain(room)

	created, err := s.roomRepo.Create(ctx, room)
	if err != nil {
		if errors.Is(err, roomRepo.ErrDuplicateName) {
			s.logger.Warn("Create: room name=%q already exists", room.Name)
			return nil, ErrDuplicateName
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created room id=%d", created.ID)
	return models.FromDomainRoom(created), nil
}

// Update обновляет комнату (администратор).
// Изменение вместимости не влияет на существующие бронирования.
func (s *Service) Update(ctx context.Context, actor domain.Actor, id int64, req *models.RoomRequest) (*models.RoomResponse, error) {
	s.logger.Info("Update: updating room id=%d by user=%d", id, actor.UserID)

	if err := s.guard.CanManageRooms(actor); err != nil {
		s.logger.Warn("Update: access denied for user=%d", actor.UserID)
		return nil, err
	}

	if err := validateRoomRequest(req); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	room, err := s.get(ctx, "Update", id)
	if err != nil {
		return nil, err
	}
	req.ToDomain(room)

	updated, err := s.roomRepo.Update(ctx, room)
	if err != nil {
		switch {
		case errors.Is(err, roomRepo.ErrRoomNotFound):
			s.logger.Warn("Update: room id=%d not found during update", id)
			return nil, ErrRoomNotFound
		case errors.Is(err, roomRepo.ErrDuplicateName):
			s.logger.Warn("Update: room name=%q already exists", room.Name)
			return nil, ErrDuplicateName
		}
		s.logger.Error("Update: repository error for room id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated room id=%d", id)
	return models.FromDomainRoom(updated), nil
}

// Delete удаляет комнату (администратор).
// Комнату, на которую есть бронирования в любом статусе, удалить нельзя.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	s.logger.Info("Delete: deleting room id=%d by user=%d", id, actor.UserID)

	if err := s.guard.CanManageRooms(actor); err != nil {
		s.logger.Warn("Delete: access denied for user=%d", actor.UserID)
		return err
	}

	if _, err := s.get(ctx, "Delete", id); err != nil {
		return err
	}

	count, err := s.counter.CountByRoom(ctx, id)
	if err != nil {
		s.logger.Error("Delete: failed to count reservations of room id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - count reservations: %v", ErrInternal, err)
	}
	if count > 0 {
		s.logger.Warn("Delete: room id=%d has %d reservations", id, count)
		return ErrRoomInUse
	}

	if err := s.roomRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, roomRepo.ErrRoomNotFound):
			s.logger.Warn("Delete: room id=%d not found during delete", id)
			return ErrRoomNotFound
		case errors.Is(err, roomRepo.ErrRoomInUse):
			s.logger.Warn("Delete: room id=%d got reservations concurrently", id)
			return ErrRoomInUse
		}
		s.logger.Error("Delete: repository error for room id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted room id=%d", id)
	return nil
}

// Availability проверяет, свободна ли комната в интервале [start, end) на дату.
// Возвращает конфликтующие интервалы без данных владельцев.
func (s *Service) Availability(ctx context.Context, req *models.AvailabilityRequest) (*models.AvailabilityResponse, error) {
	s.logger.Info("Availability: room=%d, date=%s, time=%s-%s", req.RoomID, req.Date, req.StartTime, req.EndTime)

	// 1. Разбираем дату и время
	date, err := types.NewDateFromString(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, req.Date)
	}
	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startTime %q", ErrInvalidInput, req.StartTime)
	}
	end, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endTime %q", ErrInvalidInput, req.EndTime)
	}
	if !start.IsBefore(end) {
		s.logger.Warn("Availability: invalid interval %s-%s", start, end)
		return nil, ErrInvalidInterval
	}

	// 2. Проверяем существование комнаты
	if _, err := s.get(ctx, "Availability", req.RoomID); err != nil {
		return nil, err
	}

	// 3. Ищем пересечения
	conflicts, err := s.checker.Conflicts(ctx, req.RoomID, date, start, end)
	if err != nil {
		s.logger.Error("Availability: failed to check conflicts for room id=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: Availability - check conflicts: %v", ErrInternal, err)
	}

	s.logger.Info("Availability: room=%d has %d conflicting reservations", req.RoomID, len(conflicts))
	return models.FromDomainConflicts(conflicts), nil
}

// Вспомогательные методы

func (s *Service) get(ctx context.Context, method string, id int64) (*domain.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			s.logger.Warn("%s: room id=%d not found", method, id)
			return nil, ErrRoomNotFound
		}
		s.logger.Error("%s: repository error for room id=%d: %v", method, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
	}
	return room, nil
}

// validateRoomRequest проверяет поля комнаты
func validateRoomRequest(req *models.RoomRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > domain.MaxRoomNameLength {
		return fmt.Errorf("%w: name is longer than %d characters", ErrInvalidInput, domain.MaxRoomNameLength)
	}
	req.Name = name

	if req.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", ErrInvalidInput)
	}

	if req.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	if req.Description != nil && utf8.RuneCountInString(*req.Description) > domain.MaxRoomDescriptionLength {
		return fmt.Errorf("%w: description is longer than %d characters", ErrInvalidInput, domain.MaxRoomDescriptionLength)
	}

	if len(req.Features) > domain.MaxRoomFeatures {
		return fmt.Errorf("%w: no more than %d features allowed", ErrInvalidInput, domain.MaxRoomFeatures)
	}

	return nil
}
