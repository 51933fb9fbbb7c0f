// Package availability проверяет пересечение интервала с активными бронированиями комнаты
package availability

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// Checker проверка конфликтов бронирования. Не меняет состояние.
type Checker struct {
	repo ReservationRepository
}

// NewChecker создает новый экземпляр проверки конфликтов
func NewChecker(repo ReservationRepository) *Checker {
	return &Checker{repo: repo}
}

// Conflicts возвращает активные бронирования комнаты на дату, пересекающиеся с [start, end).
// Смежные интервалы (existing.end == start) конфликтом не считаются.
func (c *Checker) Conflicts(ctx context.Context, roomID int64, date types.Date, start, end types.TimeString) ([]*domain.Reservation, error) {
	if !start.IsBefore(end) {
		return nil, fmt.Errorf("%w: end %s must be after start %s", domain.ErrInvalidInterval, end, start)
	}

	candidates, err := c.repo.GetOverlapping(ctx, roomID, date, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: Conflicts - repository error: %w", ErrInternal, err)
	}

	// Предикат применяем повторно: хранилище может вернуть лишние строки
	conflicts := make([]*domain.Reservation, 0, len(candidates))
	for _, r := range candidates {
		if r.RoomID != roomID || !r.Date.Equal(date) || !r.IsActive() {
			continue
		}
		if r.Overlaps(start, end) {
			conflicts = append(conflicts, r)
		}
	}

	return conflicts, nil
}

// HasConflict возвращает true, если интервал пересекается хотя бы с одним активным бронированием
func (c *Checker) HasConflict(ctx context.Context, roomID int64, date types.Date, start, end types.TimeString) (bool, error) {
	conflicts, err := c.Conflicts(ctx, roomID, date, start, end)
	if err != nil {
		return false, err
	}
	return len(conflicts) > 0, nil
}
