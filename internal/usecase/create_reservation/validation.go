package create_reservation

import (
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	if req.Actor.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.RoomID <= 0 {
		return fmt.Errorf("%w: roomID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if req.EndTime.IsZero() {
		return fmt.Errorf("%w: endTime is required", ErrInvalidInput)
	}

	if req.Participants != nil && *req.Participants <= 0 {
		return fmt.Errorf("%w: participants must be positive", ErrInvalidInput)
	}

	if req.Purpose != nil && utf8.RuneCountInString(*req.Purpose) > domain.MaxPurposeLength {
		return fmt.Errorf("%w: purpose is longer than %d characters", ErrInvalidInput, domain.MaxPurposeLength)
	}

	return nil
}

// validateInterval проверяет, что интервал [start, end) не пустой
func validateInterval(req *Request) error {
	if !req.StartTime.IsBefore(req.EndTime) {
		return fmt.Errorf("%w: %s - %s", ErrInvalidInterval, req.StartTime, req.EndTime)
	}
	return nil
}
