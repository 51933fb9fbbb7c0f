package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusApproved  ReservationStatus = "APPROVED"
	StatusRejected  ReservationStatus = "REJECTED"
	StatusCancelled ReservationStatus = "CANCELLED"
)

// transitions is the single source of truth for allowed status changes.
// Statuses without an entry are terminal.
var transitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusCancelled},
}

// ParseStatus converts a free-form status string into a known status.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseStatus(s string) (ReservationStatus, error) {
	status := ReservationStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

// IsValid returns true for the four known statuses
func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// IsActive returns true if a reservation in this status occupies its slot
func (s ReservationStatus) IsActive() bool {
	return s == StatusPending || s == StatusApproved
}

// IsTerminal returns true if no transition leaves this status
func (s ReservationStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo reports whether the transition table allows s -> target
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Reservation represents a meeting room reservation
type Reservation struct {
	ID           int64
	UserID       int64
	RoomID       int64
	Date         types.Date
	StartTime    types.TimeString
	EndTime      types.TimeString
	Participants *int
	Purpose      *string

	// Derived once at creation, never recomputed
	DurationHours float64
	TotalAmount   decimal.Decimal

	Status    ReservationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the reservation takes part in conflict checks
func (r *Reservation) IsActive() bool {
	return r.Status.IsActive()
}

// Overlaps reports whether the reservation's [start, end) interval intersects
// [start, end). Touching endpoints do not overlap.
func (r *Reservation) Overlaps(start, end types.TimeString) bool {
	return r.StartTime.IsBefore(end) && r.EndTime.IsAfter(start)
}

// StartsAt returns the start moment of the reservation in loc
func (r *Reservation) StartsAt(loc *time.Location) time.Time {
	return r.StartTime.On(r.Date, loc)
}

// TransitionTo moves the reservation to target if the table allows it.
// The receiver is left untouched on failure.
func (r *Reservation) TransitionTo(target ReservationStatus) error {
	if !target.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, target)
	}
	if !r.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, target)
	}
	r.Status = target
	return nil
}

// ReservationFilter administrative listing filter. Nil fields are not applied.
type ReservationFilter struct {
	Status *ReservationStatus
	RoomID *int64
	Date   *types.Date
}
