package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Room represents a bookable meeting room from the room catalog
type Room struct {
	ID          int64
	Name        string
	Location    *string
	Description *string
	Capacity    int
	HourlyPrice decimal.Decimal
	ImageURL    *string
	Features    []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Fits reports whether participants fit into the room. A nil count always fits.
func (r *Room) Fits(participants *int) bool {
	return participants == nil || *participants <= r.Capacity
}
