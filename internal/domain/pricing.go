package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// AmountPrecision number of decimal places kept in reservation amounts
const AmountPrecision = 2

var minutesPerHour = decimal.NewFromInt(60)

// Pricing derived duration and amount of a reservation
type Pricing struct {
	DurationHours float64
	Amount        decimal.Decimal
}

// CalculatePrice derives the duration in hours and the amount for [start, end)
// at hourlyRate. The amount is rounded half-up to AmountPrecision places.
func CalculatePrice(start, end types.TimeString, hourlyRate decimal.Decimal) (Pricing, error) {
	if start.IsZero() || end.IsZero() {
		return Pricing{}, fmt.Errorf("%w: start and end are required", ErrInvalidInterval)
	}

	minutes := start.MinutesUntil(end)
	if minutes <= 0 {
		return Pricing{}, fmt.Errorf("%w: end %s must be after start %s", ErrInvalidInterval, end, start)
	}
	if hourlyRate.IsNegative() {
		return Pricing{}, fmt.Errorf("%w: negative hourly rate %s", ErrInvalidInterval, hourlyRate)
	}

	// rate * minutes / 60 считается в decimal целиком, без промежуточного float
	amount := hourlyRate.
		Mul(decimal.NewFromInt(int64(minutes))).
		Div(minutesPerHour).
		Round(AmountPrecision)

	return Pricing{
		DurationHours: float64(minutes) / 60.0,
		Amount:        amount,
	}, nil
}
