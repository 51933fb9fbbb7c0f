package domain

// Business validation constants
const (
	MaxPurposeLength         = 500
	MaxRoomNameLength        = 255
	MaxRoomDescriptionLength = 2000
	MaxRoomFeatures          = 50
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// UpcomingWindowHours rolling window for upcoming reservations
const UpcomingWindowHours = 24

// ActiveStatuses statuses that occupy a slot and take part in conflict checks
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusApproved,
}

// AllStatuses every known reservation status
var AllStatuses = []ReservationStatus{
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusCancelled,
}
