package domain

// Actor is the identity performing an operation, as supplied by the
// authenticator. The engine never verifies credentials itself.
type Actor struct {
	UserID  int64
	IsAdmin bool
}

// Owns reports whether the actor is the owner of the reservation.
func (a Actor) Owns(r *Reservation) bool {
	return r != nil && r.UserID == a.UserID
}
