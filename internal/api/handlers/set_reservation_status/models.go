package set_reservation_status

// SetStatusRequest HTTP request model
type SetStatusRequest struct {
	Status string `json:"status"` // PENDING, APPROVED, REJECTED, CANCELLED (регистр не важен)
}
