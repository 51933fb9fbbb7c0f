package list_reservations

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-RoomReservationService/internal/service/reservations/models"
	"github.com/m04kA/SMC-RoomReservationService/pkg/ptr"
)

// ToServiceRequest формирует запрос к сервису из query параметров status, roomId, date
func ToServiceRequest(query url.Values) (*models.ListAllRequest, error) {
	req := &models.ListAllRequest{}

	if status := query.Get("status"); status != "" {
		req.Status = ptr.Ptr(status)
	}

	if roomIDStr := query.Get("roomId"); roomIDStr != "" {
		roomID, err := strconv.ParseInt(roomIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid roomId value: %w", err)
		}
		req.RoomID = ptr.Ptr(roomID)
	}

	if date := query.Get("date"); date != "" {
		req.Date = ptr.Ptr(date)
	}

	return req, nil
}
