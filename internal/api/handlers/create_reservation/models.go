package create_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/reservations/models"
	createReservation "github.com/m04kA/SMC-RoomReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	RoomID       int64   `json:"roomId"`
	Date         string  `json:"date"`      // "2025-03-10"
	StartTime    string  `json:"startTime"` // "09:00"
	EndTime      string  `json:"endTime"`   // "10:30"
	Participants *int    `json:"participants,omitempty"`
	Purpose      *string `json:"purpose,omitempty"`
}

// CreateReservationResponse HTTP response model
type CreateReservationResponse struct {
	models.ReservationResponse
	RoomName string `json:"roomName"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(actor domain.Actor) (*createReservation.Request, error) {
	date, err := types.NewDateFromString(r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: startTime: %v", errInvalidTime, err)
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: endTime: %v", errInvalidTime, err)
	}

	return &createReservation.Request{
		Actor:        actor,
		RoomID:       r.RoomID,
		Date:         date,
		StartTime:    startTime,
		EndTime:      endTime,
		Participants: r.Participants,
		Purpose:      r.Purpose,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *CreateReservationResponse {
	return &CreateReservationResponse{
		ReservationResponse: *models.FromDomainReservation(resp.Reservation),
		RoomName:            resp.Room.Name,
	}
}
