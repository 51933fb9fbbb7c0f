package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/pkg/ptr"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// Request модели

// ListAllRequest запрос администратора на список бронирований с фильтрами
type ListAllRequest struct {
	Status *string `json:"status,omitempty"` // Фильтр по статусу, регистр не важен
	RoomID *int64  `json:"roomId,omitempty"` // Фильтр по комнате
	Date   *string `json:"date,omitempty"`   // Фильтр по дате (YYYY-MM-DD)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListAllRequest) ToDomainFilter() (domain.ReservationFilter, error) {
	filter := domain.ReservationFilter{RoomID: r.RoomID}

	if r.Status != nil {
		status, err := domain.ParseStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	if r.Date != nil {
		date, err := types.NewDateFromString(*r.Date)
		if err != nil {
			return filter, fmt.Errorf("date %q: %w", *r.Date, err)
		}
		filter.Date = &date
	}

	return filter, nil
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	RoomID        int64     `json:"roomId"`
	Date          string    `json:"date"`      // "2025-03-10"
	StartTime     string    `json:"startTime"` // "09:00"
	EndTime       string    `json:"endTime"`   // "10:30"
	Participants  *int      `json:"participants,omitempty"`
	Purpose       *string   `json:"purpose,omitempty"`
	DurationHours float64   `json:"durationHours"`
	TotalAmount   string    `json:"totalAmount"` // "75.00"
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// CalendarEntry запись календаря подтвержденных бронирований.
// Данные владельца и стоимость заполняются только для администратора.
type CalendarEntry struct {
	ID            int64    `json:"id"`
	RoomID        int64    `json:"roomId"`
	Date          string   `json:"date"`
	StartTime     string   `json:"startTime"`
	EndTime       string   `json:"endTime"`
	Status        string   `json:"status"`
	UserID        *int64   `json:"userId,omitempty"`
	Participants  *int     `json:"participants,omitempty"`
	Purpose       *string  `json:"purpose,omitempty"`
	DurationHours *float64 `json:"durationHours,omitempty"`
	TotalAmount   *string  `json:"totalAmount,omitempty"`
}

// CalendarResponse ответ календаря
type CalendarResponse struct {
	Reservations []CalendarEntry `json:"reservations"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	return &ReservationResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		RoomID:        r.RoomID,
		Date:          r.Date.String(),
		StartTime:     r.StartTime.String(),
		EndTime:       r.EndTime.String(),
		Participants:  r.Participants,
		Purpose:       r.Purpose,
		DurationHours: r.DurationHours,
		TotalAmount:   r.TotalAmount.StringFixed(domain.AmountPrecision),
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
	}

	for _, r := range reservations {
		if item := FromDomainReservation(r); item != nil {
			resp.Reservations = append(resp.Reservations, *item)
		}
	}

	return resp
}

// FromDomainCalendar конвертирует подтвержденные бронирования в записи календаря
func FromDomainCalendar(reservations []*domain.Reservation, full bool) *CalendarResponse {
	resp := &CalendarResponse{
		Reservations: make([]CalendarEntry, 0, len(reservations)),
	}

	for _, r := range reservations {
		entry := CalendarEntry{
			ID:        r.ID,
			RoomID:    r.RoomID,
			Date:      r.Date.String(),
			StartTime: r.StartTime.String(),
			EndTime:   r.EndTime.String(),
			Status:    string(r.Status),
		}

		if full {
			entry.UserID = ptr.Ptr(r.UserID)
			entry.Participants = r.Participants
			entry.Purpose = r.Purpose
			entry.DurationHours = ptr.Ptr(r.DurationHours)
			entry.TotalAmount = ptr.Ptr(r.TotalAmount.StringFixed(domain.AmountPrecision))
		}

		resp.Reservations = append(resp.Reservations, entry)
	}

	return resp
}
