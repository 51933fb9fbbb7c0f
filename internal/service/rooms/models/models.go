package models

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

// Request модели

// RoomRequest запрос на создание или обновление комнаты
type RoomRequest struct {
	Name        string          `json:"name"`
	Location    *string         `json:"location,omitempty"`
	Description *string         `json:"description,omitempty"`
	Capacity    int             `json:"capacity"`
	Price       decimal.Decimal `json:"price"` // Стоимость часа, число или строка
	ImageURL    *string         `json:"imageUrl,omitempty"`
	Features    []string        `json:"features,omitempty"`
}

// ToDomain переносит поля запроса в комнату
func (r *RoomRequest) ToDomain(room *domain.Room) {
	room.Name = r.Name
	room.Location = r.Location
	room.Description = r.Description
	room.Capacity = r.Capacity
	room.HourlyPrice = r.Price.Round(domain.AmountPrecision)
	room.ImageURL = r.ImageURL
	room.Features = append(make([]string, 0, len(r.Features)), r.Features...)
}

// AvailabilityRequest запрос на проверку свободного интервала
type AvailabilityRequest struct {
	RoomID    int64
	Date      string // YYYY-MM-DD
	StartTime string // HH:MM
	EndTime   string // HH:MM
}

// Response модели

// RoomResponse ответ с данными комнаты
type RoomResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Location    *string  `json:"location,omitempty"`
	Description *string  `json:"description,omitempty"`
	Capacity    int      `json:"capacity"`
	Price       string   `json:"price"` // "50.00"
	ImageURL    *string  `json:"imageUrl,omitempty"`
	Features    []string `json:"features"`
}

// RoomListResponse ответ со списком комнат
type RoomListResponse struct {
	Rooms []RoomResponse `json:"rooms"`
}

// SlotResponse занятый интервал без данных владельца
type SlotResponse struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
}

// AvailabilityResponse результат проверки интервала
type AvailabilityResponse struct {
	Available        bool           `json:"available"`
	ConflictingSlots []SlotResponse `json:"conflictingSlots"`
}

// Методы конвертации

// FromDomainRoom конвертирует domain модель в DTO
func FromDomainRoom(room *domain.Room) *RoomResponse {
	if room == nil {
		return nil
	}

	features := room.Features
	if features == nil {
		features = []string{}
	}

	return &RoomResponse{
		ID:          room.ID,
		Name:        room.Name,
		Location:    room.Location,
		Description: room.Description,
		Capacity:    room.Capacity,
		Price:       room.HourlyPrice.StringFixed(domain.AmountPrecision),
		ImageURL:    room.ImageURL,
		Features:    features,
	}
}

// FromDomainRoomList конвертирует список комнат в DTO
func FromDomainRoomList(rooms []*domain.Room) *RoomListResponse {
	resp := &RoomListResponse{Rooms: make([]RoomResponse, 0, len(rooms))}
	for _, room := range rooms {
		if item := FromDomainRoom(room); item != nil {
			resp.Rooms = append(resp.Rooms, *item)
		}
	}
	return resp
}

// FromDomainConflicts конвертирует конфликтующие бронирования в ответ проверки
func FromDomainConflicts(conflicts []*domain.Reservation) *AvailabilityResponse {
	resp := &AvailabilityResponse{
		Available:        len(conflicts) == 0,
		ConflictingSlots: make([]SlotResponse, 0, len(conflicts)),
	}
	for _, r := range conflicts {
		resp.ConflictingSlots = append(resp.ConflictingSlots, SlotResponse{
			ID:        r.ID,
			Date:      r.Date.String(),
			StartTime: r.StartTime.String(),
			EndTime:   r.EndTime.String(),
			Status:    string(r.Status),
		})
	}
	return resp
}
