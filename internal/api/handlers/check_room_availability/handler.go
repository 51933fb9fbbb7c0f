package check_room_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/rooms"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/rooms/models"
)

const (
	msgInvalidRoomID   = "некорректный ID комнаты"
	msgMissingParams   = "параметры date, startTime и endTime обязательны"
	msgInvalidParams   = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgInvalidInterval = "время окончания должно быть позже времени начала"
	msgRoomNotFound    = "комната не найдена"
)

type Handler struct {
	service RoomService
	logger  Logger
}

func NewHandler(service RoomService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/rooms/{id}/availability
// Query params: date (YYYY-MM-DD), startTime, endTime (HH:MM), все обязательны
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	roomID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /rooms/{id}/availability - Invalid room ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoomID)
		return
	}

	query := r.URL.Query()
	req := &models.AvailabilityRequest{
		RoomID:    roomID,
		Date:      query.Get("date"),
		StartTime: query.Get("startTime"),
		EndTime:   query.Get("endTime"),
	}
	if req.Date == "" || req.StartTime == "" || req.EndTime == "" {
		h.logger.Warn("GET /rooms/{id}/availability - Missing parameters: room_id=%d", roomID)
		handlers.RespondBadRequest(w, msgMissingParams)
		return
	}

	result, err := h.service.Availability(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, rooms.ErrInvalidInput):
			h.logger.Warn("GET /rooms/{id}/availability - Invalid parameters: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, rooms.ErrInvalidInterval):
			h.logger.Warn("GET /rooms/{id}/availability - Invalid interval: %s-%s", req.StartTime, req.EndTime)
			handlers.RespondBadRequest(w, msgInvalidInterval)

		case errors.Is(err, rooms.ErrRoomNotFound):
			h.logger.Warn("GET /rooms/{id}/availability - Room not found: room_id=%d", roomID)
			handlers.RespondNotFound(w, msgRoomNotFound)

		default:
			h.logger.Error("GET /rooms/{id}/availability - Failed to check availability: room_id=%d, error=%v",
				roomID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /rooms/{id}/availability - Availability checked: room_id=%d, date=%s, available=%t",
		roomID, req.Date, result.Available)
	handlers.RespondJSON(w, http.StatusOK, result)
}
