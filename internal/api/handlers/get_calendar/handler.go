package get_calendar

import (
	"net/http"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
)

const msgMissingUser = "отсутствует пользователь"

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/reservations/calendar
// Администратор получает полные записи, пользователь - только занятые интервалы
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /reservations/calendar - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	result, err := h.service.Calendar(r.Context(), actor)
	if err != nil {
		h.logger.Error("GET /reservations/calendar - Failed to get calendar: user_id=%d, error=%v", actor.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /reservations/calendar - Calendar retrieved successfully: user_id=%d, admin=%t, count=%d",
		actor.UserID, actor.IsAdmin, len(result.Reservations))
	handlers.RespondJSON(w, http.StatusOK, result)
}
