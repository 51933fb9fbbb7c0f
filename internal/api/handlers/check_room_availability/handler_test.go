package check_room_availability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomReservationService/internal/service/rooms"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/rooms/models"
	"github.com/m04kA/SMC-RoomReservationService/pkg/logger"
)

type mockService struct {
	availabilityFn func(ctx context.Context, req *models.AvailabilityRequest) (*models.AvailabilityResponse, error)
}

func (m *mockService) Availability(ctx context.Context, req *models.AvailabilityRequest) (*models.AvailabilityResponse, error) {
	return m.availabilityFn(ctx, req)
}

func get(svc RoomService, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/rooms/{id}/availability", NewHandler(svc, logger.Nop()).Handle).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_ReturnsConflicts(t *testing.T) {
	var got *models.AvailabilityRequest
	svc := &mockService{
		availabilityFn: func(ctx context.Context, req *models.AvailabilityRequest) (*models.AvailabilityResponse, error) {
			got = req
			return &models.AvailabilityResponse{
				Available: false,
				ConflictingSlots: []models.SlotResponse{
					{Date: "2025-03-10", StartTime: "09:00", EndTime: "10:30", Status: "APPROVED"},
				},
			}, nil
		},
	}

	rec := get(svc, "/rooms/3/availability?date=2025-03-10&startTime=10:00&endTime=11:00")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, &models.AvailabilityRequest{RoomID: 3, Date: "2025-03-10", StartTime: "10:00", EndTime: "11:00"}, got)
	assert.Contains(t, rec.Body.String(), `"available":false`)
	assert.Contains(t, rec.Body.String(), `"startTime":"09:00"`)
	assert.NotContains(t, rec.Body.String(), "userId")
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
	}{
		{name: "bad id", target: "/rooms/x/availability?date=2025-03-10&startTime=10:00&endTime=11:00", wantStatus: http.StatusBadRequest},
		{name: "missing params", target: "/rooms/1/availability?date=2025-03-10", wantStatus: http.StatusBadRequest},
		{name: "bad format", target: "/rooms/1/availability?date=2025-03-10&startTime=25:00&endTime=11:00", err: rooms.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "reversed", target: "/rooms/1/availability?date=2025-03-10&startTime=11:00&endTime=10:00", err: rooms.ErrInvalidInterval, wantStatus: http.StatusBadRequest},
		{name: "room not found", target: "/rooms/9/availability?date=2025-03-10&startTime=10:00&endTime=11:00", err: rooms.ErrRoomNotFound, wantStatus: http.StatusNotFound},
		{name: "internal", target: "/rooms/1/availability?date=2025-03-10&startTime=10:00&endTime=11:00", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{
				availabilityFn: func(ctx context.Context, req *models.AvailabilityRequest) (*models.AvailabilityResponse, error) {
					return nil, tt.err
				},
			}
			assert.Equal(t, tt.wantStatus, get(svc, tt.target).Code)
		})
	}
}
