package create_reservation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	createReservation "github.com/m04kA/SMC-RoomReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-RoomReservationService/pkg/logger"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

type mockUseCase struct {
	executeFn func(ctx context.Context, req *createReservation.Request) (*createReservation.Response, error)
}

func (m *mockUseCase) Execute(ctx context.Context, req *createReservation.Request) (*createReservation.Response, error) {
	return m.executeFn(ctx, req)
}

const validBody = `{"roomId":1,"date":"2025-03-10","startTime":"09:00","endTime":"10:30","participants":5}`

func serve(h *Handler, body string, withActor bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	if withActor {
		req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{UserID: 7}))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	var got *createReservation.Request
	h := NewHandler(&mockUseCase{
		executeFn: func(ctx context.Context, req *createReservation.Request) (*createReservation.Response, error) {
			got = req
			return &createReservation.Response{
				Reservation: &domain.Reservation{
					ID:            11,
					UserID:        req.Actor.UserID,
					RoomID:        req.RoomID,
					Date:          req.Date,
					StartTime:     req.StartTime,
					EndTime:       req.EndTime,
					Participants:  req.Participants,
					DurationHours: 1.5,
					TotalAmount:   decimal.RequireFromString("75"),
					Status:        domain.StatusPending,
				},
				Room: &domain.Room{ID: 1, Name: "Orion"},
			}, nil
		},
	}, logger.Nop())

	rec := serve(h, validBody, true)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.Actor.UserID)
	assert.Equal(t, types.MustDate("2025-03-10"), got.Date)
	assert.Equal(t, "10:30", got.EndTime.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(11), body["id"])
	assert.Equal(t, "Orion", body["roomName"])
	assert.Equal(t, "75.00", body["totalAmount"])
	assert.Equal(t, "PENDING", body["status"])
	assert.Equal(t, 1.5, body["durationHours"])
}

func TestHandle_RequestErrors(t *testing.T) {
	h := NewHandler(&mockUseCase{
		executeFn: func(ctx context.Context, req *createReservation.Request) (*createReservation.Response, error) {
			t.Fatal("use case must not be called")
			return nil, nil
		},
	}, logger.Nop())

	tests := []struct {
		name       string
		body       string
		withActor  bool
		wantStatus int
		wantMsg    string
	}{
		{name: "no actor", body: validBody, wantStatus: http.StatusUnauthorized, wantMsg: msgMissingUser},
		{name: "malformed body", body: `{`, withActor: true, wantStatus: http.StatusBadRequest, wantMsg: msgInvalidRequestBody},
		{name: "bad date", body: `{"roomId":1,"date":"10.03.2025","startTime":"09:00","endTime":"10:00"}`, withActor: true, wantStatus: http.StatusBadRequest, wantMsg: msgInvalidDate},
		{name: "bad time", body: `{"roomId":1,"date":"2025-03-10","startTime":"9am","endTime":"10:00"}`, withActor: true, wantStatus: http.StatusBadRequest, wantMsg: msgInvalidTime},
		{name: "time with seconds", body: `{"roomId":1,"date":"2025-03-10","startTime":"09:00","endTime":"09:59:59"}`, withActor: true, wantStatus: http.StatusBadRequest, wantMsg: msgInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.body, tt.withActor)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
		})
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "invalid input", err: createReservation.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "invalid interval", err: createReservation.ErrInvalidInterval, wantStatus: http.StatusBadRequest},
		{name: "capacity", err: createReservation.ErrCapacityExceeded, wantStatus: http.StatusBadRequest},
		{name: "room not found", err: createReservation.ErrRoomNotFound, wantStatus: http.StatusNotFound},
		{name: "slot unavailable", err: fmt.Errorf("%w: 1 conflict", createReservation.ErrSlotUnavailable), wantStatus: http.StatusConflict},
		{name: "internal", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&mockUseCase{
				executeFn: func(ctx context.Context, req *createReservation.Request) (*createReservation.Response, error) {
					return nil, tt.err
				},
			}, logger.Nop())

			rec := serve(h, validBody, true)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
