package update_room

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/access"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/rooms"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/rooms/models"
	"github.com/m04kA/SMC-RoomReservationService/pkg/logger"
)

type mockService struct {
	updateFn func(ctx context.Context, actor domain.Actor, id int64, req *models.RoomRequest) (*models.RoomResponse, error)
}

func (m *mockService) Update(ctx context.Context, actor domain.Actor, id int64, req *models.RoomRequest) (*models.RoomResponse, error) {
	return m.updateFn(ctx, actor, id, req)
}

const validBody = `{"name":"Orion","capacity":12,"price":"65.5"}`

var admin = &domain.Actor{UserID: 1, IsAdmin: true}

func put(svc RoomService, path, body string, actor *domain.Actor) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/rooms/{id}", NewHandler(svc, logger.Nop()).Handle).Methods(http.MethodPut)

	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	if actor != nil {
		req = req.WithContext(middleware.WithActor(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Updated(t *testing.T) {
	var got *models.RoomRequest
	svc := &mockService{
		updateFn: func(ctx context.Context, actor domain.Actor, id int64, req *models.RoomRequest) (*models.RoomResponse, error) {
			require.Equal(t, int64(2), id)
			got = req
			return &models.RoomResponse{ID: id, Name: req.Name, Capacity: req.Capacity, Price: req.Price.StringFixed(2), Features: []string{}}, nil
		},
	}

	rec := put(svc, "/rooms/2", validBody, admin)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, 12, got.Capacity)
	assert.Contains(t, rec.Body.String(), `"price":"65.50"`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		actor      *domain.Actor
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "bad id", path: "/rooms/abc", body: validBody, actor: admin, wantStatus: http.StatusBadRequest, wantMsg: msgInvalidRoomID},
		{name: "no actor", path: "/rooms/1", body: validBody, wantStatus: http.StatusUnauthorized, wantMsg: msgMissingUser},
		{name: "malformed body", path: "/rooms/1", body: `{"name":`, actor: admin, wantStatus: http.StatusBadRequest, wantMsg: msgInvalidRequestBody},
		{name: "unknown field", path: "/rooms/1", body: `{"name":"A","capacity":1,"price":"1","color":"red"}`, actor: admin, wantStatus: http.StatusBadRequest, wantMsg: msgInvalidRequestBody},
		{name: "not admin", path: "/rooms/1", body: validBody, actor: &domain.Actor{UserID: 7}, err: access.ErrAdminOnly, wantStatus: http.StatusForbidden, wantMsg: msgForbidden},
		{name: "missing room", path: "/rooms/404", body: validBody, actor: admin, err: rooms.ErrRoomNotFound, wantStatus: http.StatusNotFound, wantMsg: msgNotFound},
		{name: "invalid data", path: "/rooms/1", body: validBody, actor: admin, err: fmt.Errorf("%w: capacity must be positive", rooms.ErrInvalidInput), wantStatus: http.StatusBadRequest, wantMsg: msgInvalidData},
		{name: "duplicate name", path: "/rooms/1", body: validBody, actor: admin, err: rooms.ErrDuplicateName, wantStatus: http.StatusConflict, wantMsg: msgDuplicateName},
		{name: "internal", path: "/rooms/1", body: validBody, actor: admin, err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{
				updateFn: func(ctx context.Context, actor domain.Actor, id int64, req *models.RoomRequest) (*models.RoomResponse, error) {
					return nil, tt.err
				},
			}

			rec := put(svc, tt.path, tt.body, tt.actor)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMsg != "" {
				assert.Contains(t, rec.Body.String(), tt.wantMsg)
			}
		})
	}
}
