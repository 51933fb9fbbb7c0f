package get_room

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
	getByIDFn func(ctx context.Context, id int64) (*models.RoomResponse, error)
}

func (m *mockService) GetByID(ctx context.Context, id int64) (*models.RoomResponse, error) {
	return m.getByIDFn(ctx, id)
}

func get(svc RoomService, path string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/rooms/{id}", NewHandler(svc, logger.Nop()).Handle).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandle_Found(t *testing.T) {
	rec := get(&mockService{
		getByIDFn: func(ctx context.Context, id int64) (*models.RoomResponse, error) {
			require.Equal(t, int64(3), id)
			return &models.RoomResponse{ID: id, Name: "Vega", Capacity: 6, Price: "40.00", Features: []string{}}, nil
		},
	}, "/rooms/3")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Vega"`)
	assert.Contains(t, rec.Body.String(), `"price":"40.00"`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "bad id", path: "/rooms/abc", wantStatus: http.StatusBadRequest, wantMsg: msgInvalidRoomID},
		{name: "missing room", path: "/rooms/404", err: rooms.ErrRoomNotFound, wantStatus: http.StatusNotFound, wantMsg: msgNotFound},
		{name: "internal", path: "/rooms/1", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(&mockService{
				getByIDFn: func(ctx context.Context, id int64) (*models.RoomResponse, error) {
					return nil, tt.err
				},
			}, tt.path)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMsg != "" {
				assert.Contains(t, rec.Body.String(), tt.wantMsg)
			}
		})
	}
}
