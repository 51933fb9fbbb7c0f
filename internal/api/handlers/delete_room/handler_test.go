package delete_room

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/access"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/rooms"
	"github.com/m04kA/SMC-RoomReservationService/pkg/logger"
)

type mockService struct {
	deleteFn func(ctx context.Context, actor domain.Actor, id int64) error
}

func (m *mockService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	return m.deleteFn(ctx, actor, id)
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "deleted", wantStatus: http.StatusNoContent},
		{name: "not admin", err: access.ErrAdminOnly, wantStatus: http.StatusForbidden},
		{name: "not found", err: rooms.ErrRoomNotFound, wantStatus: http.StatusNotFound},
		{name: "in use", err: rooms.ErrRoomInUse, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{
				deleteFn: func(ctx context.Context, actor domain.Actor, id int64) error {
					return tt.err
				},
			}
			router := mux.NewRouter()
			router.HandleFunc("/rooms/{id}", NewHandler(svc, logger.Nop()).Handle).Methods(http.MethodDelete)

			req := httptest.NewRequest(http.MethodDelete, "/rooms/3", nil)
			req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{UserID: 1, IsAdmin: true}))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
