package reject_reservation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/access"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/reservations"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/reservations/models"
	"github.com/m04kA/SMC-RoomReservationService/pkg/logger"
)

type mockService struct {
	rejectFn func(ctx context.Context, id int64, actor domain.Actor) (*models.ReservationResponse, error)
}

func (m *mockService) Reject(ctx context.Context, id int64, actor domain.Actor) (*models.ReservationResponse, error) {
	return m.rejectFn(ctx, id, actor)
}

var admin = &domain.Actor{UserID: 1, IsAdmin: true}

func newRouter(svc ReservationService) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/reservations/{id}/reject", NewHandler(svc, logger.Nop()).Handle).Methods(http.MethodPatch)
	return r
}

func patch(r http.Handler, path string, actor *domain.Actor) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, path, nil)
	if actor != nil {
		req = req.WithContext(middleware.WithActor(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Rejected(t *testing.T) {
	router := newRouter(&mockService{
		rejectFn: func(ctx context.Context, id int64, actor domain.Actor) (*models.ReservationResponse, error) {
			require.Equal(t, int64(42), id)
			require.True(t, actor.IsAdmin)
			return &models.ReservationResponse{ID: id, UserID: 7, Status: string(domain.StatusRejected)}, nil
		},
	})

	rec := patch(router, "/reservations/42/reject", admin)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"REJECTED"`)
}

func TestHandle_Errors(t *testing.T) {
	user := &domain.Actor{UserID: 8}

	tests := []struct {
		name       string
		path       string
		actor      *domain.Actor
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "bad id", path: "/reservations/abc/reject", actor: admin, wantStatus: http.StatusBadRequest, wantMsg: msgInvalidReservationID},
		{name: "no actor", path: "/reservations/1/reject", wantStatus: http.StatusUnauthorized, wantMsg: msgMissingUser},
		{name: "not found", path: "/reservations/1/reject", actor: admin, err: reservations.ErrReservationNotFound, wantStatus: http.StatusNotFound, wantMsg: msgNotFound},
		{name: "not admin", path: "/reservations/1/reject", actor: user, err: access.ErrAdminOnly, wantStatus: http.StatusForbidden, wantMsg: msgForbidden},
		{name: "second reject", path: "/reservations/1/reject", actor: admin,
			err: fmt.Errorf("%w: REJECTED -> REJECTED", reservations.ErrInvalidTransition), wantStatus: http.StatusConflict, wantMsg: msgInvalidTransition},
		{name: "internal", path: "/reservations/1/reject", actor: admin, err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(&mockService{
				rejectFn: func(ctx context.Context, id int64, actor domain.Actor) (*models.ReservationResponse, error) {
					return nil, tt.err
				},
			})

			rec := patch(router, tt.path, tt.actor)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMsg != "" {
				assert.Contains(t, rec.Body.String(), tt.wantMsg)
			}
		})
	}
}
