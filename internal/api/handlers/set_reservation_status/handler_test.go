package set_reservation_status

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/access"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/reservations"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/reservations/models"
	"github.com/m04kA/SMC-RoomReservationService/pkg/logger"
)

type mockService struct {
	setStatusFn func(ctx context.Context, id int64, status string, actor domain.Actor) (*models.ReservationResponse, error)
}

func (m *mockService) SetStatus(ctx context.Context, id int64, status string, actor domain.Actor) (*models.ReservationResponse, error) {
	return m.setStatusFn(ctx, id, status, actor)
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "approved", body: `{"status":"approved"}`, wantStatus: http.StatusOK},
		{name: "bad body", body: `status=approved`, wantStatus: http.StatusBadRequest},
		{name: "unknown status", body: `{"status":"DONE"}`, err: reservations.ErrUnknownStatus, wantStatus: http.StatusBadRequest},
		{name: "not admin", body: `{"status":"APPROVED"}`, err: access.ErrAdminOnly, wantStatus: http.StatusForbidden},
		{name: "not found", body: `{"status":"APPROVED"}`, err: reservations.ErrReservationNotFound, wantStatus: http.StatusNotFound},
		{name: "terminal", body: `{"status":"PENDING"}`, err: reservations.ErrInvalidTransition, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotStatus string
			svc := &mockService{
				setStatusFn: func(ctx context.Context, id int64, status string, actor domain.Actor) (*models.ReservationResponse, error) {
					gotStatus = status
					if tt.err != nil {
						return nil, tt.err
					}
					return &models.ReservationResponse{ID: id, Status: string(domain.StatusApproved)}, nil
				},
			}

			router := mux.NewRouter()
			router.HandleFunc("/reservations/{id}/status", NewHandler(svc, logger.Nop()).Handle).Methods(http.MethodPatch)

			req := httptest.NewRequest(http.MethodPatch, "/reservations/5/status", strings.NewReader(tt.body))
			req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{UserID: 1, IsAdmin: true}))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.name == "approved" {
				assert.Equal(t, "approved", gotStatus)
			}
		})
	}
}
