// Package middleware HTTP middleware сервиса: аутентификация, request id, метрики, лимит запросов
package middleware

import (
	"context"
	"net/http"

	"github.com/m04kA/SMC-RoomReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

type contextKey string

const actorKey contextKey = "actor"

const msgUnauthorized = "требуется аутентификация"

// Auth проверяет пользователя запроса и кладет его в контекст.
// Без валидных учетных данных запрос отклоняется с 401.
func Auth(authenticator Authenticator, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := authenticator.Authenticate(r)
			if err != nil {
				logger.Warn("%s %s - Authentication failed: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// WithActor кладет пользователя в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor достает пользователя из контекста
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}
