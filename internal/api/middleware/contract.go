package middleware

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

// Authenticator извлекает пользователя из запроса
type Authenticator interface {
	Authenticate(r *http.Request) (domain.Actor, error)
}

// HTTPRecorder интерфейс сбора HTTP метрик
type HTTPRecorder interface {
	ObserveHTTP(route, method string, status int, duration time.Duration)
}

// Logger интерфейс логгера
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
