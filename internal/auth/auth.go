// Package auth определяет пользователя запроса по JWT или заголовкам шлюза
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-RoomReservationService/internal/config"
	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

// Заголовки доверенного шлюза
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

var (
	// ErrUnauthenticated возвращается, когда запрос не содержит валидной идентичности
	ErrUnauthenticated = errors.New("auth: unauthenticated")

	// ErrUnknownMode возвращается при неизвестном режиме аутентификации
	ErrUnknownMode = errors.New("auth: unknown mode")
)

// Authenticator определяет пользователя запроса
type Authenticator interface {
	Authenticate(r *http.Request) (domain.Actor, error)
}

// New создает аутентификатор по настройкам
func New(cfg config.AuthConfig) (Authenticator, error) {
	switch strings.ToLower(cfg.Mode) {
	case config.AuthModeJWT:
		return NewJWTAuthenticator(cfg.JWTSecret, cfg.AdminUserIDs), nil
	case config.AuthModeHeader, "":
		return NewHeaderAuthenticator(cfg.AdminUserIDs), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, cfg.Mode)
	}
}

// admins пользователи, назначенные администраторами в конфигурации
type admins map[int64]struct{}

func newAdmins(ids []int64) admins {
	set := make(admins, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (a admins) actor(userID int64, role string) domain.Actor {
	_, configured := a[userID]
	return domain.Actor{UserID: userID, IsAdmin: configured || isAdminRole(role)}
}

// isAdminRole принимает "admin" и "ROLE_ADMIN" в любом регистре
func isAdminRole(role string) bool {
	role = strings.ToLower(strings.TrimSpace(role))
	return role == "admin" || role == "role_admin"
}

// JWTAuthenticator проверяет Bearer токен HS256: sub - ID пользователя, role - роль
type JWTAuthenticator struct {
	secret []byte
	admins admins
	parser *jwt.Parser
}

// NewJWTAuthenticator создает аутентификатор по JWT
func NewJWTAuthenticator(secret string, adminIDs []int64) *JWTAuthenticator {
	return &JWTAuthenticator{
		secret: []byte(secret),
		admins: newAdmins(adminIDs),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()),
	}
}

// Authenticate разбирает заголовок Authorization
func (a *JWTAuthenticator) Authenticate(r *http.Request) (domain.Actor, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return domain.Actor{}, fmt.Errorf("%w: missing bearer token", ErrUnauthenticated)
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

	claims := jwt.MapClaims{}
	token, err := a.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return domain.Actor{}, fmt.Errorf("%w: invalid token: %v", ErrUnauthenticated, err)
	}

	userID, err := subjectID(claims["sub"])
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	role, _ := claims["role"].(string)
	return a.admins.actor(userID, role), nil
}

// subjectID принимает sub как строку или число
func subjectID(sub interface{}) (int64, error) {
	var id int64
	switch v := sub.(type) {
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid sub %q", v)
		}
		id = parsed
	case float64:
		id = int64(v)
		if float64(id) != v {
			return 0, fmt.Errorf("invalid sub %v", v)
		}
	default:
		return 0, errors.New("missing sub")
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid sub %d", id)
	}
	return id, nil
}

// HeaderAuthenticator доверяет заголовкам X-User-ID и X-User-Role от шлюза
type HeaderAuthenticator struct {
	admins admins
}

// NewHeaderAuthenticator создает аутентификатор по заголовкам шлюза
func NewHeaderAuthenticator(adminIDs []int64) *HeaderAuthenticator {
	return &HeaderAuthenticator{admins: newAdmins(adminIDs)}
}

// Authenticate читает заголовки шлюза
func (a *HeaderAuthenticator) Authenticate(r *http.Request) (domain.Actor, error) {
	raw := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if raw == "" {
		return domain.Actor{}, fmt.Errorf("%w: missing %s header", ErrUnauthenticated, HeaderUserID)
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		return domain.Actor{}, fmt.Errorf("%w: invalid %s header %q", ErrUnauthenticated, HeaderUserID, raw)
	}

	return a.admins.actor(userID, r.Header.Get(HeaderUserRole)), nil
}
