// Package bootstrap выполняет идемпотентную подготовку при старте:
// миграции схемы и начальный каталог комнат
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RoomReservationService/internal/config"
	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/migrations"
)

// ErrSeed возвращается при ошибке заполнения каталога
var ErrSeed = errors.New("bootstrap: failed to seed rooms")

// RoomSeeder создает комнату, если комнаты с таким названием еще нет
type RoomSeeder interface {
	CreateIfNotExists(ctx context.Context, room *domain.Room) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Migrate применяет миграции схемы
func Migrate(ctx context.Context, db migrations.Execer, logger Logger) error {
	applied, err := migrations.Apply(ctx, db)
	if err != nil {
		logger.Error("Bootstrap: migrations failed: %v", err)
		return err
	}

	if len(applied) == 0 {
		logger.Info("Bootstrap: schema is up to date")
		return nil
	}
	logger.Info("Bootstrap: applied migrations %s", strings.Join(applied, ", "))
	return nil
}

// SeedRooms добавляет комнаты из конфигурации. Повторный запуск ничего не меняет.
func SeedRooms(ctx context.Context, seeder RoomSeeder, seeds []config.RoomSeed, logger Logger) (int, error) {
	created := 0
	for _, seed := range seeds {
		room, err := roomFromSeed(seed)
		if err != nil {
			return created, err
		}

		ok, err := seeder.CreateIfNotExists(ctx, room)
		if err != nil {
			logger.Error("Bootstrap: failed to seed room %q: %v", seed.Name, err)
			return created, fmt.Errorf("%w: room %q: %v", ErrSeed, seed.Name, err)
		}
		if ok {
			created++
			logger.Info("Bootstrap: room %q created", seed.Name)
		}
	}

	logger.Info("Bootstrap: %d of %d configured rooms created", created, len(seeds))
	return created, nil
}

func roomFromSeed(seed config.RoomSeed) (*domain.Room, error) {
	price, err := decimal.NewFromString(seed.HourlyPrice)
	if err != nil {
		return nil, fmt.Errorf("%w: room %q: invalid hourly_price %q", ErrSeed, seed.Name, seed.HourlyPrice)
	}

	return &domain.Room{
		Name:        seed.Name,
		Location:    optional(seed.Location),
		Description: optional(seed.Description),
		Capacity:    seed.Capacity,
		HourlyPrice: price.Round(domain.AmountPrecision),
		ImageURL:    optional(seed.ImageURL),
		Features:    append(make([]string, 0, len(seed.Features)), seed.Features...),
	}, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
