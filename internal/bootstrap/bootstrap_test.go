package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomReservationService/internal/config"
	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/pkg/logger"
)

type memorySeeder struct {
	rooms map[string]*domain.Room
	err   error
}

func (m *memorySeeder) CreateIfNotExists(ctx context.Context, room *domain.Room) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.rooms[room.Name]; ok {
		return false, nil
	}
	m.rooms[room.Name] = room
	return true, nil
}

var seeds = []config.RoomSeed{
	{Name: "Orion", Location: "3 этаж", Capacity: 10, HourlyPrice: "50.00", Features: []string{"projector"}},
	{Name: "Vega", Capacity: 4, HourlyPrice: "20"},
}

func TestSeedRooms_Idempotent(t *testing.T) {
	seeder := &memorySeeder{rooms: make(map[string]*domain.Room)}
	ctx := context.Background()

	created, err := SeedRooms(ctx, seeder, seeds, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	created, err = SeedRooms(ctx, seeder, seeds, logger.Nop())
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Len(t, seeder.rooms, 2)

	orion := seeder.rooms["Orion"]
	require.NotNil(t, orion.Location)
	assert.Equal(t, "3 этаж", *orion.Location)
	assert.Nil(t, orion.Description)
	assert.Equal(t, "50.00", orion.HourlyPrice.StringFixed(2))
	assert.Equal(t, "20.00", seeder.rooms["Vega"].HourlyPrice.StringFixed(2))
}

func TestSeedRooms_Errors(t *testing.T) {
	seeder := &memorySeeder{rooms: make(map[string]*domain.Room), err: errors.New("db down")}

	_, err := SeedRooms(context.Background(), seeder, seeds, logger.Nop())
	assert.ErrorIs(t, err, ErrSeed)

	bad := []config.RoomSeed{{Name: "Broken", Capacity: 1, HourlyPrice: "free"}}
	_, err = SeedRooms(context.Background(), &memorySeeder{rooms: make(map[string]*domain.Room)}, bad, logger.Nop())
	assert.ErrorIs(t, err, ErrSeed)
}
