package room

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomReservationService/pkg/psqlbuilder"
)

const table = "rooms"

var columns = []string{
	"id",
	"name",
	"location",
	"description",
	"capacity",
	"hourly_price",
	"image_url",
	"features",
	"created_at",
	"updated_at",
}

// Repository репозиторий каталога комнат
type Repository struct {
	db  DBExecutor
	now func() time.Time
}

// NewRepository создает новый экземпляр репозитория комнат
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db, now: time.Now}
}

// GetByID получает комнату по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	room, err := scanRoom(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan room: %v", ErrScanRow, err)
	}

	return room, nil
}

// List возвращает все комнаты каталога, упорядоченные по названию
func (r *Repository) List(ctx context.Context) ([]*domain.Room, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		OrderBy("name ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rooms := make([]*domain.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return rooms, nil
}

// Create добавляет комнату в каталог
func (r *Repository) Create(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	return r.insert(ctx, room, "Create", "RETURNING id")
}

// CreateIfNotExists добавляет комнату, если комнаты с таким названием еще нет.
// Возвращает false, если комната уже существовала.
func (r *Repository) CreateIfNotExists(ctx context.Context, room *domain.Room) (bool, error) {
	_, err := r.insert(ctx, room, "CreateIfNotExists", "ON CONFLICT (name) DO NOTHING RETURNING id")
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repository) insert(ctx context.Context, room *domain.Room, method, suffix string) (*domain.Room, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	features, err := encodeFeatures(room.Features)
	if err != nil {
		return nil, err
	}

	now := r.now().UTC()
	room.CreatedAt = now
	room.UpdatedAt = now

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"name",
			"location",
			"description",
			"capacity",
			"hourly_price",
			"image_url",
			"features",
			"created_at",
			"updated_at",
		).
		Values(
			room.Name,
			room.Location,
			room.Description,
			room.Capacity,
			room.HourlyPrice,
			room.ImageURL,
			features,
			room.CreatedAt,
			room.UpdatedAt,
		).
		Suffix(suffix).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build insert query: %v", ErrBuildQuery, method, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&room.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, mapError(method+" - execute insert", err)
	}

	return room, nil
}

// Update обновляет данные комнаты
func (r *Repository) Update(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	features, err := encodeFeatures(room.Features)
	if err != nil {
		return nil, err
	}

	room.UpdatedAt = r.now().UTC()

	query, args, err := psqlbuilder.Update(table).
		Set("name", room.Name).
		Set("location", room.Location).
		Set("description", room.Description).
		Set("capacity", room.Capacity).
		Set("hourly_price", room.HourlyPrice).
		Set("image_url", room.ImageURL).
		Set("features", features).
		Set("updated_at", room.UpdatedAt).
		Where(squirrel.Eq{"id": room.ID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("Update - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return nil, ErrRoomNotFound
	}

	return room, nil
}

// Delete удаляет комнату из каталога.
// Комнату с бронированиями удалить нельзя (ErrRoomInUse).
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError("Delete - execute delete", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrRoomNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRoom(row scanner) (*domain.Room, error) {
	var room domain.Room
	var features []byte
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&room.ID,
		&room.Name,
		&room.Location,
		&room.Description,
		&room.Capacity,
		&room.HourlyPrice,
		&room.ImageURL,
		&features,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	room.Features = make([]string, 0)
	if len(features) > 0 {
		if err := json.Unmarshal(features, &room.Features); err != nil {
			return nil, fmt.Errorf("decode features: %v", err)
		}
	}

	room.CreatedAt = createdAt.Time
	room.UpdatedAt = updatedAt.Time

	return &room, nil
}

func encodeFeatures(features []string) (string, error) {
	if features == nil {
		features = []string{}
	}
	body, err := json.Marshal(features)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncodeFeatures, err)
	}
	return string(body), nil
}

func mapError(step string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return fmt.Errorf("%w: %s: %v", ErrDuplicateName, step, err)
		case pqForeignKeyViolation:
			return fmt.Errorf("%w: %s: %v", ErrRoomInUse, step, err)
		}
	}
	return fmt.Errorf("%w: %s: %w", ErrExecQuery, step, err)
}
