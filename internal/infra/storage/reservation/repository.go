package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomReservationService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

const table = "reservations"

var columns = []string{
	"id",
	"user_id",
	"room_id",
	"booking_date",
	"start_time",
	"end_time",
	"participants",
	"purpose",
	"duration_hours",
	"total_amount",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями комнат
type Repository struct {
	db  DBExecutor
	now func() time.Time
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Create сохраняет новое бронирование и заполняет его ID.
// Пересечение с активным бронированием той же комнаты отклоняется
// ограничением reservations_no_overlap и возвращается как ErrSlotUnavailable.
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if res.CreatedAt.IsZero() {
		res.CreatedAt = r.now().UTC()
	}
	res.UpdatedAt = res.CreatedAt

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"user_id",
			"room_id",
			"booking_date",
			"start_time",
			"end_time",
			"participants",
			"purpose",
			"duration_hours",
			"total_amount",
			"status",
			"created_at",
			"updated_at",
		).
		Values(
			res.UserID,
			res.RoomID,
			res.Date,
			res.StartTime,
			res.EndTime,
			res.Participants,
			res.Purpose,
			res.DurationHours,
			res.TotalAmount,
			res.Status,
			res.CreatedAt,
			res.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&res.ID); err != nil {
		return nil, mapError("Create - execute insert", err)
	}

	return res, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// GetOverlapping возвращает активные (PENDING, APPROVED) бронирования комнаты на дату,
// пересекающиеся с интервалом [start, end): existing.start < end AND existing.end > start.
// Внутри транзакции найденные строки блокируются (FOR UPDATE).
func (r *Repository) GetOverlapping(ctx context.Context, roomID int64, date types.Date, start, end types.TimeString) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"room_id": roomID}).
		Where(squirrel.Eq{"booking_date": date}).
		Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "GetOverlapping", query, args)
}

// GetByUserID получает бронирования пользователя (сначала поздние даты, в пределах даты по времени начала)
func (r *Repository) GetByUserID(ctx context.Context, userID int64) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("booking_date DESC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "GetByUserID", query, args)
}

// GetByStatus получает бронирования в статусе, упорядоченные по дате и времени начала
func (r *Repository) GetByStatus(ctx context.Context, status domain.ReservationStatus) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"status": status}).
		OrderBy("booking_date ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByStatus - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "GetByStatus", query, args)
}

// GetByStatusInDateRange получает бронирования в статусе с датой в [from, to]
func (r *Repository) GetByStatusInDateRange(ctx context.Context, status domain.ReservationStatus, from, to types.Date) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"status": status}).
		Where(squirrel.GtOrEq{"booking_date": from}).
		Where(squirrel.LtOrEq{"booking_date": to}).
		OrderBy("booking_date ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByStatusInDateRange - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "GetByStatusInDateRange", query, args)
}

// GetWithFilter получает бронирования с фильтрацией для администратора.
// Не заданные поля фильтра не применяются.
//
// Примеры:
//
//	все бронирования комнаты:       domain.ReservationFilter{RoomID: ptr.Ptr(int64(1))}
//	подтвержденные на дату:         domain.ReservationFilter{Status: &approved, Date: &date}
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).From(table)

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.RoomID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"room_id": *filter.RoomID})
	}
	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"booking_date": *filter.Date})
	}

	query, args, err := selectBuilder.
		OrderBy("booking_date DESC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "GetWithFilter", query, args)
}

// CountByRoom возвращает количество бронирований комнаты в любом статусе
func (r *Repository) CountByRoom(ctx context.Context, roomID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(table).
		Where(squirrel.Eq{"room_id": roomID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountByRoom - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByRoom - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// UpdateStatus переводит бронирование из статуса from в статус to одним UPDATE.
// Если статус уже изменился параллельно, возвращает ErrStatusChanged,
// если бронирования нет - ErrReservationNotFound.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.ReservationStatus) (time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updatedAt := r.now().UTC()

	query, args, err := psqlbuilder.Update(table).
		Set("status", to).
		Set("updated_at", updatedAt).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()

	if err != nil {
		return time.Time{}, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return time.Time{}, mapError("UpdateStatus - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// Отличаем отсутствие бронирования от параллельного перехода
		if _, err := r.GetByID(ctx, id); err != nil {
			return time.Time{}, err
		}
		return time.Time{}, ErrStatusChanged
	}

	return updatedAt, nil
}

func (r *Repository) query(ctx context.Context, executor DBExecutor, method, query string, args []interface{}) ([]*domain.Reservation, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(method+" - execute query", err)
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return reservations, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row scanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.RoomID,
		&res.Date,
		&res.StartTime,
		&res.EndTime,
		&res.Participants,
		&res.Purpose,
		&res.DurationHours,
		&res.TotalAmount,
		&res.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

// mapError переводит ошибки Postgres в ошибки репозитория.
// Исходная ошибка остается в цепочке, чтобы txmanager распознал конфликт сериализации.
func mapError(step string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqExclusionViolation:
			return fmt.Errorf("%w: %s: %v", ErrSlotUnavailable, step, err)
		case pqForeignKeyViolation:
			return fmt.Errorf("%w: %s: %v", ErrRoomNotFound, step, err)
		}
	}
	return fmt.Errorf("%w: %s: %w", ErrExecQuery, step, err)
}

func statusStrings(statuses []domain.ReservationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
