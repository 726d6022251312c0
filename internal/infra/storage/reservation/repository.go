package reservation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

// reservationColumns полный набор колонок таблицы reservations
var reservationColumns = []string{
	"id",
	"table_id",
	"customer_id",
	"reservation_date",
	"start_time",
	"duration_minutes",
	"guests",
	"status",
	"lock_expires_at",
	"table_number",
	"special_requests",
	"cancelled_by",
	"confirmed_at",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
// Все переходы конечного автомата выражены одиночными условными записями:
// условие проверяется в момент записи, а не отдельным чтением
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateLocked атомарно создает блокировку стола
// Вставка обусловлена отсутствием блокирующего бронирования с пересекающимся
// окном на том же столе и дате: confirmed, либо locked с действующим TTL
// (истекшие блокировки не мешают - lazy expiry).
// Проверка и вставка выполняются одним INSERT ... SELECT ... WHERE NOT EXISTS,
// поэтому два конкурентных вызова не могут оба увидеть "свободно" и оба вставить.
// Возвращает ErrWindowConflict, если окно занято.
func (r *Repository) CreateLocked(ctx context.Context, res *domain.Reservation, now time.Time) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	window := res.Window()

	noOverlap := squirrel.Expr(
		`NOT EXISTS (
			SELECT 1 FROM reservations
			WHERE table_id = ?
			  AND reservation_date = ?
			  AND status IN (?, ?)
			  AND (status <> ? OR lock_expires_at > ?)
			  AND start_minutes < ?
			  AND end_minutes > ?
		)`,
		res.TableID,
		res.Date,
		domain.StatusLocked,
		domain.StatusConfirmed,
		domain.StatusLocked,
		now,
		window.EndMinutes,
		window.StartMinutes,
	)

	values := squirrel.Select().
		Column(squirrel.Expr("?", res.ID)).
		Column(squirrel.Expr("?", res.TableID)).
		Column(squirrel.Expr("?", res.CustomerID)).
		Column(squirrel.Expr("?", res.Date)).
		Column(squirrel.Expr("?", res.StartTime)).
		Column(squirrel.Expr("?", res.DurationMinutes)).
		Column(squirrel.Expr("?", window.StartMinutes)).
		Column(squirrel.Expr("?", window.EndMinutes)).
		Column(squirrel.Expr("?", res.Guests)).
		Column(squirrel.Expr("?", res.Status)).
		Column(squirrel.Expr("?", res.LockExpiresAt)).
		Column(squirrel.Expr("?", res.TableNumber)).
		Column(squirrel.Expr("?", res.SpecialRequests)).
		Where(noOverlap)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"id",
			"table_id",
			"customer_id",
			"reservation_date",
			"start_time",
			"duration_minutes",
			"start_minutes",
			"end_minutes",
			"guests",
			"status",
			"lock_expires_at",
			"table_number",
			"special_requests",
		).
		Select(values).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateLocked - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		// Условие NOT EXISTS не выполнилось - окно занято
		return nil, ErrWindowConflict
	}
	if err != nil {
		return nil, fmt.Errorf("%w: CreateLocked - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)

	res, err := scanReservation(row)
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// FindActiveLock ищет действующую блокировку того же клиента на идентичное окно
// Используется для идемпотентного повторного запроса Lock: вместо конфликта
// клиенту возвращается его собственная блокировка
func (r *Repository) FindActiveLock(
	ctx context.Context,
	customerID string,
	tableID int64,
	date time.Time,
	window domain.Window,
	now time.Time,
) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{
			"customer_id":      customerID,
			"table_id":         tableID,
			"reservation_date": date,
			"start_minutes":    window.StartMinutes,
			"end_minutes":      window.EndMinutes,
			"status":           domain.StatusLocked,
		}).
		Where(squirrel.Gt{"lock_expires_at": now}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveLock - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)

	res, err := scanReservation(row)
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveLock - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// GetBlockingByDate получает все бронирования на дату, блокирующие окна
// Lazy expiry применяется в самом запросе: блокировки с истекшим TTL
// не возвращаются, даже если reaper еще не перевел их в expired
func (r *Repository) GetBlockingByDate(ctx context.Context, date time.Time, now time.Time) ([]*domain.Reservation, error) {
	return r.getBlocking(ctx, nil, date, now, "GetBlockingByDate")
}

// GetBlockingByTableAndDate получает блокирующие бронирования одного стола на дату
// Результат отсортирован по времени начала
func (r *Repository) GetBlockingByTableAndDate(ctx context.Context, tableID int64, date time.Time, now time.Time) ([]*domain.Reservation, error) {
	return r.getBlocking(ctx, &tableID, date, now, "GetBlockingByTableAndDate")
}

func (r *Repository) getBlocking(ctx context.Context, tableID *int64, date time.Time, now time.Time, op string) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"reservation_date": date}).
		Where(squirrel.Eq{"status": []string{string(domain.StatusLocked), string(domain.StatusConfirmed)}}).
		Where(squirrel.Or{
			squirrel.NotEq{"status": domain.StatusLocked},
			squirrel.Gt{"lock_expires_at": now},
		}).
		OrderBy("start_minutes ASC")

	if tableID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"table_id": *tableID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	return scanReservations(rows, op)
}

// GetByCustomerID получает историю бронирований клиента (сначала новые)
func (r *Repository) GetByCustomerID(ctx context.Context, customerID string) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows, "GetByCustomerID")
}

// ConfirmLocked атомарно переводит блокировку в confirmed
// Обновление обусловлено тем, что строка все еще locked с действующим TTL
// в момент записи. Возвращает ErrNoActiveLock, если условие не выполнилось:
// вызывающий перечитывает строку, чтобы различить expired/cancelled/confirmed.
func (r *Repository) ConfirmLocked(ctx context.Context, id string, specialRequests *string, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusConfirmed).
		Set("lock_expires_at", nil).
		Set("special_requests", specialRequests).
		Set("confirmed_at", now).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id, "status": domain.StatusLocked}).
		Where(squirrel.Gt{"lock_expires_at": now}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ConfirmLocked - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ConfirmLocked - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ConfirmLocked - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrNoActiveLock
	}

	return nil
}

// CancelActive атомарно переводит бронирование в cancelled
// Допустимые исходные статусы - locked и confirmed; TTL не проверяется:
// досрочное освобождение стола не может нарушить инвариант
// Возвращает ErrNotCancellable, если строка не в отменяемом статусе
func (r *Repository) CancelActive(ctx context.Context, id string, cancelledBy string, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCancelled).
		Set("lock_expires_at", nil).
		Set("cancelled_by", cancelledBy).
		Set("cancelled_at", now).
		Set("updated_at", now).
		Where(squirrel.Eq{
			"id":     id,
			"status": []string{string(domain.StatusLocked), string(domain.StatusConfirmed)},
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CancelActive - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: CancelActive - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: CancelActive - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrNotCancellable
	}

	return nil
}

// ExpireStale переводит в expired все блокировки с истекшим TTL
// То же условное обновление, что и везде: строка должна быть locked
// с lock_expires_at <= now в момент записи. Если Confirm выиграл гонку,
// строка уже не locked и не затрагивается.
// Возвращает ID обработанных бронирований.
func (r *Repository) ExpireStale(ctx context.Context, now time.Time) ([]string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusExpired).
		Set("updated_at", now).
		Where(squirrel.Eq{"status": domain.StatusLocked}).
		Where(squirrel.LtOrEq{"lock_expires_at": now}).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ExpireStale - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ExpireStale - execute update: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ExpireStale - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ExpireStale - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

// CountActiveByTableID подсчитывает активные бронирования стола
// Используется как guard при удалении стола
func (r *Repository) CountActiveByTableID(ctx context.Context, tableID int64, now time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("reservations").
		Where(squirrel.Eq{
			"table_id": tableID,
			"status":   []string{string(domain.StatusLocked), string(domain.StatusConfirmed)},
		}).
		Where(squirrel.Or{
			squirrel.NotEq{"status": domain.StatusLocked},
			squirrel.Gt{"lock_expires_at": now},
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveByTableID - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveByTableID - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// rowScanner общий интерфейс для *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanReservation сканирует одну строку в бронирование
func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.TableID,
		&res.CustomerID,
		&res.Date,
		&res.StartTime,
		&res.DurationMinutes,
		&res.Guests,
		&res.Status,
		&res.LockExpiresAt,
		&res.TableNumber,
		&res.SpecialRequests,
		&res.CancelledBy,
		&res.ConfirmedAt,
		&res.CancelledAt,
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

// scanReservations сканирует результаты запроса в слайс бронирований
func scanReservations(rows *sql.Rows, op string) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return reservations, nil
}
