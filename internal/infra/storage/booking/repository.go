package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	"github.com/m04kA/SMC-HallBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-HallBookingService/pkg/psqlbuilder"
)

const tableName = "hall_bookings"

// bookingColumns порядок колонок должен совпадать с scanBooking
var bookingColumns = []string{
	"id",
	"requester_id",
	"requester_role",
	"requester_email",
	"venue_id",
	"venue_name",
	"event_name",
	"organizer",
	"department",
	"institution",
	"organizing_club",
	"phone",
	"alt_phone",
	"date_kind",
	"event_date",
	"start_date",
	"end_date",
	"weekday",
	"start_time",
	"end_time",
	"approval_state",
	"rejection_reason",
	"imported",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями площадок
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
// При создании заявки вызывается в одной транзакции с привязкой записей реестра
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	s := booking.Schedule
	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"requester_id",
			"requester_role",
			"requester_email",
			"venue_id",
			"venue_name",
			"event_name",
			"organizer",
			"department",
			"institution",
			"organizing_club",
			"phone",
			"alt_phone",
			"date_kind",
			"event_date",
			"start_date",
			"end_date",
			"weekday",
			"start_time",
			"end_time",
			"approval_state",
			"rejection_reason",
			"imported",
		).
		Values(
			booking.RequesterID,
			booking.RequesterRole,
			booking.RequesterEmail,
			booking.VenueID,
			booking.VenueName,
			booking.EventName,
			booking.Organizer,
			booking.Department,
			booking.Institution,
			booking.OrganizingClub,
			booking.Phone,
			booking.AltPhone,
			s.Kind,
			s.EventDate,
			s.StartDate,
			s.EndDate,
			weekdayValue(s.Weekday),
			s.StartTime,
			s.EndTime,
			booking.ApprovalState,
			booking.RejectionReason,
			booking.Imported,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает бронирование и блокирует строку до конца транзакции
// Используется при смене статуса и переносе, чтобы параллельные изменения шли по очереди
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, id, true)
}

func (r *Repository) getByID(ctx context.Context, id int64, forUpdate bool) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(bookingColumns...).
		From(tableName).
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// List получает бронирования по фильтру
// Сортировка: ближайшие мероприятия первыми
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableName).
		OrderBy("COALESCE(event_date, start_date) ASC", "start_time ASC", "id ASC")

	if filter.RequesterID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"requester_id": *filter.RequesterID})
	}
	if filter.VenueID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"venue_id": *filter.VenueID})
	}
	if filter.State != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"approval_state": *filter.State})
	}
	if filter.Department != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr("LOWER(department) = LOWER(?)", *filter.Department))
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr("COALESCE(end_date, event_date) >= ?",
			filter.From.Format(domain.DateFormat)))
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr("COALESCE(start_date, event_date) <= ?",
			filter.To.Format(domain.DateFormat)))
	}
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// UpdateApproval обновляет статус согласования и причину отклонения
func (r *Repository) UpdateApproval(ctx context.Context, id int64, state domain.ApprovalState, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("approval_state", state).
		Set("rejection_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateApproval - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateApproval", query, args)
}

// UpdateSchedule обновляет расписание бронирования и статус согласования
func (r *Repository) UpdateSchedule(ctx context.Context, id int64, schedule domain.Schedule, state domain.ApprovalState) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("date_kind", schedule.Kind).
		Set("event_date", schedule.EventDate).
		Set("start_date", schedule.StartDate).
		Set("end_date", schedule.EndDate).
		Set("weekday", weekdayValue(schedule.Weekday)).
		Set("start_time", schedule.StartTime).
		Set("end_time", schedule.EndTime).
		Set("approval_state", state).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateSchedule", query, args)
}

// Delete удаляет бронирование
// Записи реестра освобождаются вызывающим кодом в той же транзакции
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Delete", query, args)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// scanBooking сканирует строку в порядке bookingColumns
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b                    domain.Booking
		weekday              sql.NullInt16
		eventDate            sql.NullTime
		startDate, endDate   sql.NullTime
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&b.ID,
		&b.RequesterID,
		&b.RequesterRole,
		&b.RequesterEmail,
		&b.VenueID,
		&b.VenueName,
		&b.EventName,
		&b.Organizer,
		&b.Department,
		&b.Institution,
		&b.OrganizingClub,
		&b.Phone,
		&b.AltPhone,
		&b.Schedule.Kind,
		&eventDate,
		&startDate,
		&endDate,
		&weekday,
		&b.Schedule.StartTime,
		&b.Schedule.EndTime,
		&b.ApprovalState,
		&b.RejectionReason,
		&b.Imported,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Schedule.EventDate = nullDate(eventDate)
	b.Schedule.StartDate = nullDate(startDate)
	b.Schedule.EndDate = nullDate(endDate)
	if weekday.Valid {
		wd := time.Weekday(weekday.Int16)
		b.Schedule.Weekday = &wd
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

func nullDate(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	d := domain.CanonicalDate(t.Time)
	return &d
}

func weekdayValue(wd *time.Weekday) interface{} {
	if wd == nil {
		return nil
	}
	return int16(*wd)
}
