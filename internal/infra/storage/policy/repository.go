package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	"github.com/m04kA/SMC-HallBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-HallBookingService/pkg/psqlbuilder"
)

const tableName = "booking_policies"

var policyColumns = []string{
	"id",
	"venue_id",
	"auto_approve_roles",
	"advance_booking_days",
	"min_booking_notice_minutes",
	"max_span_days",
	"created_at",
	"updated_at",
}

// DBExecutor интерфейс выполнения запросов
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий политик бронирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория политик
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую политику
func (r *Repository) Create(ctx context.Context, policy *domain.BookingPolicy) (*domain.BookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"venue_id",
			"auto_approve_roles",
			"advance_booking_days",
			"min_booking_notice_minutes",
			"max_span_days",
		).
		Values(
			policy.VenueID,
			pq.Array(policy.AutoApproveRoles),
			policy.AdvanceBookingDays,
			policy.MinBookingNoticeMinutes,
			policy.MaxSpanDays,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&policy.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	policy.CreatedAt = createdAt.Time
	policy.UpdatedAt = updatedAt.Time

	return policy, nil
}

// GetByVenue получает политику конкретного уровня
// venueID == nil означает глобальную политику
func (r *Repository) GetByVenue(ctx context.Context, venueID *int64) (*domain.BookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(policyColumns...).From(tableName)

	// Фильтрация по venue_id (NULL или конкретное значение)
	if venueID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"venue_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"venue_id": *venueID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByVenue - build select query: %v", ErrBuildQuery, err)
	}

	policy, err := scanPolicy(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByVenue - scan policy: %v", ErrScanRow, err)
	}

	return policy, nil
}

// GetWithHierarchy получает политику с учетом иерархии приоритетов
// 1. Политика площадки (если venueID указан)
// 2. Глобальная политика
//
// Если политика не найдена ни на одном уровне, возвращает ErrPolicyNotFound
func (r *Repository) GetWithHierarchy(ctx context.Context, venueID *int64) (*domain.BookingPolicy, error) {
	if venueID != nil {
		policy, err := r.GetByVenue(ctx, venueID)
		if err == nil {
			return policy, nil
		}
		if !errors.Is(err, ErrPolicyNotFound) {
			return nil, fmt.Errorf("%w: GetWithHierarchy - level 1 (venue): %v", ErrExecQuery, err)
		}
	}

	policy, err := r.GetByVenue(ctx, nil)
	if err == nil {
		return policy, nil
	}
	if !errors.Is(err, ErrPolicyNotFound) {
		return nil, fmt.Errorf("%w: GetWithHierarchy - level 2 (global): %v", ErrExecQuery, err)
	}

	return nil, ErrPolicyNotFound
}

// Update обновляет политику
func (r *Repository) Update(ctx context.Context, id int64, policy *domain.BookingPolicy) (*domain.BookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("auto_approve_roles", pq.Array(policy.AutoApproveRoles)).
		Set("advance_booking_days", policy.AdvanceBookingDays).
		Set("min_booking_notice_minutes", policy.MinBookingNoticeMinutes).
		Set("max_span_days", policy.MaxSpanDays).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	policy.ID = id
	policy.CreatedAt = createdAt.Time
	policy.UpdatedAt = updatedAt.Time

	return policy, nil
}

// Delete удаляет политику
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrPolicyNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPolicy(row rowScanner) (*domain.BookingPolicy, error) {
	var (
		policy               domain.BookingPolicy
		roles                pq.StringArray
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&policy.ID,
		&policy.VenueID,
		&roles,
		&policy.AdvanceBookingDays,
		&policy.MinBookingNoticeMinutes,
		&policy.MaxSpanDays,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	policy.AutoApproveRoles = []string(roles)
	policy.CreatedAt = createdAt.Time
	policy.UpdatedAt = updatedAt.Time

	return &policy, nil
}
