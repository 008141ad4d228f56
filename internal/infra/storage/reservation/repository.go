package reservation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	"github.com/m04kA/SMC-HallBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-HallBookingService/pkg/psqlbuilder"
)

const (
	tableName = "reservation_entries"

	// insertBatchSize ограничивает число строк в одном INSERT
	// (у PostgreSQL лимит 65535 параметров на запрос)
	insertBatchSize = 1000
)

// Repository реестр резервирований: одна строка на (площадка, дата, слот)
// Взаимное исключение обеспечивает UNIQUE(venue_id, reservation_date, slot)
type Repository struct {
	db           DBExecutor
	txManager    TransactionManager
	recorder     Recorder
	timeProvider TimeProvider
	claimTTL     time.Duration
}

// NewRepository создает новый экземпляр реестра
// recorder может быть nil
func NewRepository(db DBExecutor, txManager TransactionManager, claimTTL time.Duration, recorder Recorder) *Repository {
	if claimTTL <= 0 {
		claimTTL = domain.DefaultClaimTTL
	}
	return &Repository{
		db:           db,
		txManager:    txManager,
		recorder:     recorder,
		timeProvider: &RealTimeProvider{},
		claimTTL:     claimTTL,
	}
}

// TryClaim захватывает слоты одной даты целиком или не захватывает ничего
func (r *Repository) TryClaim(ctx context.Context, venueID int64, date string, slots []int) (*domain.Claim, error) {
	return r.TryClaimDays(ctx, venueID, []domain.SlotSet{{Date: date, Slots: slots}})
}

// TryClaimDays захватывает слоты нескольких дат в одной транзакции
// Перед вставкой удаляет просроченные непривязанные записи этих дат,
// поэтому брошенный захват не мешает новому даже до прохода sweeper
// При конфликте транзакция откатывается и возвращается *ConflictError
func (r *Repository) TryClaimDays(ctx context.Context, venueID int64, days []domain.SlotSet) (*domain.Claim, error) {
	if venueID <= 0 || domain.CountSlots(days) == 0 {
		return nil, ErrEmptyClaim
	}

	now := r.timeProvider.Now().UTC()
	claim := &domain.Claim{
		Token:     uuid.New(),
		VenueID:   venueID,
		Days:      days,
		ClaimedAt: now,
	}

	err := r.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := r.purgeExpiredOn(txCtx, venueID, days, now); err != nil {
			return err
		}
		return r.insertEntries(txCtx, venueID, days, claim.Token, nil, now)
	})
	r.recordClaim(err)
	if err != nil {
		return nil, err
	}

	return claim, nil
}

// ClaimForBooking захватывает слоты сразу привязанными к бронированию
// Используется при переносе и повторном согласовании внутри внешней транзакции
func (r *Repository) ClaimForBooking(ctx context.Context, bookingID, venueID int64, days []domain.SlotSet) error {
	if venueID <= 0 || domain.CountSlots(days) == 0 {
		return ErrEmptyClaim
	}

	now := r.timeProvider.Now().UTC()
	err := r.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := r.purgeExpiredOn(txCtx, venueID, days, now); err != nil {
			return err
		}
		return r.insertEntries(txCtx, venueID, days, uuid.New(), &bookingID, now)
	})
	r.recordClaim(err)
	return err
}

// LinkToBooking привязывает все записи захвата к сохранённому бронированию
// Если часть записей уже удалена (захват истёк), возвращает ErrClaimNotFound;
// вызывающий код должен откатить транзакцию
func (r *Repository) LinkToBooking(ctx context.Context, claim *domain.Claim, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("booking_id", bookingID).
		Where(squirrel.Eq{"claim_token": claim.Token.String()}).
		Where(squirrel.Eq{"booking_id": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: LinkToBooking - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: LinkToBooking - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: LinkToBooking - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected != int64(claim.SlotCount()) {
		return fmt.Errorf("%w: token=%s linked %d of %d entries",
			ErrClaimNotFound, claim.Token, rowsAffected, claim.SlotCount())
	}

	return nil
}

// ReleaseClaim удаляет непривязанные записи захвата (откат после неудачного сохранения)
// Идемпотентна
func (r *Repository) ReleaseClaim(ctx context.Context, token uuid.UUID) (int64, error) {
	return r.delete(ctx, "ReleaseClaim", ReleaseReasonRollback,
		squirrel.Eq{"claim_token": token.String(), "booking_id": nil})
}

// Release удаляет записи площадки на дату по списку слотов
// Идемпотентна
func (r *Repository) Release(ctx context.Context, venueID int64, date string, slots []int) (int64, error) {
	if len(slots) == 0 {
		return 0, nil
	}
	return r.delete(ctx, "Release", ReleaseReasonExplicit,
		squirrel.Eq{"venue_id": venueID, "reservation_date": date, "slot": slots})
}

// ReleaseByBooking удаляет все записи бронирования
// Идемпотентна
func (r *Repository) ReleaseByBooking(ctx context.Context, bookingID int64) (int64, error) {
	return r.delete(ctx, "ReleaseByBooking", ReleaseReasonBooking,
		squirrel.Eq{"booking_id": bookingID})
}

// FindConflicts возвращает занятые слоты из запрошенных (диагностика)
// Просроченные непривязанные записи не считаются занятыми
func (r *Repository) FindConflicts(ctx context.Context, venueID int64, date string, slots []int) ([]int, error) {
	if len(slots) == 0 {
		return []int{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot").
		From(tableName).
		Where(squirrel.Eq{"venue_id": venueID, "reservation_date": date, "slot": slots}).
		Where(r.liveCondition()).
		OrderBy("slot ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindConflicts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindConflicts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	conflicts := make([]int, 0)
	for rows.Next() {
		var slot int
		if err := rows.Scan(&slot); err != nil {
			return nil, fmt.Errorf("%w: FindConflicts - scan row: %v", ErrScanRow, err)
		}
		conflicts = append(conflicts, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FindConflicts - rows error: %v", ErrScanRow, err)
	}

	return conflicts, nil
}

// FindOccupiedVenues возвращает площадки, у которых занят хотя бы один из слотов
func (r *Repository) FindOccupiedVenues(ctx context.Context, date string, slots []int) ([]int64, error) {
	if len(slots) == 0 {
		return []int64{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("venue_id").
		Distinct().
		From(tableName).
		Where(squirrel.Eq{"reservation_date": date, "slot": slots}).
		Where(r.liveCondition()).
		OrderBy("venue_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOccupiedVenues - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOccupiedVenues - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	venues := make([]int64, 0)
	for rows.Next() {
		var venueID int64
		if err := rows.Scan(&venueID); err != nil {
			return nil, fmt.Errorf("%w: FindOccupiedVenues - scan row: %v", ErrScanRow, err)
		}
		venues = append(venues, venueID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FindOccupiedVenues - rows error: %v", ErrScanRow, err)
	}

	return venues, nil
}

// PurgeExpired удаляет все непривязанные записи старше TTL захвата
func (r *Repository) PurgeExpired(ctx context.Context) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"booking_id": nil}).
		Where(squirrel.Lt{"created_at": r.cutoff(r.timeProvider.Now().UTC())}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: PurgeExpired - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: PurgeExpired - execute delete: %v", ErrExecQuery, err)
	}

	purged, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: PurgeExpired - get rows affected: %v", ErrExecQuery, err)
	}

	if r.recorder != nil {
		r.recorder.AddPurged(purged)
	}

	return purged, nil
}

// Вспомогательные методы

// purgeExpiredOn удаляет просроченные непривязанные записи площадки на указанные даты
func (r *Repository) purgeExpiredOn(ctx context.Context, venueID int64, days []domain.SlotSet, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"venue_id": venueID, "reservation_date": datesOf(days), "booking_id": nil}).
		Where(squirrel.Lt{"created_at": r.cutoff(now)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: purgeExpiredOn - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: purgeExpiredOn - execute delete: %v", ErrExecQuery, err)
	}

	purged, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: purgeExpiredOn - get rows affected: %v", ErrExecQuery, err)
	}

	if r.recorder != nil {
		r.recorder.AddPurged(purged)
	}

	return purged, nil
}

// insertEntries вставляет записи пачками с ON CONFLICT DO NOTHING
// Ключи, которые не вернулись из RETURNING, заняты: возвращается *ConflictError
func (r *Repository) insertEntries(
	ctx context.Context,
	venueID int64,
	days []domain.SlotSet,
	token uuid.UUID,
	bookingID *int64,
	now time.Time,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	type key struct {
		date string
		slot int
	}

	requested := make([]key, 0, domain.CountSlots(days))
	for _, day := range days {
		for _, slot := range day.Slots {
			requested = append(requested, key{date: day.Date, slot: slot})
		}
	}

	inserted := make(map[key]struct{}, len(requested))

	for start := 0; start < len(requested); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(requested) {
			end = len(requested)
		}

		builder := psqlbuilder.Insert(tableName).
			Columns("venue_id", "reservation_date", "slot", "booking_id", "claim_token", "created_at")
		for _, k := range requested[start:end] {
			builder = builder.Values(venueID, k.date, k.slot, bookingID, token.String(), now)
		}

		query, args, err := builder.
			Suffix("ON CONFLICT (venue_id, reservation_date, slot) DO NOTHING RETURNING reservation_date, slot").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: insertEntries - build insert query: %v", ErrBuildQuery, err)
		}

		rows, err := executor.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: insertEntries - execute insert: %v", ErrExecQuery, err)
		}

		for rows.Next() {
			var (
				date time.Time
				slot int
			)
			if err := rows.Scan(&date, &slot); err != nil {
				rows.Close()
				return fmt.Errorf("%w: insertEntries - scan row: %v", ErrScanRow, err)
			}
			inserted[key{date: date.Format(domain.DateFormat), slot: slot}] = struct{}{}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("%w: insertEntries - rows error: %v", ErrScanRow, err)
		}
		rows.Close()
	}

	if len(inserted) == len(requested) {
		return nil
	}

	byDate := make(map[string][]int)
	for _, k := range requested {
		if _, ok := inserted[k]; !ok {
			byDate[k.date] = append(byDate[k.date], k.slot)
		}
	}

	conflict := &ConflictError{VenueID: venueID, Conflicts: make([]domain.SlotSet, 0, len(byDate))}
	for _, day := range days {
		if slots, ok := byDate[day.Date]; ok {
			sort.Ints(slots)
			conflict.Conflicts = append(conflict.Conflicts, domain.SlotSet{Date: day.Date, Slots: slots})
			delete(byDate, day.Date)
		}
	}

	return conflict
}

func (r *Repository) delete(ctx context.Context, op, reason string, where squirrel.Eq) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(where).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - build delete query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute delete: %v", ErrExecQuery, op, err)
	}

	released, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if r.recorder != nil {
		r.recorder.AddReleased(reason, released)
	}

	return released, nil
}

// liveCondition запись занимает слот, если привязана или ещё не истекла
func (r *Repository) liveCondition() squirrel.Sqlizer {
	return squirrel.Or{
		squirrel.NotEq{"booking_id": nil},
		squirrel.GtOrEq{"created_at": r.cutoff(r.timeProvider.Now().UTC())},
	}
}

func (r *Repository) cutoff(now time.Time) time.Time {
	return now.Add(-r.claimTTL)
}

func (r *Repository) recordClaim(err error) {
	if r.recorder == nil {
		return
	}
	switch {
	case err == nil:
		r.recorder.IncClaim(ClaimResultSuccess)
	case isConflict(err):
		r.recorder.IncClaim(ClaimResultConflict)
	default:
		r.recorder.IncClaim(ClaimResultError)
	}
}

func isConflict(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict)
}

func datesOf(days []domain.SlotSet) []string {
	dates := make([]string, 0, len(days))
	for _, d := range days {
		dates = append(dates, d.Date)
	}
	return dates
}
