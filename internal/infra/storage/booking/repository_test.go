package booking

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	"github.com/m04kA/SMC-HallBookingService/pkg/ptr"
)

func newTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func bookingRow(id int64, state domain.ApprovalState) *sqlmock.Rows {
	created := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	eventDate := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	return sqlmock.NewRows(bookingColumns).AddRow(
		id, int64(42), "student", "student@college.edu",
		int64(3), "Main Auditorium", "Tech Fest", "Asha Kumar", "CSE", "Engineering College",
		nil, "9876543210", nil,
		"single-day", eventDate, nil, nil, nil,
		"10:00:00", "12:00:00",
		string(state), nil, false,
		created, created,
	)
}

func TestCreate(t *testing.T) {
	repo, mock := newTestRepository(t)
	eventDate := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	created := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO hall_bookings \(requester_id,.*\) VALUES .* RETURNING id, created_at, updated_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), created, created))

	b, err := repo.Create(context.Background(), &domain.Booking{
		RequesterID:   42,
		RequesterRole: domain.RoleStudent,
		VenueID:       3,
		EventName:     "Tech Fest",
		Schedule: domain.Schedule{
			Kind:      domain.DateKindSingleDay,
			EventDate: &eventDate,
			StartTime: "10:00",
			EndTime:   "12:00",
		},
		ApprovalState: domain.ApprovalPending,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), b.ID)
	assert.Equal(t, created, b.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT .* FROM hall_bookings WHERE id = \$1$`).
		WithArgs(int64(11)).
		WillReturnRows(bookingRow(11, domain.ApprovalPending))

	b, err := repo.GetByID(context.Background(), 11)

	require.NoError(t, err)
	assert.Equal(t, int64(11), b.ID)
	assert.Equal(t, domain.RoleStudent, b.RequesterRole)
	assert.Equal(t, domain.DateKindSingleDay, b.Schedule.Kind)
	assert.Equal(t, "2025-10-15", b.Schedule.EventDate.Format(domain.DateFormat))
	assert.Nil(t, b.Schedule.StartDate)
	assert.Nil(t, b.Schedule.Weekday)
	assert.Equal(t, "10:00", b.Schedule.StartTime.String())
	assert.Equal(t, "12:00", b.Schedule.EndTime.String())
	assert.Nil(t, b.OrganizingClub)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDForUpdate_LocksRow(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT .* FROM hall_bookings WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(11)).
		WillReturnRows(bookingRow(11, domain.ApprovalApproved))

	b, err := repo.GetByIDForUpdate(context.Background(), 11)

	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalApproved, b.ApprovalState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT .* FROM hall_bookings`).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestList_AppliesFilter(t *testing.T) {
	repo, mock := newTestRepository(t)
	from := time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)
	state := domain.ApprovalApproved

	mock.ExpectQuery(`SELECT .* FROM hall_bookings WHERE venue_id = \$1 AND approval_state = \$2 AND COALESCE\(end_date, event_date\) >= \$3 ORDER BY .* LIMIT 50`).
		WithArgs(int64(3), domain.ApprovalApproved, "2025-10-10").
		WillReturnRows(bookingRow(11, domain.ApprovalApproved))

	list, err := repo.List(context.Background(), domain.BookingsFilter{
		VenueID: ptr.Ptr(int64(3)),
		State:   &state,
		From:    &from,
		Limit:   50,
	})

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(11), list[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_DepartmentFilter(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT .* FROM hall_bookings WHERE venue_id = \$1 AND LOWER\(department\) = LOWER\(\$2\) ORDER BY`).
		WithArgs(int64(3), "Computer Science").
		WillReturnRows(bookingRow(12, domain.ApprovalPending))

	list, err := repo.List(context.Background(), domain.BookingsFilter{
		VenueID:    ptr.Ptr(int64(3)),
		Department: ptr.Ptr("Computer Science"),
	})

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateApproval_NotFound(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(`UPDATE hall_bookings SET approval_state = \$1, rejection_reason = \$2, updated_at = NOW\(\) WHERE id = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateApproval(context.Background(), 99, domain.ApprovalRejected, ptr.Ptr("room closed"))

	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(`DELETE FROM hall_bookings WHERE id = \$1`).
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 11))
	assert.NoError(t, mock.ExpectationsWereMet())
}
