package policy

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

func policyRows(id int64, venueID interface{}, roles string) *sqlmock.Rows {
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(policyColumns).AddRow(id, venueID, roles, 30, 60, 120, now, now)
}

func TestGetWithHierarchy_VenueLevel(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT .* FROM booking_policies WHERE venue_id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(policyRows(2, int64(3), "{faculty}"))

	p, err := repo.GetWithHierarchy(context.Background(), ptr.Ptr(int64(3)))

	require.NoError(t, err)
	assert.Equal(t, int64(2), p.ID)
	assert.Equal(t, []string{"faculty"}, p.AutoApproveRoles)
	assert.False(t, p.IsGlobal())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetWithHierarchy_FallsBackToGlobal(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT .* FROM booking_policies WHERE venue_id = \$1`).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT .* FROM booking_policies WHERE venue_id IS NULL`).
		WillReturnRows(policyRows(1, nil, "{faculty,admin}"))

	p, err := repo.GetWithHierarchy(context.Background(), ptr.Ptr(int64(3)))

	require.NoError(t, err)
	assert.True(t, p.IsGlobal())
	assert.True(t, p.AutoApproves(domain.RoleAdmin))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetWithHierarchy_NothingStored(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT .* FROM booking_policies WHERE venue_id = \$1`).WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT .* FROM booking_policies WHERE venue_id IS NULL`).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetWithHierarchy(context.Background(), ptr.Ptr(int64(3)))

	assert.ErrorIs(t, err, ErrPolicyNotFound)
}

func TestCreate(t *testing.T) {
	repo, mock := newTestRepository(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO booking_policies`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), 14, 30, 90).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), now, now))

	p, err := repo.Create(context.Background(), &domain.BookingPolicy{
		VenueID:                 ptr.Ptr(int64(3)),
		AutoApproveRoles:        []string{"faculty"},
		AdvanceBookingDays:      14,
		MinBookingNoticeMinutes: 30,
		MaxSpanDays:             90,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`UPDATE booking_policies SET .* WHERE id = \$\d+ RETURNING created_at, updated_at`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), 8, domain.DefaultBookingPolicy())

	assert.ErrorIs(t, err, ErrPolicyNotFound)
}
