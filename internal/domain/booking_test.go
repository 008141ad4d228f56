package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooking_ApplyApproval(t *testing.T) {
	tests := []struct {
		name    string
		from    ApprovalState
		to      ApprovalState
		reason  string
		wantErr error
	}{
		{"pending to approved", ApprovalPending, ApprovalApproved, "", nil},
		{"pending to rejected with reason", ApprovalPending, ApprovalRejected, "hall under maintenance", nil},
		{"rejection without reason", ApprovalPending, ApprovalRejected, "   ", ErrRejectionReasonRequired},
		{"approved to rejected", ApprovalApproved, ApprovalRejected, "double booked by mistake", nil},
		{"rejected to approved", ApprovalRejected, ApprovalApproved, "", nil},
		{"back to pending", ApprovalApproved, ApprovalPending, "", ErrInvalidTransition},
		{"same state", ApprovalApproved, ApprovalApproved, "", ErrInvalidTransition},
		{"reason too long", ApprovalPending, ApprovalRejected, strings.Repeat("x", MaxRejectionReasonLength+1), ErrRejectionReasonTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{ApprovalState: tt.from}
			err := b.ApplyApproval(tt.to, tt.reason)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, b.ApprovalState)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.to, b.ApprovalState)
			if tt.to == ApprovalRejected {
				require.NotNil(t, b.RejectionReason)
				assert.Equal(t, tt.reason, *b.RejectionReason)
			} else {
				assert.Nil(t, b.RejectionReason)
			}
		})
	}
}

func TestSchedule_Validate(t *testing.T) {
	d1 := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 11, 7, 0, 0, 0, 0, time.UTC)
	sunday := time.Sunday

	tests := []struct {
		name     string
		schedule Schedule
		wantErr  error
	}{
		{"single day", Schedule{Kind: DateKindSingleDay, EventDate: &d1, StartTime: "09:00", EndTime: "17:00"}, nil},
		{"half day without date", Schedule{Kind: DateKindHalfDay, StartTime: "09:00", EndTime: "12:00"}, ErrInvalidSchedule},
		{"reversed times", Schedule{Kind: DateKindSingleDay, EventDate: &d1, StartTime: "17:00", EndTime: "09:00"}, ErrInvalidRange},
		{"multi day", Schedule{Kind: DateKindMultiDay, StartDate: &d1, EndDate: &d2, StartTime: "09:00", EndTime: "10:00"}, nil},
		{"multi day reversed dates", Schedule{Kind: DateKindMultiDay, StartDate: &d2, EndDate: &d1, StartTime: "09:00", EndTime: "10:00"}, ErrInvalidSchedule},
		{"multi day weekday never hit", Schedule{Kind: DateKindMultiDay, StartDate: &d1, EndDate: &d2, Weekday: &sunday, StartTime: "09:00", EndTime: "10:00"}, ErrInvalidSchedule},
		{"unknown kind", Schedule{Kind: "weekly", EventDate: &d1, StartTime: "09:00", EndTime: "10:00"}, ErrInvalidSchedule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schedule.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSchedule_SpanDays(t *testing.T) {
	d1 := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 11, 7, 0, 0, 0, 0, time.UTC)

	s := Schedule{Kind: DateKindMultiDay, StartDate: &d1, EndDate: &d2}
	assert.Equal(t, 5, s.SpanDays())

	single := Schedule{Kind: DateKindSingleDay, EventDate: &d1}
	assert.Equal(t, 1, single.SpanDays())
}

func TestBookingPolicy_InitialState(t *testing.T) {
	p := DefaultBookingPolicy()

	assert.Equal(t, ApprovalApproved, p.InitialState(RoleFaculty))
	assert.Equal(t, ApprovalApproved, p.InitialState(RoleAdmin))
	assert.Equal(t, ApprovalPending, p.InitialState(RoleStudent))
}

func TestIdentity_CanManageVenue(t *testing.T) {
	assert.True(t, Identity{UserID: 1, Role: RoleAdmin}.CanManageVenue(99))
	assert.True(t, Identity{UserID: 99, Role: RoleFaculty}.CanManageVenue(99))
	assert.False(t, Identity{UserID: 5, Role: RoleFaculty}.CanManageVenue(99))
	assert.False(t, Identity{UserID: 0, Role: RoleStudent}.CanManageVenue(0))
}

func TestReservationEntry_IsExpired(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	bookingID := int64(7)

	fresh := &ReservationEntry{CreatedAt: now.Add(-30 * time.Second)}
	stale := &ReservationEntry{CreatedAt: now.Add(-121 * time.Second)}
	linked := &ReservationEntry{CreatedAt: now.Add(-time.Hour), BookingID: &bookingID}

	assert.False(t, fresh.IsExpired(now, DefaultClaimTTL))
	assert.True(t, stale.IsExpired(now, DefaultClaimTTL))
	assert.False(t, linked.IsExpired(now, DefaultClaimTTL))
}

func TestBookingPolicy_CheckSchedule(t *testing.T) {
	now := time.Date(2025, 10, 15, 9, 30, 0, 0, time.UTC)
	today := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	nextMonth := today.AddDate(0, 1, 0)
	longEnd := today.AddDate(0, 0, 200)

	policy := &BookingPolicy{AdvanceBookingDays: 14, MinBookingNoticeMinutes: 60, MaxSpanDays: 180}

	tests := []struct {
		name     string
		schedule Schedule
		wantErr  error
	}{
		{"later today with enough notice", Schedule{Kind: DateKindSingleDay, EventDate: &today, StartTime: "11:00", EndTime: "12:00"}, nil},
		{"today inside notice window", Schedule{Kind: DateKindSingleDay, EventDate: &today, StartTime: "10:00", EndTime: "12:00"}, ErrTooLateToBook},
		{"yesterday", Schedule{Kind: DateKindSingleDay, EventDate: &yesterday, StartTime: "10:00", EndTime: "12:00"}, ErrDateInPast},
		{"beyond advance limit", Schedule{Kind: DateKindHalfDay, EventDate: &nextMonth, StartTime: "10:00", EndTime: "12:00"}, ErrDateTooFarInFuture},
		{"span too long", Schedule{Kind: DateKindMultiDay, StartDate: &today, EndDate: &longEnd, StartTime: "10:00", EndTime: "12:00"}, ErrSpanTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.CheckSchedule(tt.schedule, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
