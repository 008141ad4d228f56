package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	"github.com/m04kA/SMC-HallBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-HallBookingService/internal/integrations/venuedirectory"
	"github.com/m04kA/SMC-HallBookingService/pkg/ptr"
	"github.com/m04kA/SMC-HallBookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type recordingLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *recordingLogger) Info(string, ...interface{}) {}
func (l *recordingLogger) Warn(string, ...interface{}) {}
func (l *recordingLogger) Error(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, v...))
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type passTx struct{}

func (passTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type slotKey struct {
	venueID int64
	date    string
	slot    int
}

// memoryLedger реестр в памяти с той же семантикой "все или ничего"
type memoryLedger struct {
	mu         sync.Mutex
	entries    map[slotKey]uuid.UUID
	linked     map[uuid.UUID]int64
	linkErr    error
	releaseErr error
	released   []uuid.UUID
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{
		entries: make(map[slotKey]uuid.UUID),
		linked:  make(map[uuid.UUID]int64),
	}
}

func (l *memoryLedger) TryClaimDays(_ context.Context, venueID int64, days []domain.SlotSet) (*domain.Claim, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var conflicts []domain.SlotSet
	for _, day := range days {
		taken := domain.SlotSet{Date: day.Date}
		for _, s := range day.Slots {
			if _, ok := l.entries[slotKey{venueID, day.Date, s}]; ok {
				taken.Slots = append(taken.Slots, s)
			}
		}
		if !taken.IsEmpty() {
			conflicts = append(conflicts, taken)
		}
	}
	if len(conflicts) > 0 {
		return nil, &reservation.ConflictError{VenueID: venueID, Conflicts: conflicts}
	}

	token := uuid.New()
	for _, day := range days {
		for _, s := range day.Slots {
			l.entries[slotKey{venueID, day.Date, s}] = token
		}
	}
	return &domain.Claim{Token: token, VenueID: venueID, Days: days}, nil
}

func (l *memoryLedger) LinkToBooking(_ context.Context, claim *domain.Claim, bookingID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.linkErr != nil {
		return l.linkErr
	}
	l.linked[claim.Token] = bookingID
	return nil
}

func (l *memoryLedger) ReleaseClaim(_ context.Context, token uuid.UUID) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.releaseErr != nil {
		return 0, l.releaseErr
	}
	l.released = append(l.released, token)
	var n int64
	for k, v := range l.entries {
		if v == token {
			delete(l.entries, k)
			n++
		}
	}
	return n, nil
}

func (l *memoryLedger) slots(venueID int64, date string) []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]int, 0)
	for k := range l.entries {
		if k.venueID == venueID && k.date == date {
			out = append(out, k.slot)
		}
	}
	return out
}

type memoryBookings struct {
	mu     sync.Mutex
	nextID int64
	items  []*domain.Booking
	err    error
}

func (r *memoryBookings) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.nextID++
	b.ID = r.nextID
	r.items = append(r.items, b)
	return b, nil
}

type policyStub struct{ policy *domain.BookingPolicy }

func (p policyStub) Resolve(context.Context, int64) (*domain.BookingPolicy, error) {
	if p.policy == nil {
		return domain.DefaultBookingPolicy(), nil
	}
	return p.policy, nil
}

type venuesStub struct{}

func (venuesStub) GetVenue(_ context.Context, id int64) (*venuedirectory.Venue, error) {
	if id == 404 {
		return nil, venuedirectory.ErrVenueNotFound
	}
	return &venuedirectory.Venue{ID: id, Name: "Main Auditorium", OwnerID: 10, OwnerEmail: "hall@college.edu"}, nil
}

type notifierStub struct {
	mu    sync.Mutex
	calls []string
}

func (n *notifierStub) BookingRequested(b *domain.Booking, ownerEmail string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, ownerEmail)
}

type fixture struct {
	uc       *UseCase
	ledger   *memoryLedger
	bookings *memoryBookings
	notifier *notifierStub
	logger   *recordingLogger
}

func newFixture() *fixture {
	f := &fixture{
		ledger:   newMemoryLedger(),
		bookings: &memoryBookings{},
		notifier: &notifierStub{},
		logger:   &recordingLogger{},
	}
	f.uc = NewUseCase(f.bookings, f.ledger, policyStub{}, venuesStub{}, f.notifier, passTx{}, 15, f.logger)
	f.uc.timeProvider = fixedTime{now: time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)}
	return f
}

func eventDay() time.Time {
	return time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
}

func validRequest(start, end types.TimeString) *Request {
	day := eventDay()
	return &Request{
		Identity:    domain.Identity{UserID: 42, Role: domain.RoleStudent, Email: "student@college.edu"},
		VenueID:     3,
		EventName:   "Tech Fest",
		Organizer:   "Asha Kumar",
		Department:  "CSE",
		Institution: "Engineering College",
		Phone:       "9876543210",
		Schedule: domain.Schedule{
			Kind:      domain.DateKindSingleDay,
			EventDate: &day,
			StartTime: start,
			EndTime:   end,
		},
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest("10:00", "12:00"))

	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalPending, resp.ApprovalState)
	assert.Equal(t, "Main Auditorium", resp.VenueName)
	assert.Equal(t, 8, resp.SlotCount)
	assert.ElementsMatch(t, []int{40, 41, 42, 43, 44, 45, 46, 47}, f.ledger.slots(3, "2025-10-15"))
	assert.Len(t, f.ledger.linked, 1)
	assert.Equal(t, []string{"hall@college.edu"}, f.notifier.calls)
}

func TestExecute_AutoApprovedRole(t *testing.T) {
	f := newFixture()
	req := validRequest("10:00", "12:00")
	req.Identity.Role = domain.RoleFaculty

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalApproved, resp.ApprovalState)
}

func TestExecute_Conflict(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Execute(context.Background(), validRequest("10:00", "12:00"))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), validRequest("11:30", "13:00"))

	require.ErrorIs(t, err, ErrSlotConflict)
	var conflict *reservation.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, []int{46, 47}, conflict.Conflicts[0].Slots)
	assert.Len(t, f.bookings.items, 1)
	assert.Len(t, f.notifier.calls, 1)
}

func TestExecute_TouchingRangesDoNotConflict(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Execute(context.Background(), validRequest("10:00", "12:00"))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), validRequest("12:00", "13:00"))

	assert.NoError(t, err)
}

func TestExecute_PersistFailureReleasesClaim(t *testing.T) {
	f := newFixture()
	f.bookings.err = errors.New("connection reset")

	_, err := f.uc.Execute(context.Background(), validRequest("10:00", "12:00"))

	require.ErrorIs(t, err, ErrInternal)
	assert.Len(t, f.ledger.released, 1)
	assert.Empty(t, f.ledger.slots(3, "2025-10-15"))
	assert.Empty(t, f.notifier.calls)

	// Освобожденные слоты снова доступны
	f.bookings.err = nil
	_, err = f.uc.Execute(context.Background(), validRequest("10:00", "12:00"))
	assert.NoError(t, err)
}

func TestExecute_LinkFailureReleasesClaim(t *testing.T) {
	f := newFixture()
	f.ledger.linkErr = reservation.ErrClaimNotFound

	_, err := f.uc.Execute(context.Background(), validRequest("10:00", "12:00"))

	require.ErrorIs(t, err, ErrInternal)
	assert.Len(t, f.ledger.released, 1)
	assert.Empty(t, f.ledger.slots(3, "2025-10-15"))
}

func TestExecute_ReleaseFailureIsLogged(t *testing.T) {
	f := newFixture()
	f.bookings.err = errors.New("connection reset")
	f.ledger.releaseErr = errors.New("database is down")

	_, err := f.uc.Execute(context.Background(), validRequest("10:00", "12:00"))

	require.ErrorIs(t, err, ErrInternal)
	require.NotEmpty(t, f.logger.errors)
	assert.Contains(t, f.logger.errors[len(f.logger.errors)-1], "failed to release claim")
}

func TestExecute_ReleaseSurvivesCancelledContext(t *testing.T) {
	f := newFixture()
	f.bookings.err = context.Canceled
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.uc.Execute(ctx, validRequest("10:00", "12:00"))

	require.ErrorIs(t, err, ErrInternal)
	assert.Len(t, f.ledger.released, 1)
}

func TestExecute_ConcurrentOverlappingRequests(t *testing.T) {
	f := newFixture()

	const workers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := validRequest("10:00", "12:00")
			req.Identity.UserID = int64(100 + i)
			_, err := f.uc.Execute(context.Background(), req)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrSlotConflict):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)
	assert.Len(t, f.bookings.items, 1)
	assert.Len(t, f.ledger.slots(3, "2025-10-15"), 8)
}

func TestExecute_MultiDayWeekday(t *testing.T) {
	f := newFixture()
	req := validRequest("09:00", "10:00")
	start := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC) // понедельник
	end := time.Date(2025, 10, 26, 0, 0, 0, 0, time.UTC)
	wd := time.Wednesday
	req.Schedule = domain.Schedule{
		Kind:      domain.DateKindMultiDay,
		StartDate: &start,
		EndDate:   &end,
		Weekday:   &wd,
		StartTime: "09:00",
		EndTime:   "10:00",
	}

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 12, resp.SlotCount)
	assert.Len(t, f.ledger.slots(3, "2025-10-08"), 4)
	assert.Empty(t, f.ledger.slots(3, "2025-10-09"))
}

func TestExecute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{"anonymous", func(r *Request) { r.Identity.UserID = 0 }},
		{"unknown role", func(r *Request) { r.Identity.Role = "guest" }},
		{"missing event name", func(r *Request) { r.EventName = "" }},
		{"organizer single word", func(r *Request) { r.Organizer = "Asha" }},
		{"bad phone", func(r *Request) { r.Phone = "call me" }},
		{"bad alt phone", func(r *Request) { r.AltPhone = ptr.Ptr("12") }},
		{"empty range", func(r *Request) { r.Schedule.EndTime = r.Schedule.StartTime }},
		{"missing date", func(r *Request) { r.Schedule.EventDate = nil }},
		{"signed start hour", func(r *Request) { r.Schedule.StartTime = "+9:30" }},
		{"signed end minutes", func(r *Request) { r.Schedule.EndTime = "12:+5" }},
		{"padded start", func(r *Request) { r.Schedule.StartTime = " 9:30" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := validRequest("10:00", "12:00")
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, f.ledger.slots(3, "2025-10-15"))
		})
	}
}

func TestExecute_VenueNotFound(t *testing.T) {
	f := newFixture()
	req := validRequest("10:00", "12:00")
	req.VenueID = 404

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrVenueNotFound)
}

func TestExecute_PastDate(t *testing.T) {
	f := newFixture()
	req := validRequest("10:00", "12:00")
	past := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	req.Schedule.EventDate = &past

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrDateInPast)
}

func TestExecute_ImportedSkipsDateChecksAndNotification(t *testing.T) {
	f := newFixture()
	req := validRequest("10:00", "12:00")
	past := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	req.Schedule.EventDate = &past
	req.Imported = true
	req.SkipNotification = true

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, resp.Imported)
	assert.Equal(t, domain.ApprovalApproved, resp.ApprovalState)
	assert.Empty(t, f.notifier.calls)
}
