package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	policyRepo "github.com/m04kA/SMC-HallBookingService/internal/infra/storage/policy"
	"github.com/m04kA/SMC-HallBookingService/internal/integrations/venuedirectory"
	"github.com/m04kA/SMC-HallBookingService/internal/service/policy/models"
	"github.com/m04kA/SMC-HallBookingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// memoryRepo политики в памяти, ключ 0 - глобальная
type memoryRepo struct {
	nextID   int64
	policies map[int64]*domain.BookingPolicy
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{policies: make(map[int64]*domain.BookingPolicy)}
}

func key(venueID *int64) int64 {
	if venueID == nil {
		return 0
	}
	return *venueID
}

func (r *memoryRepo) Create(_ context.Context, p *domain.BookingPolicy) (*domain.BookingPolicy, error) {
	r.nextID++
	p.ID = r.nextID
	r.policies[key(p.VenueID)] = p
	return p, nil
}

func (r *memoryRepo) GetByVenue(_ context.Context, venueID *int64) (*domain.BookingPolicy, error) {
	p, ok := r.policies[key(venueID)]
	if !ok {
		return nil, policyRepo.ErrPolicyNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *memoryRepo) GetWithHierarchy(ctx context.Context, venueID *int64) (*domain.BookingPolicy, error) {
	if venueID != nil {
		if p, err := r.GetByVenue(ctx, venueID); err == nil {
			return p, nil
		}
	}
	return r.GetByVenue(ctx, nil)
}

func (r *memoryRepo) Update(_ context.Context, id int64, p *domain.BookingPolicy) (*domain.BookingPolicy, error) {
	p.ID = id
	r.policies[key(p.VenueID)] = p
	return p, nil
}

func (r *memoryRepo) Delete(_ context.Context, id int64) error {
	for k, p := range r.policies {
		if p.ID == id {
			delete(r.policies, k)
			return nil
		}
	}
	return policyRepo.ErrPolicyNotFound
}

type venuesStub map[int64]*venuedirectory.Venue

func (v venuesStub) GetVenue(_ context.Context, id int64) (*venuedirectory.Venue, error) {
	venue, ok := v[id]
	if !ok {
		return nil, venuedirectory.ErrVenueNotFound
	}
	return venue, nil
}

var (
	admin = domain.Identity{UserID: 1, Role: domain.RoleAdmin}
	owner = domain.Identity{UserID: 10, Role: domain.RoleFaculty}
	other = domain.Identity{UserID: 20, Role: domain.RoleFaculty}
)

func newTestService() (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	venues := venuesStub{3: {ID: 3, Name: "Main Auditorium", OwnerID: 10}}
	return NewService(repo, venues, nopLogger{}), repo
}

func TestResolve_DefaultsWhenNothingStored(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.Resolve(context.Background(), 3)

	require.NoError(t, err)
	assert.True(t, p.AutoApproves(domain.RoleFaculty))
	assert.False(t, p.AutoApproves(domain.RoleStudent))
	assert.Equal(t, domain.DefaultMaxSpanDays, p.MaxSpanDays)
}

func TestUpsert_VenuePolicyInheritsGlobal(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Upsert(ctx, &models.UpsertPolicyRequest{
		Identity:           admin,
		AdvanceBookingDays: ptr.Ptr(30),
	})
	require.NoError(t, err)

	resp, err := svc.Upsert(ctx, &models.UpsertPolicyRequest{
		Identity:         owner,
		VenueID:          ptr.Ptr(int64(3)),
		AutoApproveRoles: []string{"admin"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.LevelVenue, resp.Level)
	assert.Equal(t, 30, resp.AdvanceBookingDays)
	assert.Equal(t, []string{"admin"}, resp.AutoApproveRoles)

	p, err := svc.Resolve(ctx, 3)
	require.NoError(t, err)
	assert.False(t, p.AutoApproves(domain.RoleFaculty))
}

func TestUpsert_AccessRules(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Upsert(ctx, &models.UpsertPolicyRequest{Identity: owner, MaxSpanDays: ptr.Ptr(30)})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.Upsert(ctx, &models.UpsertPolicyRequest{Identity: other, VenueID: ptr.Ptr(int64(3))})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.Upsert(ctx, &models.UpsertPolicyRequest{Identity: owner, VenueID: ptr.Ptr(int64(99))})
	assert.ErrorIs(t, err, ErrVenueNotFound)
}

func TestUpsert_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Upsert(ctx, &models.UpsertPolicyRequest{Identity: admin, AutoApproveRoles: []string{"guest"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Upsert(ctx, &models.UpsertPolicyRequest{Identity: admin, MaxSpanDays: ptr.Ptr(0)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDelete_FallsBackToGlobal(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Upsert(ctx, &models.UpsertPolicyRequest{Identity: admin, VenueID: ptr.Ptr(int64(3)), MaxSpanDays: ptr.Ptr(7)})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, &models.DeletePolicyRequest{Identity: admin, VenueID: ptr.Ptr(int64(3))}))

	resp, err := svc.GetEffective(ctx, ptr.Ptr(int64(3)))
	require.NoError(t, err)
	assert.Equal(t, models.LevelDefault, resp.Level)
	assert.Equal(t, domain.DefaultMaxSpanDays, resp.MaxSpanDays)

	err = svc.Delete(ctx, &models.DeletePolicyRequest{Identity: admin, VenueID: ptr.Ptr(int64(3))})
	assert.ErrorIs(t, err, ErrPolicyNotFound)
}
