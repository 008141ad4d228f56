package get_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HallBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	"github.com/m04kA/SMC-HallBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-HallBookingService/internal/service/bookings/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type serviceStub struct {
	calls int
	err   error
}

func (s *serviceStub) GetByID(_ context.Context, id int64, identity domain.Identity) (*models.BookingResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	created := time.Date(2025, 10, 1, 9, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	return &models.BookingResponse{
		ID:            id,
		RequesterID:   identity.UserID,
		VenueID:       3,
		VenueName:     "Main Auditorium",
		EventName:     "Tech Fest",
		ApprovalState: "pending",
		CreatedAt:     created,
		UpdatedAt:     created,
	}, nil
}

func serve(svc *serviceStub, path string, withIdentity bool) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/bookings/{bookingId}", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if withIdentity {
		req = req.WithContext(middleware.WithIdentity(req.Context(), domain.Identity{UserID: 42, Role: domain.RoleStudent}))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Success(t *testing.T) {
	rec := serve(&serviceStub{}, "/api/v1/bookings/9", true)

	require.Equal(t, http.StatusOK, rec.Code)

	var body BookingDetailsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(9), body.ID)
	assert.Equal(t, int64(42), body.RequesterID)
	assert.Equal(t, "2025-10-01T03:30:00Z", body.CreatedAt)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name      string
		svc       *serviceStub
		path      string
		identity  bool
		wantCode  int
		wantCalls int
	}{
		{"anonymous", &serviceStub{}, "/api/v1/bookings/9", false, http.StatusUnauthorized, 0},
		{"bad id", &serviceStub{}, "/api/v1/bookings/abc", true, http.StatusBadRequest, 0},
		{"zero id", &serviceStub{}, "/api/v1/bookings/0", true, http.StatusBadRequest, 0},
		{"not found", &serviceStub{err: bookings.ErrBookingNotFound}, "/api/v1/bookings/9", true, http.StatusNotFound, 1},
		{"foreign booking", &serviceStub{err: bookings.ErrAccessDenied}, "/api/v1/bookings/9", true, http.StatusForbidden, 1},
		{"internal", &serviceStub{err: bookings.ErrInternal}, "/api/v1/bookings/9", true, http.StatusInternalServerError, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(tt.svc, tt.path, tt.identity)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantCalls, tt.svc.calls)
		})
	}
}
