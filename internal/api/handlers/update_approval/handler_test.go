package update_approval

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

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
	gotID  int64
	gotReq *models.UpdateApprovalRequest
	err    error
}

func (s *serviceStub) UpdateApproval(_ context.Context, id int64, req *models.UpdateApprovalRequest) (*models.BookingResponse, error) {
	s.gotID = id
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingResponse{ID: id, ApprovalState: req.State}, nil
}

func serve(svc *serviceStub, path, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/bookings/{bookingId}/approval", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	req = req.WithContext(middleware.WithIdentity(req.Context(), domain.Identity{UserID: 10, Role: domain.RoleFaculty}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Reject(t *testing.T) {
	svc := &serviceStub{}

	rec := serve(svc, "/api/v1/bookings/5/approval", `{"state":"rejected","reason":"exam week"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), svc.gotID)
	assert.Equal(t, "exam week", svc.gotReq.Reason)
	assert.Equal(t, int64(10), svc.gotReq.Identity.UserID)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"not found", bookings.ErrBookingNotFound, http.StatusNotFound},
		{"not staff", bookings.ErrAccessDenied, http.StatusForbidden},
		{"no reason", fmt.Errorf("%w: reason", bookings.ErrInvalidInput), http.StatusBadRequest},
		{"transition", bookings.ErrInvalidTransition, http.StatusBadRequest},
		{"reclaim conflict", bookings.ErrSlotConflict, http.StatusConflict},
		{"internal", bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&serviceStub{err: tt.err}, "/api/v1/bookings/5/approval", `{"state":"approved"}`)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandle_InvalidID(t *testing.T) {
	svc := &serviceStub{}

	rec := serve(svc, "/api/v1/bookings/abc/approval", `{"state":"approved"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.gotReq)
}
