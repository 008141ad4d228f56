package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_LedgerCounters(t *testing.T) {
	m := NewWithRegistry("hall-booking", prometheus.NewRegistry())

	m.IncClaim("success")
	m.IncClaim("conflict")
	m.IncClaim("conflict")
	m.AddReleased("rollback", 4)
	m.AddReleased("rollback", 0)
	m.AddPurged(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SlotClaims.WithLabelValues("hall-booking", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SlotClaims.WithLabelValues("hall-booking", "conflict")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.SlotsReleased.WithLabelValues("hall-booking", "rollback")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ExpiredClaimsPurged.WithLabelValues("hall-booking")))
}

func TestMetrics_ObserveDBQuery(t *testing.T) {
	m := NewWithRegistry("hall-booking", prometheus.NewRegistry())

	m.ObserveDBQuery("insert", 5*time.Millisecond, nil)
	m.ObserveDBQuery("insert", 5*time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2, testutil.CollectAndCount(m.DBQueryDuration))
}
