package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec

	// Метрики реестра резервирований
	SlotClaims          *prometheus.CounterVec
	SlotsReleased       *prometheus.CounterVec
	ExpiredClaimsPurged *prometheus.CounterVec

	NotificationsTotal *prometheus.CounterVec

	serviceName string
}

// New создает метрики и регистрирует их в глобальном реестре
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики и регистрирует их в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		serviceName: serviceName,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"service", "operation", "status"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"}),
		DBInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),
		DBIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),
		SlotClaims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reservation_claims_total",
			Help: "Slot claim attempts by result (success, conflict, error)",
		}, []string{"service", "result"}),
		SlotsReleased: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reservation_entries_released_total",
			Help: "Ledger entries released by reason",
		}, []string{"service", "reason"}),
		ExpiredClaimsPurged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reservation_expired_claims_purged_total",
			Help: "Unlinked ledger entries removed after claim TTL",
		}, []string{"service"}),
		NotificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Notification deliveries by channel and result",
		}, []string{"service", "channel", "result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.SlotClaims,
		m.SlotsReleased,
		m.ExpiredClaimsPurged,
		m.NotificationsTotal,
	)

	return m
}

// ObserveHTTPRequest фиксирует HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует длительность SQL запроса
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.DBQueryDuration.WithLabelValues(m.serviceName, operation, status).Observe(duration.Seconds())
}

// SetDBStats обновляет метрики пула соединений
func (m *Metrics) SetDBStats(stats sql.DBStats) {
	m.DBOpenConnections.WithLabelValues(m.serviceName).Set(float64(stats.OpenConnections))
	m.DBInUse.WithLabelValues(m.serviceName).Set(float64(stats.InUse))
	m.DBIdle.WithLabelValues(m.serviceName).Set(float64(stats.Idle))
}

// IncClaim фиксирует попытку захвата слотов
func (m *Metrics) IncClaim(result string) {
	m.SlotClaims.WithLabelValues(m.serviceName, result).Inc()
}

// AddReleased фиксирует освобождённые записи реестра
func (m *Metrics) AddReleased(reason string, count int64) {
	if count <= 0 {
		return
	}
	m.SlotsReleased.WithLabelValues(m.serviceName, reason).Add(float64(count))
}

// AddPurged фиксирует удалённые просроченные захваты
func (m *Metrics) AddPurged(count int64) {
	if count <= 0 {
		return
	}
	m.ExpiredClaimsPurged.WithLabelValues(m.serviceName).Add(float64(count))
}

// IncNotification фиксирует отправку уведомления
func (m *Metrics) IncNotification(channel, result string) {
	m.NotificationsTotal.WithLabelValues(m.serviceName, channel, result).Inc()
}
