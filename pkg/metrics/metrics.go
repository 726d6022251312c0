package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics коллектор метрик сервиса (HTTP, БД и бизнес-события)
type Metrics struct {
	service string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbConnections   *prometheus.GaugeVec

	locksAcquiredTotal         *prometheus.CounterVec
	lockConflictsTotal         *prometheus.CounterVec
	locksReapedTotal           *prometheus.CounterVec
	reservationsConfirmedTotal *prometheus.CounterVec
	reservationsCancelledTotal *prometheus.CounterVec
}

// New создает и регистрирует коллектор метрик
func New(service string) *Metrics {
	return &Metrics{
		service: service,

		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "operation"}),

		dbConnections: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections",
			Help: "Database connection pool state",
		}, []string{"service", "state"}),

		locksAcquiredTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reservation_locks_acquired_total",
			Help: "Total number of successfully acquired table locks",
		}, []string{"service"}),

		lockConflictsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reservation_lock_conflicts_total",
			Help: "Total number of lock attempts rejected due to window conflicts",
		}, []string{"service"}),

		locksReapedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reservation_locks_reaped_total",
			Help: "Total number of expired locks transitioned by the reaper",
		}, []string{"service"}),

		reservationsConfirmedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reservations_confirmed_total",
			Help: "Total number of confirmed reservations",
		}, []string{"service"}),

		reservationsCancelledTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reservations_cancelled_total",
			Help: "Total number of cancelled reservations",
		}, []string{"service"}),
	}
}

// ObserveHTTPRequest фиксирует выполненный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(m.service, method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(m.service, method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration) {
	m.dbQueryDuration.WithLabelValues(m.service, operation).Observe(duration.Seconds())
}

// SetDBConnections обновляет состояние connection pool
func (m *Metrics) SetDBConnections(open, idle, inUse int) {
	m.dbConnections.WithLabelValues(m.service, "open").Set(float64(open))
	m.dbConnections.WithLabelValues(m.service, "idle").Set(float64(idle))
	m.dbConnections.WithLabelValues(m.service, "in_use").Set(float64(inUse))
}

// IncLockAcquired увеличивает счетчик успешных блокировок столов
func (m *Metrics) IncLockAcquired() {
	m.locksAcquiredTotal.WithLabelValues(m.service).Inc()
}

// IncLockConflict увеличивает счетчик конфликтов блокировок
func (m *Metrics) IncLockConflict() {
	m.lockConflictsTotal.WithLabelValues(m.service).Inc()
}

// AddLocksReaped увеличивает счетчик блокировок, снятых reaper-ом
func (m *Metrics) AddLocksReaped(n int) {
	m.locksReapedTotal.WithLabelValues(m.service).Add(float64(n))
}

// IncReservationConfirmed увеличивает счетчик подтвержденных бронирований
func (m *Metrics) IncReservationConfirmed() {
	m.reservationsConfirmedTotal.WithLabelValues(m.service).Inc()
}

// IncReservationCancelled увеличивает счетчик отмененных бронирований
func (m *Metrics) IncReservationCancelled() {
	m.reservationsCancelledTotal.WithLabelValues(m.service).Inc()
}
