package observability

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/stylepath-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	resolutions       *CounterVec
	completions       *CounterVec
	progressResets    *Counter
	attempts          *CounterVec
	attemptScore      *HistogramVec
	detailLoss        *Counter
	progressSyncFails *Counter
	cacheLookups      *CounterVec
	eventsPublished   *CounterVec

	storeOps         *HistogramVec
	storeConflicts   *CounterVec
	storeUnavailable *CounterVec

	dbStats   *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge

	scrapeEvery time.Duration
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init builds the process-wide metrics registry. It returns nil when disabled and
// every Metrics method is nil-safe.
func Init(log *logger.Logger, enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

// New returns an unregistered Metrics; Init is the process entry point.
func New() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("sp_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"sp_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight: NewGauge("sp_api_inflight_requests", "In-flight API requests."),

		resolutions:       NewCounterVec("sp_content_resolutions_total", "Content resolutions by outcome.", []string{"status"}),
		completions:       NewCounterVec("sp_section_completions_total", "Section completion writes by kind/status.", []string{"kind", "status"}),
		progressResets:    NewCounter("sp_progress_resets_total", "Course progress resets."),
		attempts:          NewCounterVec("sp_attempts_total", "Submitted attempts by kind/status.", []string{"kind", "status"}),
		attemptScore:      NewHistogramVec("sp_attempt_score", "Attempt scores (0-100).", []string{"kind"}, []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}),
		detailLoss:        NewCounter("sp_answer_detail_write_failures_total", "Attempts whose answer details could not be persisted."),
		progressSyncFails: NewCounter("sp_progress_sync_failures_total", "Attempts whose follow-up completion write failed."),
		cacheLookups:      NewCounterVec("sp_variant_cache_lookups_total", "Variant cache lookups by result.", []string{"result"}),
		eventsPublished:   NewCounterVec("sp_events_published_total", "Engine events published by type/status.", []string{"type", "status"}),

		storeOps: NewHistogramVec(
			"sp_store_write_duration_seconds",
			"Transactional store writes by operation/status.",
			[]string{"op", "status"},
			[]float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		),
		storeConflicts:   NewCounterVec("sp_store_conflicts_total", "Store writes rejected by a uniqueness conflict.", []string{"op"}),
		storeUnavailable: NewCounterVec("sp_store_unavailable_total", "Store writes failed because the store was unavailable.", []string{"op"}),

		dbStats:   NewGaugeVec("sp_db_pool", "database/sql pool statistics.", []string{"stat"}),
		redisUp:   NewGauge("sp_redis_up", "1 when the last redis ping succeeded."),
		redisPing: NewGauge("sp_redis_ping_seconds", "Latency of the last redis ping."),

		scrapeEvery: 10 * time.Second,
	}
}

func (m *Metrics) WithScrapeInterval(d time.Duration) *Metrics {
	if m != nil && d > 0 {
		m.scrapeEvery = d
	}
	return m
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

type promWriter interface {
	WritePrometheus(w io.Writer) error
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	all := []promWriter{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.resolutions, m.completions, m.progressResets,
		m.attempts, m.attemptScore, m.detailLoss, m.progressSyncFails,
		m.cacheLookups, m.eventsPublished,
		m.storeOps, m.storeConflicts, m.storeUnavailable,
		m.dbStats, m.redisUp, m.redisPing,
	}
	for _, p := range all {
		if err := p.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Add(1)
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Add(-1)
}

func (m *Metrics) IncResolution(status string) {
	if m == nil {
		return
	}
	m.resolutions.Inc(status)
}

func (m *Metrics) IncCompletion(kind, status string) {
	if m == nil {
		return
	}
	m.completions.Inc(kind, status)
}

func (m *Metrics) IncProgressReset() {
	if m == nil {
		return
	}
	m.progressResets.Inc()
}

func (m *Metrics) ObserveAttempt(kind, status string, score int) {
	if m == nil {
		return
	}
	m.attempts.Inc(kind, status)
	if status == "success" {
		m.attemptScore.Observe(float64(score), kind)
	}
}

func (m *Metrics) IncDetailLoss() {
	if m == nil {
		return
	}
	m.detailLoss.Inc()
}

func (m *Metrics) IncProgressSyncFailure() {
	if m == nil {
		return
	}
	m.progressSyncFails.Inc()
}

func (m *Metrics) IncCacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.Inc(result)
}

func (m *Metrics) IncEventPublished(eventType string, ok bool) {
	if m == nil {
		return
	}
	status := "success"
	if !ok {
		status = "error"
	}
	m.eventsPublished.Inc(eventType, status)
}

func (m *Metrics) ObserveStoreOperation(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.storeOps.Observe(dur.Seconds(), op, status)
}

func (m *Metrics) IncStoreConflict(op string) {
	if m == nil {
		return
	}
	m.storeConflicts.Inc(op)
}

func (m *Metrics) IncStoreUnavailable(op string) {
	if m == nil {
		return
	}
	m.storeUnavailable.Inc(op)
}

func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
				m.dbStats.Set(float64(stats.InUse), "in_use")
				m.dbStats.Set(float64(stats.Idle), "idle")
				m.dbStats.Set(float64(stats.WaitCount), "wait_count")
				m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
				m.dbStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")
			}
		}
	}()
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

// StatusLabel renders an HTTP status code as a metric label.
func StatusLabel(code int) string {
	if code <= 0 {
		return "0"
	}
	return strconv.Itoa(code)
}
