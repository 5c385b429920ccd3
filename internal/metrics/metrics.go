// Package metrics owns the Prometheus collectors exported on /metrics.
package metrics

import (
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	ledgerChanges   *prometheus.CounterVec
	habitChanges    prometheus.Counter
	chatReplies     *prometheus.CounterVec
	chatTokens      prometheus.Counter
}

// New registers the collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "daypoints_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "daypoints_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "daypoints_cache_lookups_total",
		Help: "Trend cache lookups by result",
	}, []string{"result"})

	ledgerChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "daypoints_ledger_changes_total",
		Help: "Ledger mutations by kind",
	}, []string{"kind"})

	habitChanges := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daypoints_habit_changes_total",
		Help: "Habit creations and updates",
	})

	chatReplies := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "daypoints_chat_replies_total",
		Help: "Chat replies by whether they were simulated",
	}, []string{"simulated"})

	chatTokens := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daypoints_chat_tokens_total",
		Help: "Tokens reported or estimated for chat replies",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "daypoints_goroutines",
		Help: "Number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLookups, ledgerChanges, habitChanges, chatReplies, chatTokens, goroutines)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLookups:    cacheLookups,
		ledgerChanges:   ledgerChanges,
		habitChanges:    habitChanges,
		chatReplies:     chatReplies,
		chatTokens:      chatTokens,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordLedgerChange(kind string, count int64) {
	if m == nil || count <= 0 {
		return
	}
	m.ledgerChanges.WithLabelValues(kind).Add(float64(count))
}

func (m *Metrics) RecordHabitChange() {
	if m == nil {
		return
	}
	m.habitChanges.Inc()
}

func (m *Metrics) RecordChatReply(simulated bool, tokens int) {
	if m == nil {
		return
	}
	m.chatReplies.WithLabelValues(strconv.FormatBool(simulated)).Inc()
	if tokens > 0 {
		m.chatTokens.Add(float64(tokens))
	}
}
