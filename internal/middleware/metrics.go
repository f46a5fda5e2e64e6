package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics stores application metrics
type Metrics struct {
	RequestsTotal      atomic.Uint64
	RequestsInProgress atomic.Int64
	RequestsSuccess    atomic.Uint64
	RequestsFailed     atomic.Uint64
	RateLimited        atomic.Uint64

	AnalysesTotal   atomic.Uint64
	AnalysesRunning atomic.Int64
	AnalysesPartial atomic.Uint64
	AnalysesFailed  atomic.Uint64

	StartTime time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{StartTime: time.Now()}
}

// AnalysisStarted marks one analysis in flight; call the returned func with
// the final status ("success", "partial" or "error").
func (m *Metrics) AnalysisStarted() func(status string) {
	m.AnalysesTotal.Add(1)
	m.AnalysesRunning.Add(1)
	return func(status string) {
		m.AnalysesRunning.Add(-1)
		switch status {
		case "partial":
			m.AnalysesPartial.Add(1)
		case "success":
		default:
			m.AnalysesFailed.Add(1)
		}
	}
}

// Snapshot returns current metrics
func (m *Metrics) Snapshot() map[string]any {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return map[string]any{
		"requests_total":        m.RequestsTotal.Load(),
		"requests_in_progress":  m.RequestsInProgress.Load(),
		"requests_success":      m.RequestsSuccess.Load(),
		"requests_failed":       m.RequestsFailed.Load(),
		"requests_rate_limited": m.RateLimited.Load(),
		"analyses_total":        m.AnalysesTotal.Load(),
		"analyses_running":      m.AnalysesRunning.Load(),
		"analyses_partial":      m.AnalysesPartial.Load(),
		"analyses_failed":       m.AnalysesFailed.Load(),
		"uptime_seconds":        time.Since(m.StartTime).Seconds(),
		"memory": map[string]any{
			"alloc_bytes":       mem.Alloc,
			"total_alloc_bytes": mem.TotalAlloc,
			"sys_bytes":         mem.Sys,
			"num_gc":            mem.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// Middleware tracks request metrics
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.RequestsTotal.Add(1)
		m.RequestsInProgress.Add(1)
		defer m.RequestsInProgress.Add(-1)

		wrapped := wrapWriter(w)
		next.ServeHTTP(wrapped, r)

		switch {
		case wrapped.statusCode == http.StatusTooManyRequests:
			m.RateLimited.Add(1)
			m.RequestsFailed.Add(1)
		case wrapped.statusCode >= 200 && wrapped.statusCode < 400:
			m.RequestsSuccess.Add(1)
		default:
			m.RequestsFailed.Add(1)
		}
	})
}

// Handler returns metrics as JSON
func (m *Metrics) Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m.Snapshot())
}
