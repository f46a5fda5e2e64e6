package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// HealthChecker defines interface for health checking
type HealthChecker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function to HealthChecker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

// HealthStatus represents the health status
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
}

// CheckStatus represents individual check status
type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ReadinessHandler runs every checker concurrently and answers 503 when
// any of them fails.
func ReadinessHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := HealthStatus{
			Status:    "ready",
			Timestamp: time.Now().UTC(),
			Checks:    make(map[string]CheckStatus, len(checkers)),
		}

		var (
			mu sync.Mutex
			wg sync.WaitGroup
		)
		for name, checker := range checkers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				st := CheckStatus{Status: "healthy"}
				if err := checker.Check(ctx); err != nil {
					st = CheckStatus{Status: "unhealthy", Message: err.Error()}
				}
				mu.Lock()
				health.Checks[name] = st
				if st.Status != "healthy" {
					health.Status = "unready"
				}
				mu.Unlock()
			}()
		}
		wg.Wait()

		statusCode := http.StatusOK
		if health.Status != "ready" {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(health)
	}
}

// LivenessHandler creates a liveness check handler (simplest check)
func LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
