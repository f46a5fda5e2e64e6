package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appscans "github.com/bryanwahyu/secscan-dashboard/internal/application/scans"
	domain "github.com/bryanwahyu/secscan-dashboard/internal/domain/scans"
)

func analyzerServer(t *testing.T, reply string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/analyze":
			var body struct {
				Code string `json:"code"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Code == "" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"No code provided"}`))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			w.Write([]byte(reply))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStaticClient(t *testing.T) {
	srv := analyzerServer(t, `{"status":"success","static_analyzer":{"issues":{"security":[{"type":"security","severity":"HIGH","message":"eval"}]},"summary":{"total_issues":3}}}`, http.StatusOK)
	c := NewStaticClient(srv.URL+"/", nil)

	st, err := c.Static(context.Background(), "eval(x)")
	if err != nil {
		t.Fatalf("Static: %v", err)
	}
	rep, ok := st.Report.Get()
	if !ok || len(rep.Issues.Security) != 1 {
		t.Fatalf("report = %+v, %v", rep, ok)
	}
	if sum, ok := rep.Summary.Get(); !ok || sum.TotalIssues != 3 {
		t.Fatalf("summary = %+v", sum)
	}
	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
}

func TestDependencyClientUnwraps(t *testing.T) {
	srv := analyzerServer(t, `{"status":"success","dependency_analyzer":{"total_packages_scanned":4,"total_vulnerabilities_found":2,"vulnerable_packages":[{"package":"requests","total_vulnerabilities":2,"vulnerabilities":[{"id":"GHSA-1","severity":"CRITICAL"},{"id":"GHSA-2","severity":"LOW"}]}]}}`, http.StatusOK)
	dep, err := NewDependencyClient(srv.URL, nil).Dependencies(context.Background(), "import requests")
	if err != nil {
		t.Fatalf("Dependencies: %v", err)
	}
	if dep.TotalVulnerabilitiesFound != 2 || dep.Status != "success" || len(dep.VulnerablePackages) != 1 {
		t.Fatalf("dependency = %+v", dep)
	}
}

func TestAIClientQuotedNumbers(t *testing.T) {
	srv := analyzerServer(t, `{"status":"success","data":{"findings":[{"severity":"high","description":"sql injection","line_numbers":[3,4]}],"risk_score":"6","critical_issues_count":"1"}}`, http.StatusOK)
	ai, err := NewAIClient(srv.URL, nil).AI(context.Background(), "cursor.execute(q)")
	if err != nil {
		t.Fatalf("AI: %v", err)
	}
	data, ok := ai.Data.Get()
	if !ok || data.RiskScore != 6 || data.Findings[0].Lines() != "3, 4" {
		t.Fatalf("data = %+v", data)
	}
}

func TestClientErrors(t *testing.T) {
	srv := analyzerServer(t, `{"error":"pylint crashed"}`, http.StatusInternalServerError)
	_, err := NewStaticClient(srv.URL, nil).Static(context.Background(), "x")
	var se *StatusError
	if !errors.As(err, &se) || se.Code != 500 || se.Message != "pylint crashed" {
		t.Fatalf("err = %v, want 500 StatusError", err)
	}
	if msg := appscans.SectionError(appscans.StaticService, err); msg != "Static Analysis service error: 500 Internal Server Error: pylint crashed" {
		t.Fatalf("section error = %q", msg)
	}

	// nothing listens on a closed server's address
	closed := httptest.NewServer(http.NotFoundHandler())
	addr := closed.URL
	closed.Close()
	_, err = NewStaticClient(addr, nil).Static(context.Background(), "x")
	if !errors.Is(err, domain.ErrUnreachable) {
		t.Fatalf("err = %v, want ErrUnreachable", err)
	}
	if msg := appscans.SectionError(appscans.StaticService, err); msg != "Could not connect to Static Analysis service" {
		t.Fatalf("section error = %q", msg)
	}
}

func TestClientTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewAIClient(slow.URL, nil).AI(ctx, "x")
	if !errors.Is(err, domain.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestGateway(t *testing.T) {
	srv := analyzerServer(t, `{"status":"partial","overall_security_score":"81.5","ai_analysis":{"status":"error","error":"AI Analysis service timed out"}}`, http.StatusOK)
	g := NewGateway(srv.URL, nil)

	r, err := g.Analyze(context.Background(), "x = 1")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if s, ok := r.OverallScore.Get(); !ok || s != 81.5 {
		t.Fatalf("overall = %v %v", s, ok)
	}

	r, err = g.Analyze(context.Background(), "")
	if err != nil {
		t.Fatalf("Analyze(empty): %v", err)
	}
	if r.Error != "No code provided" {
		t.Fatalf("error payload = %q", r.Error)
	}
}
