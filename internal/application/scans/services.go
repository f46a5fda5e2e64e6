package scans

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/secscan-dashboard/internal/application"
	"github.com/bryanwahyu/secscan-dashboard/internal/domain/analysis"
	domain "github.com/bryanwahyu/secscan-dashboard/internal/domain/scans"
)

// Display names used in section error messages.
const (
	StaticService     = "Static Analysis"
	DependencyService = "Dependency Analysis"
	AIService         = "AI Analysis"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultProbeTimeout = 5 * time.Second

	DefaultRecentLimit = 1
	MaxRecentLimit     = 100
)

// Service is the analysis gateway: it fans code out to the three analyzers,
// scores the combined result and records the scan.
// Service is safe for concurrent use.
type Service struct {
	Static     domain.StaticAnalyzer
	Dependency domain.DependencyAnalyzer
	AI         domain.AIAnalyzer

	// Probes are checked by Health, keyed by service name.
	Probes map[string]domain.Prober

	Repo    domain.Repository
	Archive domain.ArchiveStore // optional
	Clock   application.Clock
	Log     *zap.Logger

	// Timeout bounds each analyzer call.
	Timeout time.Duration
}

// Analyze runs all analyzers on code. Analyzer failures never fail the
// call; they degrade the result to partial.
func (s *Service) Analyze(ctx context.Context, code string) (analysis.Result, error) {
	if err := analysis.ValidateCode(code); err != nil {
		return analysis.Result{}, err
	}
	log := s.logger()

	var (
		static analysis.StaticAnalysis
		dep    analysis.DependencyAnalysis
		ai     analysis.AIAnalysis

		mu     sync.Mutex
		failed bool
	)
	fail := func(service string, err error) string {
		msg := SectionError(service, err)
		log.Error("analyzer failed", zap.String("service", service), zap.Error(err))
		mu.Lock()
		failed = true
		mu.Unlock()
		return msg
	}

	var g errgroup.Group
	g.Go(func() error {
		cctx, cancel := context.WithTimeout(ctx, s.timeout())
		defer cancel()
		res, err := callStatic(cctx, s.Static, code)
		if err != nil {
			res = analysis.StaticAnalysis{Status: string(analysis.StatusError), Error: fail(StaticService, err)}
		}
		static = res
		return nil
	})
	g.Go(func() error {
		cctx, cancel := context.WithTimeout(ctx, s.timeout())
		defer cancel()
		res, err := callDependency(cctx, s.Dependency, code)
		if err != nil {
			res = analysis.DependencyAnalysis{Status: string(analysis.StatusError), Error: fail(DependencyService, err)}
		}
		dep = res
		return nil
	})
	g.Go(func() error {
		cctx, cancel := context.WithTimeout(ctx, s.timeout())
		defer cancel()
		res, err := callAI(cctx, s.AI, code)
		if err != nil {
			res = analysis.AIAnalysis{Status: string(analysis.StatusError), Error: fail(AIService, err)}
		}
		ai = res
		return nil
	})
	_ = g.Wait()

	r := analysis.Result{
		Static:     analysis.Some(static),
		Dependency: analysis.Some(dep),
		AI:         analysis.Some(ai),
		Status:     analysis.StatusSuccess,
	}
	if failed {
		r.Status = analysis.StatusPartial
	}
	r.OverallScore = analysis.Some(analysis.Number(analysis.OverallScore(r)))

	if id, err := s.record(ctx, code, r); err != nil {
		log.Error("failed to store scan", zap.Error(err))
	} else {
		r.ScanID = string(id)
	}
	return r, nil
}

// record archives and persists the scan. Archive failures only cost the
// artifact URL. Without a repository nothing is recorded.
func (s *Service) record(ctx context.Context, code string, r analysis.Result) (domain.ScanID, error) {
	if s.Repo == nil {
		return "", nil
	}
	scan := domain.FromResult(domain.ScanID(uuid.NewString()), s.now(), code, r)

	if s.Archive != nil {
		doc := scan.Result()
		if data, err := json.Marshal(doc); err != nil {
			s.logger().Warn("encode scan archive", zap.Error(err))
		} else if url, err := s.Archive.PutJSON(ctx, scan.ArchiveKey(), data); err != nil {
			s.logger().Warn("archive scan", zap.String("scan_id", string(scan.ID)), zap.Error(err))
		} else {
			scan.ArtifactURL = url
		}
	}

	if err := s.Repo.Save(ctx, scan); err != nil {
		return "", err
	}
	return scan.ID, nil
}

// Recent returns the newest scans first. limit is clamped to [1, 100];
// zero or negative selects the default of one.
func (s *Service) Recent(ctx context.Context, limit int) ([]*domain.Scan, error) {
	if s.Repo == nil {
		return nil, errors.New("no scan repository configured")
	}
	return s.Repo.Recent(ctx, ClampLimit(limit))
}

// Get returns one recorded scan, or domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, id domain.ScanID) (*domain.Scan, error) {
	if s.Repo == nil {
		return nil, domain.ErrNotFound
	}
	return s.Repo.Get(ctx, id)
}

func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultRecentLimit
	case limit > MaxRecentLimit:
		return MaxRecentLimit
	default:
		return limit
	}
}

// HealthReport mirrors GET /health.
type HealthReport struct {
	Status   string          `json:"status"`
	Services map[string]bool `json:"services"`
}

func (h HealthReport) Healthy() bool { return h.Status == "healthy" }

// Health probes every analyzer and the scan repository concurrently.
func (s *Service) Health(ctx context.Context) HealthReport {
	checks := make(map[string]func(context.Context) error, len(s.Probes)+1)
	for name, p := range s.Probes {
		checks[name] = p.Health
	}
	if s.Repo != nil {
		checks["database"] = s.Repo.Ping
	}

	report := HealthReport{Status: "healthy", Services: make(map[string]bool, len(checks))}
	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for name, check := range checks {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, DefaultProbeTimeout)
			defer cancel()
			err := check(cctx)
			if err != nil {
				s.logger().Warn("health check failed", zap.String("service", name), zap.Error(err))
			}
			mu.Lock()
			report.Services[name] = err == nil
			if err != nil {
				report.Status = "degraded"
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return report
}

// SectionError is the message stored in a failed section's "error" field.
func SectionError(service string, err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, domain.ErrTimeout):
		return service + " service timed out"
	case errors.Is(err, domain.ErrUnreachable):
		return "Could not connect to " + service + " service"
	default:
		return service + " service error: " + err.Error()
	}
}

var errNotConfigured = errors.New("analyzer not configured")

func callStatic(ctx context.Context, a domain.StaticAnalyzer, code string) (analysis.StaticAnalysis, error) {
	if a == nil {
		return analysis.StaticAnalysis{}, errNotConfigured
	}
	return a.Static(ctx, code)
}

func callDependency(ctx context.Context, a domain.DependencyAnalyzer, code string) (analysis.DependencyAnalysis, error) {
	if a == nil {
		return analysis.DependencyAnalysis{}, errNotConfigured
	}
	return a.Dependencies(ctx, code)
}

func callAI(ctx context.Context, a domain.AIAnalyzer, code string) (analysis.AIAnalysis, error) {
	if a == nil {
		return analysis.AIAnalysis{}, errNotConfigured
	}
	return a.AI(ctx, code)
}

func (s *Service) timeout() time.Duration {
	if s.Timeout <= 0 {
		return DefaultTimeout
	}
	return s.Timeout
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
