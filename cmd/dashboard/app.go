package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
	"go.uber.org/zap"

	"github.com/bryanwahyu/secscan-dashboard/internal/application"
	appai "github.com/bryanwahyu/secscan-dashboard/internal/application/ai"
	appdash "github.com/bryanwahyu/secscan-dashboard/internal/application/dashboard"
	appscans "github.com/bryanwahyu/secscan-dashboard/internal/application/scans"
	"github.com/bryanwahyu/secscan-dashboard/internal/config"
	domain "github.com/bryanwahyu/secscan-dashboard/internal/domain/scans"
	"github.com/bryanwahyu/secscan-dashboard/internal/infra/ai/heuristic"
	"github.com/bryanwahyu/secscan-dashboard/internal/infra/ai/openai"
	"github.com/bryanwahyu/secscan-dashboard/internal/infra/analyzers/remote"
	"github.com/bryanwahyu/secscan-dashboard/internal/infra/db/mysql"
	"github.com/bryanwahyu/secscan-dashboard/internal/infra/db/postgres"
	"github.com/bryanwahyu/secscan-dashboard/internal/infra/db/sqlite"
	"github.com/bryanwahyu/secscan-dashboard/internal/infra/db/sqlrepo"
	"github.com/bryanwahyu/secscan-dashboard/internal/infra/session"
	"github.com/bryanwahyu/secscan-dashboard/internal/infra/storage"
	"github.com/bryanwahyu/secscan-dashboard/internal/middleware"
)

// app holds every wired component of one process.
type app struct {
	db       *sql.DB
	repo     *sqlrepo.Repository
	scans    *appscans.Service
	sessions *session.MemoryStore
	dash     *appdash.Service
	ready    map[string]middleware.HealthChecker
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	db, repo, err := openRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a := &app{
		db:    db,
		repo:  repo,
		ready: map[string]middleware.HealthChecker{"database": middleware.CheckerFunc(repo.Ping)},
	}

	hc := cleanhttp.DefaultPooledClient()
	static := remote.NewStaticClient(cfg.Analyzers.StaticURL, hc)
	dep := remote.NewDependencyClient(cfg.Analyzers.DependencyURL, hc)
	probes := map[string]domain.Prober{"static": static, "dependency": dep}

	aiAnalyzer, err := newAIAnalyzer(cfg, hc)
	if err != nil {
		db.Close()
		return nil, err
	}
	if p, ok := aiAnalyzer.(domain.Prober); ok {
		probes["ai"] = p
	}

	clock := application.SystemClock{}
	a.scans = &appscans.Service{
		Static:     static,
		Dependency: dep,
		AI:         aiAnalyzer,
		Probes:     probes,
		Repo:       repo,
		Clock:      clock,
		Log:        log.Named("gateway"),
		Timeout:    cfg.AnalyzerTimeout(),
	}

	if cfg.Minio.Enabled {
		store, err := storage.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("minio init error: %w", err)
		}
		a.scans.Archive = store
		a.ready["minio"] = middleware.CheckerFunc(store.Ping)
	}

	var engine appdash.Engine = a.scans
	if cfg.Dashboard.AnalyzeURL != "" {
		gw := remote.NewGateway(cfg.Dashboard.AnalyzeURL, hc)
		engine = gw
		a.ready["gateway"] = middleware.CheckerFunc(gw.Health)
		log.Info("using remote analysis gateway", zap.String("url", cfg.Dashboard.AnalyzeURL))
	}

	a.sessions = session.NewMemoryStore(cfg.SessionTTL(), clock)
	a.dash = appdash.NewService(a.sessions, engine, clock, log.Named("dashboard"))
	return a, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// newAIAnalyzer picks the AI section provider from ai.provider.
func newAIAnalyzer(cfg *config.Config, hc *http.Client) (domain.AIAnalyzer, error) {
	switch cfg.AI.Provider {
	case "remote", "":
		return remote.NewAIClient(cfg.Analyzers.AIURL, hc), nil
	case "openai":
		return appai.NewService(openai.NewClient(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL)), nil
	case "heuristic":
		return appai.NewService(heuristic.New()), nil
	default:
		return nil, fmt.Errorf("unknown ai.provider %q", cfg.AI.Provider)
	}
}

// openRepository connects the configured database driver.
func openRepository(ctx context.Context, cfg *config.Config) (*sql.DB, *sqlrepo.Repository, error) {
	dsn := cfg.DSN()
	switch cfg.Database.Driver {
	case "sqlite", "":
		db, err := sqlite.Open(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite open error: %w", err)
		}
		return db, sqlite.NewScanRepository(db), nil
	case "mysql":
		db, err := mysql.Connect(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("mysql connect error: %w", err)
		}
		return db, mysql.NewScanRepository(db), nil
	case "postgres":
		db, err := postgres.Connect(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres connect error: %w", err)
		}
		return db, postgres.NewScanRepository(db), nil
	default:
		return nil, nil, fmt.Errorf("unknown database.driver %q", cfg.Database.Driver)
	}
}
