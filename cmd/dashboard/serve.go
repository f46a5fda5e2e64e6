package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/bryanwahyu/secscan-dashboard/internal/infra/httpserver"
	"github.com/bryanwahyu/secscan-dashboard/internal/middleware"
)

const (
	janitorInterval = time.Minute
	limiterIdle     = 10 * time.Minute
	shutdownTimeout = 10 * time.Second
)

type serveOptions struct {
	port int
}

func addServeFlags(fs *pflag.FlagSet, so *serveOptions) {
	fs.IntVar(&so.port, "port", 0, "Override server.port")
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	addServeFlags(cmd.Flags(), &opts.serve)
	return cmd
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, log := opts.cfg, opts.log
	if opts.serve.port > 0 {
		cfg.Server.Port = opts.serve.port
	}
	log.Info("starting", zap.Any("config", cfg.Redacted()))

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	metrics := middleware.NewMetrics()
	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.RateInterval())
	go a.sessions.RunJanitor(ctx, janitorInterval)
	go sweepLimiter(ctx, limiter)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr: addr,
		Handler: httpserver.NewRouter(httpserver.Options{
			Dashboard:     a.dash,
			Scans:         a.scans,
			Metrics:       metrics,
			Limiter:       limiter,
			Ready:         a.ready,
			CORSOrigins:   cfg.Server.CORSOrigins,
			SecureCookies: cfg.Server.SecureCookies,
			Log:           log,
		}),
		ReadTimeout: 15 * time.Second,
		// analyzers run in parallel, so one timeout plus slack covers a submission
		WriteTimeout: cfg.AnalyzerTimeout() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func sweepLimiter(ctx context.Context, rl *middleware.RateLimiter) {
	t := time.NewTicker(limiterIdle / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			rl.Sweep(limiterIdle)
		}
	}
}
