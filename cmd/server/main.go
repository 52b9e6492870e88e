package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	dnsadapter "phishguard/internal/adapters/dns"
	"phishguard/internal/adapters/fetch"
	httpadapter "phishguard/internal/adapters/http"
	pg "phishguard/internal/adapters/postgres"
	whoisadapter "phishguard/internal/adapters/whois"
	"phishguard/internal/config"
	"phishguard/internal/logging"
	"phishguard/internal/metrics"
	"phishguard/internal/ports"
	"phishguard/internal/services/acquisition"
	historysvc "phishguard/internal/services/history"
	scansvc "phishguard/internal/services/scanner"
	"phishguard/internal/workers/verdictlog"
)

const shutdownGrace = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log.Format, cfg.Log.Level)
	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	acq := acquisition.New(
		fetch.New(fetch.Config{
			Timeout:     cfg.Fetch.Timeout,
			InsecureTLS: cfg.Fetch.InsecureTLS,
			UserAgent:   cfg.Fetch.UserAgent,
			MaxBytes:    cfg.Fetch.MaxBytes,
		}),
		dnsadapter.New(cfg.DNS.Server, cfg.DNS.Timeout),
		whoisadapter.New(cfg.Whois.Timeout),
		acquisition.Timeouts{
			Fetch:        cfg.Fetch.Timeout,
			DNS:          cfg.DNS.Timeout,
			Registration: cfg.Whois.Timeout,
			Overall:      cfg.AnalysisTimeout,
		},
		acquisition.WithMetrics(m),
		acquisition.WithLogger(logger),
	)

	scanOpts := []scansvc.Option{scansvc.WithMetrics(m), scansvc.WithLogger(logger)}
	var (
		verdicts ports.VerdictRepository
		pool     *verdictlog.Pool
	)
	if cfg.AuditEnabled() {
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		verdicts = db
		pool = verdictlog.New(db, cfg.VerdictQueue, verdictlog.WithMetrics(m), verdictlog.WithLogger(logger))
		pool.Run(ctx, cfg.VerdictWorkers)
		defer pool.Close()
		scanOpts = append(scanOpts, scansvc.WithVerdictSink(pool))
		logger.Info("verdict audit log enabled", "workers", cfg.VerdictWorkers, "queue", cfg.VerdictQueue)
	}

	scanner := scansvc.New(acq, scanOpts...)
	srv := httpadapter.New(scanner, historysvc.New(verdicts),
		httpadapter.WithMetrics(m),
		httpadapter.WithLogger(logger),
		httpadapter.WithRateLimit(cfg.RateLimitRPS),
		httpadapter.WithCORSOrigins(cfg.CORSOrigins...),
	)

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.AnalysisTimeout + 10*time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	logger.Info("listening", "addr", cfg.ListenAddr, "env", cfg.Env)

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
