package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/netwatch/internal/config"
	"github.com/hamed0406/netwatch/internal/detector"
	"github.com/hamed0406/netwatch/internal/httpapi"
	"github.com/hamed0406/netwatch/internal/logging"
	"github.com/hamed0406/netwatch/internal/monitor"
	"github.com/hamed0406/netwatch/internal/probe"
	"github.com/hamed0406/netwatch/internal/store"
	"github.com/hamed0406/netwatch/internal/store/memory"
	"github.com/hamed0406/netwatch/internal/store/postgres"
	"github.com/hamed0406/netwatch/internal/store/sqlite"
)

func main() {
	var (
		debug       = pflag.Bool("debug", false, "log at debug level")
		targetsPath = pflag.String("targets", "", "YAML targets file (overrides TARGETS_FILE)")
		addr        = pflag.String("addr", "", "API bind address (overrides ADDR)")
	)
	pflag.Parse()

	cfg := config.FromEnv()
	if *targetsPath != "" {
		cfg.TargetsFile = *targetsPath
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	logger, err := logging.NewLogger(cfg.LogDir, *debug)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	targets, err := config.LoadTargets(cfg.TargetsFile)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// queryable store backs the API; the text log is the durable record
	queryable, closer, err := openStore(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	if closer != nil {
		defer closer()
	}

	textLog, err := store.NewTextLog(cfg.EventLogPath, cfg.WindowLogPath)
	if err != nil {
		log.Fatal(err)
	}
	defer textLog.Close()

	sink := store.Multi{textLog, queryable}

	web := probe.NewHTTPChecker(cfg.ProbeTimeout)
	deep := &probe.DeepChecker{
		Web:             web,
		WebTargets:      targets.WebTargets,
		FailureFraction: cfg.DeepFailureFraction,
		Logger:          logger,
	}

	ping := probe.NewPingChecker(cfg.PingPackets, cfg.ProbeTimeout)
	if err := ping.Start(ctx); err != nil {
		// deep check falls back to web targets only
		logger.Warn("ping_unavailable", zap.Error(err))
	} else {
		deep.Pinger = ping
		deep.PingHosts = targets.PingHosts
	}

	det, err := detector.New(detector.Config{
		Threshold: cfg.ConfirmationThreshold,
		Deep:      deep.Confirm,
	})
	if err != nil {
		log.Fatal(err)
	}

	fast := probe.NewResolverChecker(targets.Resolvers, cfg.ProbeTimeout)
	tracker := detector.NewTracker(cfg.MinorWindow, cfg.FastInterval)
	mon := monitor.New(logger, fast, det, tracker, sink, cfg.FastInterval, cfg.ProbeTimeout)

	api := httpapi.NewServer(logger, mon, queryable)
	srv := &http.Server{Addr: cfg.Addr, Handler: api.Router()}

	logger.Info("netwatch_start",
		zap.String("addr", cfg.Addr),
		zap.Duration("fast_interval", cfg.FastInterval),
		zap.Int("confirmation_threshold", cfg.ConfirmationThreshold),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		mon.Run(gctx)
		return nil
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("netwatch_exit", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("netwatch_exit")
}

// openStore picks the queryable backend: postgres when a DSN is set, else
// sqlite when a path is set, else in-memory.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (store.OutageStore, func(), error) {
	switch {
	case cfg.DatabaseURL != "":
		pg, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("store_postgres")
		return pg, pg.Close, nil
	case cfg.SQLitePath != "":
		s, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("store_sqlite", zap.String("path", cfg.SQLitePath))
		return s, func() { _ = s.Close() }, nil
	default:
		logger.Info("store_memory")
		return memory.New(), nil, nil
	}
}
