package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	apihttp "utility-billing/internal/api/http"
	"utility-billing/internal/audit"
	"utility-billing/internal/catalog"
	"utility-billing/internal/config"
	"utility-billing/internal/console"
	customers "utility-billing/internal/customers/domain"
	ledger "utility-billing/internal/ledger/application"
	"utility-billing/internal/ledger/notify"
	"utility-billing/internal/logging"
	"utility-billing/internal/observability/metrics"
	"utility-billing/internal/reporting"
	"utility-billing/internal/seed"
)

func main() {
	configPath := flag.String("config", os.Getenv("ENERGY_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("energy billing stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	cat, err := catalog.Default().WithOverrides(cfg.Rates)
	if err != nil {
		return err
	}
	clock := customers.SystemClock{}

	notifiers := []ledger.Notifier{notify.NewLogNotifier(logger)}
	if cfg.Mode == config.ModeMenu {
		notifiers = append(notifiers, notify.NewConsoleNotifier(os.Stdout))
	}
	dir, err := ledger.NewDirectory(cat,
		ledger.WithNotifier(notify.NewMultiNotifier(notifiers...)),
		ledger.WithClock(clock),
		ledger.WithLogger(logger),
		ledger.WithSystemName(cfg.Report.SystemName),
	)
	if err != nil {
		return err
	}

	metrics.Init(prometheus.DefaultRegisterer, metrics.Sources{
		Customers:        dir.Len,
		OverdueCustomers: dir.OverdueCount,
	})

	if err := loadData(dir, cat, clock, cfg.Seed, logger); err != nil {
		return err
	}

	writer := reporting.NewWriter(logger)
	switch cfg.Mode {
	case config.ModeServe:
		return serve(ctx, cfg, dir, writer, logger)
	default:
		menu, err := console.NewMenu(dir, writer, console.Config{
			SystemName: cfg.Report.SystemName,
			ReportPath: cfg.Report.Path,
			Formats:    cfg.Report.Formats,
		}, os.Stdin, os.Stdout, logger)
		if err != nil {
			return err
		}
		return menu.Run(ctx)
	}
}

func loadData(dir *ledger.Directory, cat *catalog.Catalog, clock customers.Clock, cfg config.SeedConfig, logger *zap.Logger) error {
	if cfg.Fixture != "" {
		fixture, err := seed.LoadFixture(cfg.Fixture)
		if err != nil {
			return err
		}
		pop, err := fixture.Apply(dir, clock)
		if err != nil {
			return err
		}
		logger.Info("fixture loaded", zap.String("path", cfg.Fixture), zap.Int("customers", pop.Customers), zap.Int("trades", pop.Trades))
		return nil
	}
	if !cfg.Enabled {
		return nil
	}

	randomSeed := cfg.RandomSeed
	if randomSeed == 0 {
		randomSeed = time.Now().UnixNano()
	}
	gen, err := seed.NewGenerator(rand.New(rand.NewSource(randomSeed)), cat,
		seed.WithClock(clock),
		seed.WithBackdate(cfg.BackdateDays),
	)
	if err != nil {
		return err
	}
	pop, err := gen.Populate(dir, cfg.PerProvince)
	if err != nil {
		return err
	}
	logger.Info("demo data generated",
		zap.Int64("seed", randomSeed),
		zap.Int("customers", pop.Customers),
		zap.Int("trades", pop.Trades),
	)
	return nil
}

func serve(ctx context.Context, cfg config.Config, dir *ledger.Directory, writer *reporting.Writer, logger *zap.Logger) error {
	handler, err := apihttp.NewHandler(dir, writer, apihttp.ReportConfig{
		Path:    cfg.Report.Path,
		Formats: cfg.Report.Formats,
	}, logger, apihttp.WithAuditTrail(audit.NewMemoryLog(0)))
	if err != nil {
		return err
	}
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           apihttp.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("http server shutting down")
		return server.Shutdown(shutdownCtx)
	}
}
