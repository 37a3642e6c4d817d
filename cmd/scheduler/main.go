package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/skeeterman/lawnbill/internal/cache"
	"github.com/skeeterman/lawnbill/internal/config"
	"github.com/skeeterman/lawnbill/internal/gateway/square"
	"github.com/skeeterman/lawnbill/internal/httpclient"
	"github.com/skeeterman/lawnbill/internal/idempotency"
	"github.com/skeeterman/lawnbill/internal/logger"
	"github.com/skeeterman/lawnbill/internal/postgres"
	"github.com/skeeterman/lawnbill/internal/repository"
	"github.com/skeeterman/lawnbill/internal/service"
)

func init() {
	time.Local = time.UTC
}

func main() {
	dryRun := flag.Bool("dry-run", false, "report transitions without applying them")
	once := flag.Bool("once", false, "run a single pass for the current month and exit")
	flag.Parse()

	// Optional .env for local runs
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}
	log, err := logger.NewLogger(cfg)
	if err != nil {
		panic(err)
	}

	db, err := postgres.NewDB(cfg, log)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	scheduler := buildScheduler(cfg, log, db)

	if *once {
		os.Exit(runOnce(scheduler, log, *dryRun))
	}

	spec := cfg.Scheduler.CronSpec
	if spec == "" {
		spec = "0 6 1 * *"
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		runOnce(scheduler, log, *dryRun)
	}); err != nil {
		log.Fatalf("invalid cron spec %q: %v", spec, err)
	}

	log.Infow("scheduler started", "cron_spec", spec, "dry_run", *dryRun)
	c.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("scheduler shutting down")
	<-c.Stop().Done()
}

func buildScheduler(cfg *config.Configuration, log *logger.Logger, db *postgres.DB) service.SchedulerService {
	client := postgres.NewClient(db)
	gw := square.NewClient(cfg, httpclient.NewDefaultClient(), log)

	params := service.NewServiceParams(
		log,
		cfg,
		client,
		cache.NewInMemoryCache(cfg),
		gw,
		idempotency.NewGenerator(),
		repository.NewCustomerRepository(client, log),
		repository.NewCatalogRepository(client, log),
		repository.NewScheduleRepository(client, log),
		repository.NewSubscriptionEventRepository(client, log),
		repository.NewBillingAttemptRepository(client, log),
		repository.NewPaymentMethodRepository(client, log),
		repository.NewPaymentRepository(client, log),
		repository.NewInvoiceRepository(client, log),
	)

	return service.NewSchedulerService(params)
}

func runOnce(scheduler service.SchedulerService, log *logger.Logger, dryRun bool) int {
	ctx := context.Background()
	month := int(time.Now().UTC().Month())

	result, err := scheduler.ProcessMonth(ctx, month, dryRun)
	if err != nil {
		log.Errorf("scheduler run failed: %v", err)
		return 1
	}

	if result.HasErrors() {
		log.Errorw("scheduler run finished with errors",
			"month", result.Month,
			"errors", len(result.Errors),
		)
		return 1
	}

	return 0
}
