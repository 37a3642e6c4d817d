package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skeeterman/lawnbill/internal/api"
	v1 "github.com/skeeterman/lawnbill/internal/api/v1"
	"github.com/skeeterman/lawnbill/internal/cache"
	"github.com/skeeterman/lawnbill/internal/config"
	"github.com/skeeterman/lawnbill/internal/gateway/square"
	"github.com/skeeterman/lawnbill/internal/httpclient"
	"github.com/skeeterman/lawnbill/internal/idempotency"
	"github.com/skeeterman/lawnbill/internal/logger"
	"github.com/skeeterman/lawnbill/internal/postgres"
	"github.com/skeeterman/lawnbill/internal/repository"
	"github.com/skeeterman/lawnbill/internal/service"
	"github.com/skeeterman/lawnbill/internal/validator"
	"go.uber.org/fx"
)

// @title LawnBill API
// @version 1.0
// @description Subscription lifecycle and billing orchestration for seasonal lawn and pest-control services
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// Postgres
			postgres.NewDB,
			postgres.NewClient,

			// HTTP client and payment gateway
			httpclient.NewDefaultClient,
			square.NewClient,

			// Idempotency key generator
			idempotency.NewGenerator,

			// Repositories
			repository.NewCustomerRepository,
			repository.NewCatalogRepository,
			repository.NewScheduleRepository,
			repository.NewSubscriptionEventRepository,
			repository.NewBillingAttemptRepository,
			repository.NewPaymentMethodRepository,
			repository.NewPaymentRepository,
			repository.NewInvoiceRepository,

			// Services
			service.NewServiceParams,
			service.NewCustomerService,
			service.NewCatalogService,
			service.NewScheduleService,
			service.NewPricingService,
			service.NewLifecycleService,
			service.NewBillingService,
			service.NewSchedulerService,
			service.NewWebhookService,
			service.NewInvoiceService,

			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	customerService service.CustomerService,
	billingService service.BillingService,
	lifecycleService service.LifecycleService,
	catalogService service.CatalogService,
	scheduleService service.ScheduleService,
	invoiceService service.InvoiceService,
	webhookService service.WebhookService,
	schedulerService service.SchedulerService,
) api.Handlers {
	return api.Handlers{
		Health:       v1.NewHealthHandler(logger),
		Customer:     v1.NewCustomerHandler(customerService, billingService, logger),
		Subscription: v1.NewSubscriptionHandler(billingService, lifecycleService, logger),
		Catalog:      v1.NewCatalogHandler(catalogService, scheduleService, invoiceService, logger),
		Webhook:      v1.NewWebhookHandler(webhookService, logger),
		Admin:        v1.NewAdminHandler(schedulerService, invoiceService, logger),
	}
}

func provideRouter(handlers api.Handlers) *gin.Engine {
	return api.NewRouter(handlers)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infof("Starting API server on %s", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
