package service

import (
	"github.com/skeeterman/lawnbill/internal/cache"
	"github.com/skeeterman/lawnbill/internal/config"
	"github.com/skeeterman/lawnbill/internal/domain/billing"
	"github.com/skeeterman/lawnbill/internal/domain/catalog"
	"github.com/skeeterman/lawnbill/internal/domain/customer"
	"github.com/skeeterman/lawnbill/internal/domain/gateway"
	"github.com/skeeterman/lawnbill/internal/domain/invoice"
	"github.com/skeeterman/lawnbill/internal/domain/schedule"
	"github.com/skeeterman/lawnbill/internal/domain/subscription"
	"github.com/skeeterman/lawnbill/internal/idempotency"
	"github.com/skeeterman/lawnbill/internal/logger"
	"github.com/skeeterman/lawnbill/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Cache  cache.Cache

	// Gateway is the payment gateway boundary
	Gateway gateway.Gateway

	// IdempGen derives idempotency keys for gateway calls
	IdempGen *idempotency.Generator

	// Repositories
	CustomerRepo      customer.Repository
	CatalogRepo       catalog.Repository
	ScheduleRepo      schedule.Repository
	EventRepo         subscription.EventRepository
	AttemptRepo       billing.AttemptRepository
	PaymentMethodRepo billing.PaymentMethodRepository
	PaymentRepo       billing.PaymentRepository
	InvoiceRepo       invoice.Repository
}

// NewServiceParams assembles the shared service dependencies
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	cacheClient cache.Cache,
	gatewayClient gateway.Gateway,
	idempGen *idempotency.Generator,
	customerRepo customer.Repository,
	catalogRepo catalog.Repository,
	scheduleRepo schedule.Repository,
	eventRepo subscription.EventRepository,
	attemptRepo billing.AttemptRepository,
	paymentMethodRepo billing.PaymentMethodRepository,
	paymentRepo billing.PaymentRepository,
	invoiceRepo invoice.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:            logger,
		Config:            config,
		DB:                db,
		Cache:             cacheClient,
		Gateway:           gatewayClient,
		IdempGen:          idempGen,
		CustomerRepo:      customerRepo,
		CatalogRepo:       catalogRepo,
		ScheduleRepo:      scheduleRepo,
		EventRepo:         eventRepo,
		AttemptRepo:       attemptRepo,
		PaymentMethodRepo: paymentMethodRepo,
		PaymentRepo:       paymentRepo,
		InvoiceRepo:       invoiceRepo,
	}
}
