package repository

import (
	"github.com/skeeterman/lawnbill/internal/domain/billing"
	"github.com/skeeterman/lawnbill/internal/domain/catalog"
	"github.com/skeeterman/lawnbill/internal/domain/customer"
	"github.com/skeeterman/lawnbill/internal/domain/invoice"
	"github.com/skeeterman/lawnbill/internal/domain/schedule"
	"github.com/skeeterman/lawnbill/internal/domain/subscription"
	"github.com/skeeterman/lawnbill/internal/logger"
	"github.com/skeeterman/lawnbill/internal/postgres"
	postgresRepo "github.com/skeeterman/lawnbill/internal/repository/postgres"
)

func NewCustomerRepository(db postgres.IClient, logger *logger.Logger) customer.Repository {
	return postgresRepo.NewCustomerRepository(db, logger)
}

func NewCatalogRepository(db postgres.IClient, logger *logger.Logger) catalog.Repository {
	return postgresRepo.NewCatalogRepository(db, logger)
}

func NewScheduleRepository(db postgres.IClient, logger *logger.Logger) schedule.Repository {
	return postgresRepo.NewScheduleRepository(db, logger)
}

func NewSubscriptionEventRepository(db postgres.IClient, logger *logger.Logger) subscription.EventRepository {
	return postgresRepo.NewSubscriptionEventRepository(db, logger)
}

func NewBillingAttemptRepository(db postgres.IClient, logger *logger.Logger) billing.AttemptRepository {
	return postgresRepo.NewBillingAttemptRepository(db, logger)
}

func NewPaymentMethodRepository(db postgres.IClient, logger *logger.Logger) billing.PaymentMethodRepository {
	return postgresRepo.NewPaymentMethodRepository(db, logger)
}

func NewPaymentRepository(db postgres.IClient, logger *logger.Logger) billing.PaymentRepository {
	return postgresRepo.NewPaymentRepository(db, logger)
}

func NewInvoiceRepository(db postgres.IClient, logger *logger.Logger) invoice.Repository {
	return postgresRepo.NewInvoiceRepository(db, logger)
}
