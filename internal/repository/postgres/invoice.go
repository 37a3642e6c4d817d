package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/skeeterman/lawnbill/internal/domain/invoice"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/logger"
	"github.com/skeeterman/lawnbill/internal/postgres"
	"github.com/skeeterman/lawnbill/internal/types"
)

type invoiceRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewInvoiceRepository(db postgres.IClient, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{db: db, logger: logger}
}

const invoiceColumns = `
	id, gateway_invoice_id, customer_id, gateway_subscription_id,
	amount, invoice_status, due_date, public_url,
	status, created_at, updated_at, created_by, updated_by`

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (
			id, gateway_invoice_id, customer_id, gateway_subscription_id,
			amount, invoice_status, due_date, public_url,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :gateway_invoice_id, :customer_id, :gateway_subscription_id,
			:amount, :invoice_status, :due_date, :public_url,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating invoice",
		"invoice_id", inv.ID,
		"gateway_invoice_id", inv.GatewayInvoiceID,
		"customer_id", inv.CustomerID,
	)

	_, err := r.db.Querier(ctx).NamedExecContext(ctx, query, inv)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create invoice").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceRepository) GetByGatewayInvoiceID(ctx context.Context, gatewayInvoiceID string) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE gateway_invoice_id = $1 AND status != $2`
	err := r.db.Querier(ctx).GetContext(ctx, &inv, query, gatewayInvoiceID, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("invoice not found").
				WithHintf("No local invoice for gateway id %s", gatewayInvoiceID).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice").
			Mark(ierr.ErrDatabase)
	}
	return &inv, nil
}

func (r *invoiceRepository) ListByCustomer(ctx context.Context, customerID string) ([]*invoice.Invoice, error) {
	var invoices []*invoice.Invoice
	query := `SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE customer_id = $1 AND status != $2
		ORDER BY created_at DESC`
	err := r.db.Querier(ctx).SelectContext(ctx, &invoices, query, customerID, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoices").
			Mark(ierr.ErrDatabase)
	}
	return invoices, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	inv.UpdatedAt = time.Now().UTC()
	inv.UpdatedBy = types.GetUserID(ctx)

	query := `
		UPDATE invoices SET
			amount = :amount,
			invoice_status = :invoice_status,
			due_date = :due_date,
			public_url = :public_url,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id`

	_, err := r.db.Querier(ctx).NamedExecContext(ctx, query, inv)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update invoice").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
