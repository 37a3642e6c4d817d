package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/skeeterman/lawnbill/internal/domain/billing"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/logger"
	"github.com/skeeterman/lawnbill/internal/postgres"
	"github.com/skeeterman/lawnbill/internal/types"
)

type billingAttemptRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewBillingAttemptRepository(db postgres.IClient, logger *logger.Logger) billing.AttemptRepository {
	return &billingAttemptRepository{db: db, logger: logger}
}

const attemptColumns = `
	id, number, customer_id, items, subtotal, fee, total,
	gateway_payment_id, gateway_order_id, idempotency_key, attempt_status,
	status, created_at, updated_at, created_by, updated_by`

func (r *billingAttemptRepository) Create(ctx context.Context, attempt *billing.Attempt) error {
	query := `
		INSERT INTO billing_attempts (
			id, number, customer_id, items, subtotal, fee, total,
			gateway_payment_id, gateway_order_id, idempotency_key, attempt_status,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :number, :customer_id, :items, :subtotal, :fee, :total,
			:gateway_payment_id, :gateway_order_id, :idempotency_key, :attempt_status,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating billing attempt",
		"attempt_id", attempt.ID,
		"number", attempt.Number,
		"customer_id", attempt.CustomerID,
		"total", attempt.Total,
	)

	_, err := r.db.Querier(ctx).NamedExecContext(ctx, query, attempt)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create billing attempt").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *billingAttemptRepository) ListByCustomer(ctx context.Context, customerID string) ([]*billing.Attempt, error) {
	var attempts []*billing.Attempt
	query := `SELECT ` + attemptColumns + `
		FROM billing_attempts
		WHERE customer_id = $1 AND status != $2
		ORDER BY created_at DESC`
	err := r.db.Querier(ctx).SelectContext(ctx, &attempts, query, customerID, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list billing attempts").
			Mark(ierr.ErrDatabase)
	}
	return attempts, nil
}

type paymentMethodRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewPaymentMethodRepository(db postgres.IClient, logger *logger.Logger) billing.PaymentMethodRepository {
	return &paymentMethodRepository{db: db, logger: logger}
}

const paymentMethodColumns = `
	id, customer_id, gateway_card_id, last4, brand, exp_month, exp_year, is_default,
	status, created_at, updated_at, created_by, updated_by`

func (r *paymentMethodRepository) Create(ctx context.Context, method *billing.PaymentMethod) error {
	query := `
		INSERT INTO payment_methods (
			id, customer_id, gateway_card_id, last4, brand, exp_month, exp_year, is_default,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :customer_id, :gateway_card_id, :last4, :brand, :exp_month, :exp_year, :is_default,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating payment method",
		"payment_method_id", method.ID,
		"customer_id", method.CustomerID,
		"last4", method.Last4,
	)

	_, err := r.db.Querier(ctx).NamedExecContext(ctx, query, method)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create payment method").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *paymentMethodRepository) Get(ctx context.Context, id string) (*billing.PaymentMethod, error) {
	var method billing.PaymentMethod
	query := `SELECT ` + paymentMethodColumns + ` FROM payment_methods WHERE id = $1 AND status != $2`
	err := r.db.Querier(ctx).GetContext(ctx, &method, query, id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("payment method not found").
				WithHintf("Payment method %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get payment method").
			Mark(ierr.ErrDatabase)
	}
	return &method, nil
}

func (r *paymentMethodRepository) GetDefaultByCustomer(ctx context.Context, customerID string) (*billing.PaymentMethod, error) {
	var method billing.PaymentMethod
	query := `SELECT ` + paymentMethodColumns + `
		FROM payment_methods
		WHERE customer_id = $1 AND is_default = true AND status != $2
		LIMIT 1`
	err := r.db.Querier(ctx).GetContext(ctx, &method, query, customerID, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("no default payment method").
				WithHint("Customer has no card on file").
				Mark(ierr.ErrNoPaymentMethod)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get default payment method").
			Mark(ierr.ErrDatabase)
	}
	return &method, nil
}

func (r *paymentMethodRepository) ListByCustomer(ctx context.Context, customerID string) ([]*billing.PaymentMethod, error) {
	var methods []*billing.PaymentMethod
	query := `SELECT ` + paymentMethodColumns + `
		FROM payment_methods
		WHERE customer_id = $1 AND status != $2
		ORDER BY created_at DESC`
	err := r.db.Querier(ctx).SelectContext(ctx, &methods, query, customerID, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list payment methods").
			Mark(ierr.ErrDatabase)
	}
	return methods, nil
}

func (r *paymentMethodRepository) ClearDefault(ctx context.Context, customerID string) error {
	query := `
		UPDATE payment_methods SET
			is_default = false,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE customer_id = :customer_id AND is_default = true`

	_, err := r.db.Querier(ctx).NamedExecContext(ctx, query, map[string]interface{}{
		"customer_id": customerID,
		"updated_by":  types.GetUserID(ctx),
		"updated_at":  time.Now().UTC(),
	})
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to clear default payment method").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *paymentMethodRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE payment_methods SET
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id`

	_, err := r.db.Querier(ctx).NamedExecContext(ctx, query, map[string]interface{}{
		"id":         id,
		"status":     types.StatusDeleted,
		"updated_by": types.GetUserID(ctx),
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete payment method").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

type paymentRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewPaymentRepository(db postgres.IClient, logger *logger.Logger) billing.PaymentRepository {
	return &paymentRepository{db: db, logger: logger}
}

const paymentColumns = `
	id, customer_id, amount, payment_status, gateway_transaction_id,
	status, created_at, updated_at, created_by, updated_by`

func (r *paymentRepository) Create(ctx context.Context, payment *billing.Payment) error {
	query := `
		INSERT INTO payments (
			id, customer_id, amount, payment_status, gateway_transaction_id,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :customer_id, :amount, :payment_status, :gateway_transaction_id,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("recording payment",
		"payment_id", payment.ID,
		"customer_id", payment.CustomerID,
		"amount", payment.Amount,
	)

	_, err := r.db.Querier(ctx).NamedExecContext(ctx, query, payment)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to record payment").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *paymentRepository) ListByCustomer(ctx context.Context, customerID string) ([]*billing.Payment, error) {
	var payments []*billing.Payment
	query := `SELECT ` + paymentColumns + `
		FROM payments
		WHERE customer_id = $1 AND status != $2
		ORDER BY created_at DESC`
	err := r.db.Querier(ctx).SelectContext(ctx, &payments, query, customerID, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list payments").
			Mark(ierr.ErrDatabase)
	}
	return payments, nil
}
