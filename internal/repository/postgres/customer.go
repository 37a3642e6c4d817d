package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/skeeterman/lawnbill/internal/domain/customer"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/logger"
	"github.com/skeeterman/lawnbill/internal/postgres"
	"github.com/skeeterman/lawnbill/internal/types"
)

type customerRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewCustomerRepository(db postgres.IClient, logger *logger.Logger) customer.Repository {
	return &customerRepository{db: db, logger: logger}
}

const customerColumns = `
	id, first_name, last_name, email, phone_number,
	address_line1, address_city, address_state, address_postal_code,
	gateway_customer_id, gateway_subscription_id, subscription_status,
	plan_variation_id, selected_addons, paused_by_schedule,
	failed_payment_attempts, metadata,
	status, created_at, updated_at, created_by, updated_by`

func (r *customerRepository) Create(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (
			id, first_name, last_name, email, phone_number,
			address_line1, address_city, address_state, address_postal_code,
			gateway_customer_id, gateway_subscription_id, subscription_status,
			plan_variation_id, selected_addons, paused_by_schedule,
			failed_payment_attempts, metadata,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :first_name, :last_name, :email, :phone_number,
			:address_line1, :address_city, :address_state, :address_postal_code,
			:gateway_customer_id, :gateway_subscription_id, :subscription_status,
			:plan_variation_id, :selected_addons, :paused_by_schedule,
			:failed_payment_attempts, :metadata,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating customer",
		"customer_id", c.ID,
	)

	_, err := r.db.Querier(ctx).NamedExecContext(ctx, query, c)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create customer").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *customerRepository) Get(ctx context.Context, id string) (*customer.Customer, error) {
	var c customer.Customer
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 AND status != $2`
	err := r.db.Querier(ctx).GetContext(ctx, &c, query, id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("customer not found").
				WithHintf("Customer %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get customer").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *customerRepository) GetForUpdate(ctx context.Context, id string) (*customer.Customer, error) {
	var c customer.Customer
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 AND status != $2 FOR UPDATE`
	err := r.db.Querier(ctx).GetContext(ctx, &c, query, id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("customer not found").
				WithHintf("Customer %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to lock customer row").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	var c customer.Customer
	query := `SELECT ` + customerColumns + ` FROM customers WHERE lower(email) = lower($1) AND status != $2`
	err := r.db.Querier(ctx).GetContext(ctx, &c, query, email, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("customer not found").
				WithHint("No customer with that email").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get customer by email").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *customerRepository) GetByGatewayCustomerID(ctx context.Context, gatewayCustomerID string) (*customer.Customer, error) {
	var c customer.Customer
	query := `SELECT ` + customerColumns + ` FROM customers WHERE gateway_customer_id = $1 AND status != $2`
	err := r.db.Querier(ctx).GetContext(ctx, &c, query, gatewayCustomerID, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("customer not found").
				WithHintf("No customer for gateway id %s", gatewayCustomerID).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get customer by gateway id").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *customerRepository) ListWithSubscription(ctx context.Context) ([]*customer.Customer, error) {
	var customers []*customer.Customer
	query := `SELECT ` + customerColumns + `
		FROM customers
		WHERE gateway_subscription_id != '' AND status != $1
		ORDER BY created_at`
	err := r.db.Querier(ctx).SelectContext(ctx, &customers, query, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list subscribed customers").
			Mark(ierr.ErrDatabase)
	}
	return customers, nil
}

func (r *customerRepository) List(ctx context.Context) ([]*customer.Customer, error) {
	var customers []*customer.Customer
	query := `SELECT ` + customerColumns + ` FROM customers WHERE status != $1 ORDER BY created_at DESC`
	err := r.db.Querier(ctx).SelectContext(ctx, &customers, query, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list customers").
			Mark(ierr.ErrDatabase)
	}
	return customers, nil
}

func (r *customerRepository) Count(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM customers WHERE status != $1`
	err := r.db.Querier(ctx).GetContext(ctx, &count, query, types.StatusDeleted)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count customers").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *customerRepository) Update(ctx context.Context, c *customer.Customer) error {
	c.UpdatedAt = time.Now().UTC()
	c.UpdatedBy = types.GetUserID(ctx)

	query := `
		UPDATE customers SET
			first_name = :first_name,
			last_name = :last_name,
			email = :email,
			phone_number = :phone_number,
			address_line1 = :address_line1,
			address_city = :address_city,
			address_state = :address_state,
			address_postal_code = :address_postal_code,
			gateway_customer_id = :gateway_customer_id,
			gateway_subscription_id = :gateway_subscription_id,
			subscription_status = :subscription_status,
			plan_variation_id = :plan_variation_id,
			selected_addons = :selected_addons,
			paused_by_schedule = :paused_by_schedule,
			failed_payment_attempts = :failed_payment_attempts,
			metadata = :metadata,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id`

	r.logger.Debugw("updating customer",
		"customer_id", c.ID,
		"subscription_status", c.SubscriptionStatus,
	)

	_, err := r.db.Querier(ctx).NamedExecContext(ctx, query, c)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update customer").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE customers SET
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
			WithHint("Failed to delete customer").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
