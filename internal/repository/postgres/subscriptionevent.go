package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/skeeterman/lawnbill/internal/domain/subscription"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/logger"
	"github.com/skeeterman/lawnbill/internal/postgres"
	"github.com/skeeterman/lawnbill/internal/types"
)

type subscriptionEventRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewSubscriptionEventRepository(db postgres.IClient, logger *logger.Logger) subscription.EventRepository {
	return &subscriptionEventRepository{db: db, logger: logger}
}

const eventColumns = `
	id, customer_id, gateway_subscription_id, action, effective_date, details,
	status, created_at, updated_at, created_by, updated_by`

func (r *subscriptionEventRepository) Create(ctx context.Context, event *subscription.Event) error {
	query := `
		INSERT INTO subscription_events (
			id, customer_id, gateway_subscription_id, action, effective_date, details,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :customer_id, :gateway_subscription_id, :action, :effective_date, :details,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("recording subscription event",
		"event_id", event.ID,
		"customer_id", event.CustomerID,
		"action", event.Action,
	)

	_, err := r.db.Querier(ctx).NamedExecContext(ctx, query, event)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to record subscription event").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *subscriptionEventRepository) Get(ctx context.Context, id string) (*subscription.Event, error) {
	var event subscription.Event
	query := `SELECT ` + eventColumns + ` FROM subscription_events WHERE id = $1`
	err := r.db.Querier(ctx).GetContext(ctx, &event, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("subscription event not found").
				WithHintf("Subscription event %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get subscription event").
			Mark(ierr.ErrDatabase)
	}
	return &event, nil
}

func (r *subscriptionEventRepository) ListByCustomer(ctx context.Context, customerID string) ([]*subscription.Event, error) {
	var events []*subscription.Event
	query := `SELECT ` + eventColumns + `
		FROM subscription_events
		WHERE customer_id = $1 AND status != $2
		ORDER BY created_at DESC`
	err := r.db.Querier(ctx).SelectContext(ctx, &events, query, customerID, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list subscription events").
			Mark(ierr.ErrDatabase)
	}
	return events, nil
}
