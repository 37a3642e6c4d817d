package subscription

import (
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/samber/lo"
	"github.com/skeeterman/lawnbill/internal/types"
)

// activationSources are the states a customer may activate (or re-activate)
// from. Re-activation from cancelled always creates a fresh remote
// subscription rather than resuming the old one.
var activationSources = []types.SubscriptionStatus{
	types.SubscriptionStatusNone,
	types.SubscriptionStatusPaused,
	types.SubscriptionStatusCancelled,
}

// CanActivate reports whether an activation is legal from the given state
func CanActivate(from types.SubscriptionStatus) bool {
	if from == "" {
		from = types.SubscriptionStatusNone
	}
	return lo.Contains(activationSources, from)
}

// CanPause reports whether a pause is legal from the given state
func CanPause(from types.SubscriptionStatus) bool {
	return from == types.SubscriptionStatusActive
}

// CanResume reports whether a resume is legal from the given state
func CanResume(from types.SubscriptionStatus) bool {
	return from == types.SubscriptionStatusPaused
}

// CanCancel reports whether a cancel is legal from the given state
func CanCancel(from types.SubscriptionStatus) bool {
	return from == types.SubscriptionStatusActive ||
		from == types.SubscriptionStatusPaused
}

// InvalidTransitionError builds the error surfaced when a caller requests a
// transition that is not legal from the customer's current state.
func InvalidTransitionError(from types.SubscriptionStatus, action types.SubscriptionAction) error {
	return ierr.NewError("transition not legal from current state").
		WithHintf("Cannot %s a subscription in state %s", action, from).
		WithReportableDetails(map[string]any{
			"current_status": from,
			"action":         action,
		}).
		Mark(ierr.ErrInvalidTransition)
}
