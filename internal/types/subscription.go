package types

import (
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/samber/lo"
)

// SubscriptionStatus is the lifecycle state of a customer's recurring service.
// It is a single explicit enumeration: a paused subscription is still a live
// billing relationship, which is why IsEngaged is derived from the status
// rather than tracked as a separate flag.
type SubscriptionStatus string

const (
	// SubscriptionStatusNone means the customer has never activated a subscription
	SubscriptionStatusNone SubscriptionStatus = "none"

	// SubscriptionStatusActive means the subscription is billing normally
	SubscriptionStatusActive SubscriptionStatus = "active"

	// SubscriptionStatusPaused means billing is paused, either manually or by
	// the seasonal schedule, but the relationship is still live
	SubscriptionStatusPaused SubscriptionStatus = "paused"

	// SubscriptionStatusSuspended means service was stopped after repeated
	// payment failures; only a qualifying payment success leaves this state
	SubscriptionStatusSuspended SubscriptionStatus = "suspended"

	// SubscriptionStatusCancelled is terminal; reactivation creates a fresh
	// remote subscription rather than resuming the old one
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

// IsEngaged reports whether the customer still has a live billing
// relationship with the business.
func (s SubscriptionStatus) IsEngaged() bool {
	return s == SubscriptionStatusActive || s == SubscriptionStatusPaused
}

func (s SubscriptionStatus) Validate() error {
	allowed := []SubscriptionStatus{
		SubscriptionStatusNone,
		SubscriptionStatusActive,
		SubscriptionStatusPaused,
		SubscriptionStatusSuspended,
		SubscriptionStatusCancelled,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid subscription status").
			WithHint("Invalid subscription status").
			WithReportableDetails(map[string]any{
				"status":         s,
				"allowed_status": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PauseOrigin records who applied a pause so the monthly scheduler never
// auto-resumes a pause a human asked for.
type PauseOrigin string

const (
	PauseOriginManual   PauseOrigin = "manual"
	PauseOriginSchedule PauseOrigin = "schedule"
)

func (o PauseOrigin) String() string {
	return string(o)
}

func (o PauseOrigin) Validate() error {
	allowed := []PauseOrigin{
		PauseOriginManual,
		PauseOriginSchedule,
	}
	if !lo.Contains(allowed, o) {
		return ierr.NewError("invalid pause origin").
			WithHint("Pause origin must be manual or schedule").
			WithReportableDetails(map[string]any{
				"origin":         o,
				"allowed_values": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SubscriptionAction is the action recorded in the subscription audit log.
// Every lifecycle transition appends exactly one event with one of these.
type SubscriptionAction string

const (
	SubscriptionActionActivate   SubscriptionAction = "ACTIVATE"
	SubscriptionActionChangePlan SubscriptionAction = "CHANGE_PLAN"
	SubscriptionActionPause      SubscriptionAction = "PAUSE"
	SubscriptionActionResume     SubscriptionAction = "RESUME"
	SubscriptionActionCancel     SubscriptionAction = "CANCEL"
	SubscriptionActionSuspend    SubscriptionAction = "SUSPEND"
)

func (a SubscriptionAction) String() string {
	return string(a)
}

// SuspensionThreshold is the number of consecutive failed payment attempts
// after which a subscription is suspended. This models business policy, not
// transient-fault recovery.
const SuspensionThreshold = 3
