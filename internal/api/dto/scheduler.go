package dto

// SchedulerCustomerError is one customer the monthly run could not process
type SchedulerCustomerError struct {
	CustomerID string `json:"customer_id"`
	Error      string `json:"error"`
}

// SchedulerRunResult is the typed report of one monthly scheduler run
type SchedulerRunResult struct {
	Month  int  `json:"month"`
	DryRun bool `json:"dry_run"`

	// Paused lists customers paused (or, in dry-run, that would be paused)
	Paused []string `json:"paused"`

	// Resumed lists customers resumed out of a schedule-driven pause
	Resumed []string `json:"resumed"`

	// Skipped counts customers needing no transition this month
	Skipped int `json:"skipped"`

	Errors []SchedulerCustomerError `json:"errors"`
}

// HasErrors reports whether any customer failed during the run
func (r *SchedulerRunResult) HasErrors() bool {
	return len(r.Errors) > 0
}
