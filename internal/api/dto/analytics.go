package dto

import (
	"github.com/shopspring/decimal"
)

// BillingStatsResponse is the admin analytics summary. Served from a TTL
// cache; the timestamp tells the caller how fresh the numbers are.
type BillingStatsResponse struct {
	TotalCustomers    int `json:"total_customers"`
	ActiveSubscribers int `json:"active_subscribers"`
	PausedSubscribers int `json:"paused_subscribers"`
	Suspended         int `json:"suspended"`

	// MonthlyRecurringRevenue sums plan plus recurring add-on prices of
	// active subscribers
	MonthlyRecurringRevenue decimal.Decimal `json:"monthly_recurring_revenue"`

	// PlanDistribution counts active subscribers per plan name
	PlanDistribution map[string]int `json:"plan_distribution"`

	GeneratedAt string `json:"generated_at"`
}
