package service

import (
	"github.com/shopspring/decimal"
	"github.com/skeeterman/lawnbill/internal/domain/catalog"
	"github.com/skeeterman/lawnbill/internal/domain/customer"
	"github.com/skeeterman/lawnbill/internal/domain/schedule"
	"github.com/skeeterman/lawnbill/internal/idempotency"
	"github.com/skeeterman/lawnbill/internal/testutil"
	"github.com/skeeterman/lawnbill/internal/types"
)

// newTestParams builds ServiceParams from the shared test suite
func newTestParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:            s.GetLogger(),
		Config:            s.GetConfig(),
		DB:                s.GetDB(),
		Cache:             s.GetCache(),
		Gateway:           s.GetGateway(),
		IdempGen:          idempotency.NewGenerator(),
		CustomerRepo:      stores.CustomerRepo,
		CatalogRepo:       stores.CatalogRepo,
		ScheduleRepo:      stores.ScheduleRepo,
		EventRepo:         stores.EventRepo,
		AttemptRepo:       stores.AttemptRepo,
		PaymentMethodRepo: stores.PaymentMethodRepo,
		PaymentRepo:       stores.PaymentRepo,
		InvoiceRepo:       stores.InvoiceRepo,
	}
}

func newTestPlan(name, variationID string, price string) *catalog.Item {
	return &catalog.Item{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CATALOG_ITEM),
		ItemType:       types.CatalogItemTypePlan,
		Name:           name,
		VariationID:    variationID,
		Price:          decimal.RequireFromString(price),
		BillingCadence: types.BillingCadenceRecurring,
		BaseModel:      types.BaseModel{Status: types.StatusPublished},
	}
}

func newTestAddon(name, variationID string, price string, cadence types.BillingCadence) *catalog.Item {
	return &catalog.Item{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CATALOG_ITEM),
		ItemType:       types.CatalogItemTypeAddon,
		Name:           name,
		VariationID:    variationID,
		Price:          decimal.RequireFromString(price),
		BillingCadence: cadence,
		BaseModel:      types.BaseModel{Status: types.StatusPublished},
	}
}

func newTestSchedule(planName string, startMonth, endMonth int) *schedule.PlanSchedule {
	return &schedule.PlanSchedule{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN_SCHEDULE),
		PlanName:   planName,
		StartMonth: startMonth,
		EndMonth:   endMonth,
		BaseModel:  types.BaseModel{Status: types.StatusPublished},
	}
}

func newTestCustomer(status types.SubscriptionStatus) *customer.Customer {
	c := &customer.Customer{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CUSTOMER),
		FirstName:          "Pat",
		LastName:           "Greenlow",
		Email:              types.GenerateUUID() + "@example.com",
		GatewayCustomerID:  "gw-cust-" + types.GenerateUUID(),
		SubscriptionStatus: status,
		BaseModel:          types.BaseModel{Status: types.StatusPublished},
	}
	if status != types.SubscriptionStatusNone && status != "" {
		c.GatewaySubscriptionID = "gw-sub-" + types.GenerateUUID()
	}
	return c
}
