package service

import (
	"testing"

	"github.com/shopspring/decimal"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/testutil"
	"github.com/skeeterman/lawnbill/internal/types"
	"github.com/stretchr/testify/suite"
)

type PricingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PricingService
}

func TestPricingService(t *testing.T) {
	suite.Run(t, new(PricingServiceSuite))
}

func (s *PricingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewPricingService(newTestParams(&s.BaseServiceTestSuite))
}

func (s *PricingServiceSuite) TestComputeFee() {
	tests := []struct {
		subtotal string
		fee      string
	}{
		{"100.00", "4.10"},
		{"0", "0.10"},
		{"49.99", "2.10"},
		{"25.50", "1.12"},
	}

	for _, tt := range tests {
		fee := s.service.ComputeFee(decimal.RequireFromString(tt.subtotal))
		s.Equal(tt.fee, fee.StringFixed(2), "subtotal %s", tt.subtotal)
	}
}

func (s *PricingServiceSuite) TestAssembleOrder() {
	plan := newTestPlan("Turf Care", "var-plan", "80.00")
	addon := newTestAddon("Grub Control", "var-grub", "20.00", types.BillingCadenceRecurring)
	s.NoError(s.GetStores().CatalogRepo.Create(s.GetContext(), plan))
	s.NoError(s.GetStores().CatalogRepo.Create(s.GetContext(), addon))

	preview, err := s.service.AssembleOrder(s.GetContext(), "var-plan", []string{"var-grub"})
	s.NoError(err)

	s.Equal("100.00", preview.Subtotal.StringFixed(2))
	s.Equal("4.10", preview.Fee.StringFixed(2))
	s.Equal("104.10", preview.Total.StringFixed(2))

	// One line per item plus the synthetic fee line
	s.Len(preview.LineItems, 3)
	s.Equal("var-plan", preview.LineItems[0].CatalogObjectID)
	s.Equal("var-grub", preview.LineItems[1].CatalogObjectID)
	s.Equal("Processing Fee", preview.LineItems[2].Name)
	s.Equal(int64(410), preview.LineItems[2].AmountCents)
}

func (s *PricingServiceSuite) TestAssembleOrderDeterministic() {
	plan := newTestPlan("Turf Care", "var-plan", "80.00")
	s.NoError(s.GetStores().CatalogRepo.Create(s.GetContext(), plan))

	first, err := s.service.AssembleOrder(s.GetContext(), "var-plan", nil)
	s.NoError(err)
	second, err := s.service.AssembleOrder(s.GetContext(), "var-plan", nil)
	s.NoError(err)

	s.True(first.Fee.Equal(second.Fee))
	s.True(first.Total.Equal(second.Total))
}

func (s *PricingServiceSuite) TestAssembleOrderPlanNotFound() {
	_, err := s.service.AssembleOrder(s.GetContext(), "var-missing", nil)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PricingServiceSuite) TestAssembleOrderFailsFastOnMissingAddon() {
	plan := newTestPlan("Turf Care", "var-plan", "80.00")
	s.NoError(s.GetStores().CatalogRepo.Create(s.GetContext(), plan))

	_, err := s.service.AssembleOrder(s.GetContext(), "var-plan", []string{"var-missing"})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PricingServiceSuite) TestZeroPriceFallsBackToLivePrice() {
	plan := newTestPlan("Turf Care", "var-plan", "0")
	s.NoError(s.GetStores().CatalogRepo.Create(s.GetContext(), plan))
	s.GetGateway().CatalogPrices["var-plan"] = 8000

	preview, err := s.service.AssembleOrder(s.GetContext(), "var-plan", nil)
	s.NoError(err)
	s.Equal("80.00", preview.Subtotal.StringFixed(2))
	s.Equal(1, s.GetGateway().Calls(testutil.OpCatalogPrices))

	// Second assembly hits the cache, not the gateway
	_, err = s.service.AssembleOrder(s.GetContext(), "var-plan", nil)
	s.NoError(err)
	s.Equal(1, s.GetGateway().Calls(testutil.OpCatalogPrices))
}

func (s *PricingServiceSuite) TestZeroPriceUnknownAtGateway() {
	plan := newTestPlan("Turf Care", "var-plan", "0")
	s.NoError(s.GetStores().CatalogRepo.Create(s.GetContext(), plan))

	_, err := s.service.AssembleOrder(s.GetContext(), "var-plan", nil)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PricingServiceSuite) TestPartitionAddons() {
	recurring := newTestAddon("Grub Control", "var-grub", "20.00", types.BillingCadenceRecurring)
	oneTime := newTestAddon("Aeration", "var-aeration", "50.00", types.BillingCadenceOneTime)
	s.NoError(s.GetStores().CatalogRepo.Create(s.GetContext(), recurring))
	s.NoError(s.GetStores().CatalogRepo.Create(s.GetContext(), oneTime))

	rec, once, err := s.service.PartitionAddons(s.GetContext(), []string{"var-grub", "var-aeration"})
	s.NoError(err)
	s.Len(rec, 1)
	s.Len(once, 1)
	s.Equal("var-grub", rec[0].VariationID)
	s.Equal("var-aeration", once[0].VariationID)
}
