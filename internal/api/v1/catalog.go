package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skeeterman/lawnbill/internal/api/dto"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/logger"
	"github.com/skeeterman/lawnbill/internal/service"
)

type CatalogHandler struct {
	catalog   service.CatalogService
	schedules service.ScheduleService
	invoices  service.InvoiceService
	log       *logger.Logger
}

func NewCatalogHandler(
	catalog service.CatalogService,
	schedules service.ScheduleService,
	invoices service.InvoiceService,
	log *logger.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		catalog:   catalog,
		schedules: schedules,
		invoices:  invoices,
		log:       log,
	}
}

// @Summary Create a catalog item
// @Description Register a plan or add-on in the local catalog mirror
// @Tags Catalog
// @Accept json
// @Produce json
// @Param item body dto.CreateCatalogItemRequest true "Item"
// @Success 201 {object} dto.CatalogItemResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /catalog/items [post]
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req dto.CreateCatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	resp, err := h.catalog.CreateItem(c.Request.Context(), req.ToItem(c.Request.Context()))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Delete a catalog item
// @Description Soft-delete a plan or add-on from the local catalog mirror
// @Tags Catalog
// @Produce json
// @Param id path string true "Item ID"
// @Success 204
// @Failure 404 {object} ierr.ErrorResponse
// @Router /catalog/items/{id} [delete]
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	if err := h.catalog.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary List plans
// @Description List subscription plans
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.ListCatalogItemsResponse
// @Router /catalog/plans [get]
func (h *CatalogHandler) GetPlans(c *gin.Context) {
	resp, err := h.catalog.ListPlans(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List add-ons
// @Description List add-on services
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.ListCatalogItemsResponse
// @Router /catalog/addons [get]
func (h *CatalogHandler) GetAddons(c *gin.Context) {
	resp, err := h.catalog.ListAddons(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Sync catalog prices
// @Description Refresh local prices from the gateway's live catalog
// @Tags Catalog
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 502 {object} ierr.ErrorResponse
// @Router /catalog/sync [post]
func (h *CatalogHandler) SyncPrices(c *gin.Context) {
	updated, err := h.catalog.SyncPrices(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// @Summary Create a plan schedule
// @Description Configure the active month window for a plan
// @Tags Schedules
// @Accept json
// @Produce json
// @Param schedule body dto.CreatePlanScheduleRequest true "Schedule"
// @Success 201 {object} dto.PlanScheduleResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /schedules [post]
func (h *CatalogHandler) CreateSchedule(c *gin.Context) {
	var req dto.CreatePlanScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.schedules.CreateSchedule(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Update a plan schedule
// @Description Replace the active month window for an existing schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param schedule body dto.UpdatePlanScheduleRequest true "Window"
// @Success 200 {object} dto.PlanScheduleResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /schedules/{id} [put]
func (h *CatalogHandler) UpdateSchedule(c *gin.Context) {
	var req dto.UpdatePlanScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.schedules.UpdateSchedule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a plan schedule
// @Description Remove a plan's seasonal window so it is always sellable
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 204
// @Failure 404 {object} ierr.ErrorResponse
// @Router /schedules/{id} [delete]
func (h *CatalogHandler) DeleteSchedule(c *gin.Context) {
	if err := h.schedules.DeleteSchedule(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary List plan schedules
// @Description List plan schedules
// @Tags Schedules
// @Produce json
// @Success 200 {object} dto.ListPlanSchedulesResponse
// @Router /schedules [get]
func (h *CatalogHandler) GetSchedules(c *gin.Context) {
	resp, err := h.schedules.ListSchedules(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List invoices
// @Description List a customer's locally mirrored invoices
// @Tags Invoices
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} dto.ListInvoicesResponse
// @Router /customers/{id}/invoices [get]
func (h *CatalogHandler) GetInvoices(c *gin.Context) {
	resp, err := h.invoices.ListInvoices(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Sync invoices
// @Description Pull a customer's invoices from the gateway into the local mirror
// @Tags Invoices
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 502 {object} ierr.ErrorResponse
// @Router /customers/{id}/invoices/sync [post]
func (h *CatalogHandler) SyncInvoices(c *gin.Context) {
	resp, err := h.invoices.SyncInvoices(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
