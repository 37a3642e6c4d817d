package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/logger"
	"github.com/skeeterman/lawnbill/internal/service"
)

type AdminHandler struct {
	scheduler service.SchedulerService
	invoices  service.InvoiceService
	log       *logger.Logger
}

func NewAdminHandler(
	scheduler service.SchedulerService,
	invoices service.InvoiceService,
	log *logger.Logger,
) *AdminHandler {
	return &AdminHandler{
		scheduler: scheduler,
		invoices:  invoices,
		log:       log,
	}
}

// @Summary Run the monthly scheduler
// @Description Apply seasonal pauses and resumes for a month. Defaults to the current month; dry_run reports decisions without applying them.
// @Tags Admin
// @Produce json
// @Param month query int false "Month (1-12)"
// @Param dry_run query bool false "Dry run"
// @Success 200 {object} dto.SchedulerRunResult
// @Failure 400 {object} ierr.ErrorResponse
// @Router /admin/scheduler/run [post]
func (h *AdminHandler) RunScheduler(c *gin.Context) {
	month := int(time.Now().UTC().Month())
	if raw := c.Query("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.Error(ierr.WithError(err).
				WithHint("Month must be a number between 1 and 12").
				Mark(ierr.ErrValidation))
			return
		}
		month = parsed
	}

	dryRun := c.Query("dry_run") == "true"

	result, err := h.scheduler.ProcessMonth(c.Request.Context(), month, dryRun)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Get billing stats
// @Description Return the analytics summary: customer counts by status, MRR, plan distribution
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.BillingStatsResponse
// @Router /admin/stats [get]
func (h *AdminHandler) GetBillingStats(c *gin.Context) {
	resp, err := h.invoices.GetBillingStats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
