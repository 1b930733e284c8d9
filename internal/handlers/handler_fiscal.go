package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	"github.com/SscSPs/club_tab_app/internal/dto"
	"github.com/SscSPs/club_tab_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// fiscalHandler handles fiscal periods and the debts a close leaves behind.
type fiscalHandler struct {
	fiscalService portssvc.FiscalSvcFacade
	debtService   portssvc.DebtSvcFacade
}

func newFiscalHandler(fs portssvc.FiscalSvcFacade, ds portssvc.DebtSvcFacade) *fiscalHandler {
	return &fiscalHandler{fiscalService: fs, debtService: ds}
}

func registerFiscalRoutes(active, admin *gin.RouterGroup, fiscalService portssvc.FiscalSvcFacade, debtService portssvc.DebtSvcFacade) {
	h := newFiscalHandler(fiscalService, debtService)

	periods := active.Group("/fiscal-periods")
	{
		periods.GET("/current", h.currentPeriod)
	}
	adminPeriods := admin.Group("/fiscal-periods")
	{
		adminPeriods.GET("", h.listPeriods)
		adminPeriods.POST("/close", h.closePeriod)
		adminPeriods.GET("/:id/stats", h.periodStats)
		adminPeriods.GET("/:id/debts", h.periodDebts)
	}

	debts := active.Group("/fiscal-debts")
	{
		debts.GET("/mine", h.listMyDebts)
		debts.PUT("/:id/request-payment", h.requestDebtPayment)
	}
	adminDebts := admin.Group("/fiscal-debts")
	{
		adminDebts.GET("/pending", h.listPendingDebts)
		adminDebts.PUT("/:id/approve", h.approveDebtPayment)
		adminDebts.PUT("/:id/reject", h.rejectDebtPayment)
		adminDebts.PUT("/:id/mark-paid", h.markDebtPaid)
	}
}

// listPeriods godoc
// @Summary List fiscal periods
// @Tags fiscal
// @Produce json
// @Success 200 {array} dto.FiscalPeriodResponse
// @Failure 403 {object} ErrorResponse "Admin only"
// @Security BearerAuth
// @Router /fiscal-periods [get]
func (h *fiscalHandler) listPeriods(c *gin.Context) {
	admin, ok := currentMember(c)
	if !ok {
		return
	}
	periods, err := h.fiscalService.ListPeriods(c.Request.Context(), admin)
	if err != nil {
		respondError(c, err, "Failed to list fiscal periods")
		return
	}
	c.JSON(http.StatusOK, dto.ToFiscalPeriodListResponse(periods))
}

// currentPeriod godoc
// @Summary Get the open fiscal period
// @Tags fiscal
// @Produce json
// @Success 200 {object} dto.FiscalPeriodResponse
// @Failure 404 {object} ErrorResponse "No open period"
// @Security BearerAuth
// @Router /fiscal-periods/current [get]
func (h *fiscalHandler) currentPeriod(c *gin.Context) {
	period, err := h.fiscalService.GetCurrentPeriod(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load current fiscal period")
		return
	}
	c.JSON(http.StatusOK, dto.ToFiscalPeriodResponse(period))
}

// closePeriod godoc
// @Summary Close the open fiscal period
// @Description Snapshots every negative balance of an active member as a debt, resets all balances to zero
// @Description and opens the next period in one transaction. Send the periodID being closed to guard against double submits.
// @Tags fiscal
// @Accept json
// @Produce json
// @Param close body dto.ClosePeriodRequest false "Period expected to be open"
// @Success 200 {object} domain.CloseResult
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Period already closed"
// @Security BearerAuth
// @Router /fiscal-periods/close [post]
func (h *fiscalHandler) closePeriod(c *gin.Context) {
	admin, ok := currentMember(c)
	if !ok {
		return
	}
	var req dto.ClosePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err, "request format")
		return
	}

	result, err := h.fiscalService.ClosePeriod(c.Request.Context(), admin, req.PeriodID)
	if err != nil {
		respondError(c, err, "Failed to close fiscal period")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Fiscal period closed",
		slog.String("closed_period_id", result.ClosedPeriodID),
		slog.Int("debts_created", result.DebtsCreated))
	c.JSON(http.StatusOK, result)
}

// periodStats godoc
// @Summary Fiscal period statistics
// @Tags fiscal
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {object} dto.PeriodStatsResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /fiscal-periods/{id}/stats [get]
func (h *fiscalHandler) periodStats(c *gin.Context) {
	admin, ok := currentMember(c)
	if !ok {
		return
	}
	stats, err := h.fiscalService.GetPeriodStats(c.Request.Context(), admin, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to load fiscal period statistics")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodStatsResponse(stats))
}

// periodDebts godoc
// @Summary Debts created by a period close
// @Tags fiscal
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {array} dto.FiscalDebtResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /fiscal-periods/{id}/debts [get]
func (h *fiscalHandler) periodDebts(c *gin.Context) {
	admin, ok := currentMember(c)
	if !ok {
		return
	}
	debts, err := h.fiscalService.ListPeriodDebts(c.Request.Context(), admin, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to list fiscal debts")
		return
	}
	c.JSON(http.StatusOK, dto.ToFiscalDebtListResponse(debts))
}

// listMyDebts godoc
// @Summary List own open debts
// @Tags fiscal
// @Produce json
// @Success 200 {array} dto.FiscalDebtResponse
// @Security BearerAuth
// @Router /fiscal-debts/mine [get]
func (h *fiscalHandler) listMyDebts(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}
	debts, err := h.debtService.ListMyDebts(c.Request.Context(), member)
	if err != nil {
		respondError(c, err, "Failed to list debts")
		return
	}
	c.JSON(http.StatusOK, dto.ToFiscalDebtListResponse(debts))
}

// listPendingDebts godoc
// @Summary List debts awaiting payment confirmation
// @Tags fiscal
// @Produce json
// @Success 200 {array} dto.FiscalDebtResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /fiscal-debts/pending [get]
func (h *fiscalHandler) listPendingDebts(c *gin.Context) {
	admin, ok := currentMember(c)
	if !ok {
		return
	}
	debts, err := h.debtService.ListPendingDebts(c.Request.Context(), admin)
	if err != nil {
		respondError(c, err, "Failed to list pending debts")
		return
	}
	c.JSON(http.StatusOK, dto.ToFiscalDebtListResponse(debts))
}

type debtTransition func(ctx context.Context, actor domain.Member, debtID string) (*domain.FiscalDebt, error)

func (h *fiscalHandler) transition(c *gin.Context, fn debtTransition, action string) {
	actor, ok := currentMember(c)
	if !ok {
		return
	}
	debt, err := fn(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to "+action)
		return
	}
	c.JSON(http.StatusOK, dto.ToFiscalDebtResponse(debt))
}

// requestDebtPayment godoc
// @Summary Report a debt as paid
// @Description Moves an unpaid debt of the caller to payment_pending.
// @Tags fiscal
// @Produce json
// @Param id path string true "Debt ID"
// @Success 200 {object} dto.FiscalDebtResponse
// @Failure 403 {object} ErrorResponse "Debt belongs to another member"
// @Failure 409 {object} ErrorResponse "Debt is not unpaid"
// @Security BearerAuth
// @Router /fiscal-debts/{id}/request-payment [put]
func (h *fiscalHandler) requestDebtPayment(c *gin.Context) {
	h.transition(c, h.debtService.RequestPayment, "request debt payment")
}

// approveDebtPayment godoc
// @Summary Confirm a reported debt payment
// @Tags fiscal
// @Produce json
// @Param id path string true "Debt ID"
// @Success 200 {object} dto.FiscalDebtResponse
// @Failure 409 {object} ErrorResponse "Debt is not payment_pending"
// @Security BearerAuth
// @Router /fiscal-debts/{id}/approve [put]
func (h *fiscalHandler) approveDebtPayment(c *gin.Context) {
	h.transition(c, h.debtService.ApprovePayment, "approve debt payment")
}

// rejectDebtPayment godoc
// @Summary Reject a reported debt payment
// @Description Moves the debt back to unpaid.
// @Tags fiscal
// @Produce json
// @Param id path string true "Debt ID"
// @Success 200 {object} dto.FiscalDebtResponse
// @Failure 409 {object} ErrorResponse "Debt is not payment_pending"
// @Security BearerAuth
// @Router /fiscal-debts/{id}/reject [put]
func (h *fiscalHandler) rejectDebtPayment(c *gin.Context) {
	h.transition(c, h.debtService.RejectPayment, "reject debt payment")
}

// markDebtPaid godoc
// @Summary Mark a debt paid
// @Description Settles an unpaid or payment_pending debt directly.
// @Tags fiscal
// @Produce json
// @Param id path string true "Debt ID"
// @Success 200 {object} dto.FiscalDebtResponse
// @Failure 409 {object} ErrorResponse "Debt is already paid"
// @Security BearerAuth
// @Router /fiscal-debts/{id}/mark-paid [put]
func (h *fiscalHandler) markDebtPaid(c *gin.Context) {
	h.transition(c, h.debtService.MarkPaid, "mark debt paid")
}
