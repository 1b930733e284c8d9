package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	"github.com/SscSPs/club_tab_app/internal/dto"
	"github.com/SscSPs/club_tab_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles purchases, payments and their approval.
type transactionHandler struct {
	txService portssvc.TransactionSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{txService: ts}
}

func registerTransactionRoutes(active, admin *gin.RouterGroup, txService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(txService)

	mine := active.Group("/transactions")
	{
		mine.POST("/purchase", h.createPurchase)
		mine.POST("/payment-request", h.createPaymentRequest)
		mine.GET("/mine", h.listMyTransactions)
	}

	managed := admin.Group("/transactions")
	{
		managed.POST("/payment", h.createPayment)
		managed.GET("/pending", h.listPending)
		managed.PUT("/:id/approve", h.approveTransaction)
		managed.PUT("/:id/reject", h.rejectTransaction)
	}
}

// createPurchase godoc
// @Summary Buy a product
// @Description Charges the caller for quantity units at the current price.
// @Tags transactions
// @Accept json
// @Produce json
// @Param purchase body dto.CreatePurchaseRequest true "Purchase"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Product not found or inactive"
// @Security BearerAuth
// @Router /transactions/purchase [post]
func (h *transactionHandler) createPurchase(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}
	var req dto.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	tx, err := h.txService.CreatePurchase(c.Request.Context(), member, req)
	if err != nil {
		respondError(c, err, "Failed to record purchase")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(tx))
}

// createPaymentRequest godoc
// @Summary Report a payment
// @Description Records a pending payment by the caller. An admin approves it once the money arrived.
// @Tags transactions
// @Accept json
// @Produce json
// @Param payment body dto.PaymentSelfRequest true "Payment"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/payment-request [post]
func (h *transactionHandler) createPaymentRequest(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}
	var req dto.PaymentSelfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	tx, err := h.txService.CreatePaymentRequest(c.Request.Context(), member, req)
	if err != nil {
		respondError(c, err, "Failed to record payment request")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(tx))
}

// createPayment godoc
// @Summary Record a payment for a member
// @Tags transactions
// @Accept json
// @Produce json
// @Param payment body dto.CreatePaymentRequest true "Payment"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Member not found"
// @Security BearerAuth
// @Router /transactions/payment [post]
func (h *transactionHandler) createPayment(c *gin.Context) {
	admin, ok := currentMember(c)
	if !ok {
		return
	}
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	tx, err := h.txService.CreatePayment(c.Request.Context(), admin, req)
	if err != nil {
		respondError(c, err, "Failed to record payment")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(tx))
}

// listMyTransactions godoc
// @Summary List own transactions
// @Description Newest first, paged with nextToken.
// @Tags transactions
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/mine [get]
func (h *transactionHandler) listMyTransactions(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}

	resp, err := h.txService.ListMemberTransactions(c.Request.Context(), member, params)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listPending godoc
// @Summary List pending transactions
// @Description Oldest first.
// @Tags transactions
// @Produce json
// @Success 200 {array} dto.TransactionResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/pending [get]
func (h *transactionHandler) listPending(c *gin.Context) {
	admin, ok := currentMember(c)
	if !ok {
		return
	}
	txs, err := h.txService.ListPendingTransactions(c.Request.Context(), admin)
	if err != nil {
		respondError(c, err, "Failed to list pending transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionListResponse(txs))
}

type transactionDecision func(ctx context.Context, admin domain.Member, transactionID string) (*domain.Transaction, error)

func (h *transactionHandler) decide(c *gin.Context, decision transactionDecision, verb string) {
	admin, ok := currentMember(c)
	if !ok {
		return
	}
	transactionID := c.Param("id")

	tx, err := decision(c.Request.Context(), admin, transactionID)
	if err != nil {
		respondError(c, err, "Failed to "+verb+" transaction")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Transaction decided",
		slog.String("transaction_id", transactionID),
		slog.String("status", string(tx.Status)))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(tx))
}

// approveTransaction godoc
// @Summary Approve a pending transaction
// @Description Applies the amount to the member's balance.
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Transaction is not pending"
// @Security BearerAuth
// @Router /transactions/{id}/approve [put]
func (h *transactionHandler) approveTransaction(c *gin.Context) {
	h.decide(c, h.txService.ApproveTransaction, "approve")
}

// rejectTransaction godoc
// @Summary Reject a pending transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Transaction is not pending"
// @Security BearerAuth
// @Router /transactions/{id}/reject [put]
func (h *transactionHandler) rejectTransaction(c *gin.Context) {
	h.decide(c, h.txService.RejectTransaction, "reject")
}
