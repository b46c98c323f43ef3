package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pocketpay/pocketpay-backend/internal/apperrors"
	portssvc "github.com/pocketpay/pocketpay-backend/internal/core/ports/services"
	"github.com/pocketpay/pocketpay-backend/internal/dto"
	"github.com/pocketpay/pocketpay-backend/internal/middleware"
)

// ledgerHandler handles the money-movement endpoints.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers the money-movement routes.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	rg.PUT("/sendMoney", h.sendMoney)
	rg.PUT("/cashOut", h.cashOut)
	rg.POST("/cashInReq", h.requestCashIn)
	rg.GET("/cashInReq/:agent", h.listPendingCashIn)
	rg.PUT("/acceptCashIn", h.acceptCashIn)
	rg.PUT("/rejectCashIn/:id", h.rejectCashIn)
	rg.GET("/transactions/:phone", h.listTransactions)
}

// respondLedgerError maps service errors to responses. Business rejections
// (unknown participant, wrong PIN) answer HTTP 200 with an errorMessage
// field; the frontend branches on that field, not on the status code.
func respondLedgerError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidUser):
		c.JSON(http.StatusOK, dto.SoftErrorResponse{ErrorMessage: "Invalid User"})
	case errors.Is(err, apperrors.ErrInvalidAgent):
		c.JSON(http.StatusOK, dto.SoftErrorResponse{ErrorMessage: "Invalid Agent"})
	case errors.Is(err, apperrors.ErrWrongPin):
		c.JSON(http.StatusOK, dto.SoftErrorResponse{ErrorMessage: "Wrong Pin"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
	case errors.Is(err, apperrors.ErrInvalidState):
		c.JSON(http.StatusOK, dto.SoftErrorResponse{ErrorMessage: "Request is no longer pending"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Ledger operation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed"})
	}
}

// senderMatchesSession rejects bodies that name a sender other than the
// session holder.
func senderMatchesSession(c *gin.Context, sender string) bool {
	phone, ok := middleware.GetUserPhoneFromContext(c)
	if !ok || phone != sender {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
		return false
	}
	return true
}

func (h *ledgerHandler) sendMoney(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SendMoneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if !senderMatchesSession(c, req.Sender) {
		return
	}

	if err := h.ledgerService.SendMoney(c.Request.Context(), req); err != nil {
		respondLedgerError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Send Money Successful"})
}

func (h *ledgerHandler) cashOut(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CashOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if !senderMatchesSession(c, req.Sender) {
		return
	}

	if err := h.ledgerService.CashOut(c.Request.Context(), req); err != nil {
		respondLedgerError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Cash Out Successful"})
}

func (h *ledgerHandler) requestCashIn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCashInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if !senderMatchesSession(c, req.Sender) {
		return
	}

	request, agentName, err := h.ledgerService.RequestCashIn(c.Request.Context(), req)
	if err != nil {
		respondLedgerError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCashInRequestResponse(request, agentName))
}

// listPendingCashIn returns the pending requests addressed to the calling
// agent, newest first.
func (h *ledgerHandler) listPendingCashIn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	agentPhone := c.Param("agent")

	if !senderMatchesSession(c, agentPhone) {
		return
	}

	requests, err := h.ledgerService.ListPendingCashIn(c.Request.Context(), agentPhone)
	if err != nil {
		logger.Error("Failed to list pending cash-in requests", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list requests"})
		return
	}

	responses := make([]dto.CashInRequestResponse, len(requests))
	for i := range requests {
		responses[i] = dto.ToCashInRequestResponse(&requests[i], "")
	}
	c.JSON(http.StatusOK, responses)
}

func (h *ledgerHandler) acceptCashIn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AcceptCashInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if !senderMatchesSession(c, req.AccountNumber) {
		return
	}

	if err := h.ledgerService.AcceptCashIn(c.Request.Context(), req); err != nil {
		respondLedgerError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Approved"})
}

func (h *ledgerHandler) rejectCashIn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("id")

	agentPhone, ok := middleware.GetUserPhoneFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
		return
	}

	if err := h.ledgerService.RejectCashIn(c.Request.Context(), requestID, agentPhone); err != nil {
		respondLedgerError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Rejected"})
}

// listTransactions returns the ledger entries the phone participated in,
// newest first.
func (h *ledgerHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	phone := c.Param("phone")

	if !senderMatchesSession(c, phone) {
		return
	}

	txns, err := h.ledgerService.ListTransactions(c.Request.Context(), phone, 0)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponses(txns))
}
