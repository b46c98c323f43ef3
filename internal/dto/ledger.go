package dto

import (
	"time"

	"github.com/pocketpay/pocketpay-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SendMoneyRequest is the body of PUT /sendMoney. TotalPayAmount carries the
// fee the sender pays on top of the nominal amount.
type SendMoneyRequest struct {
	Sender         string          `json:"sender" binding:"required"`
	AccountNumber  string          `json:"accountNumber" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	TotalPayAmount decimal.Decimal `json:"totalPayAmount" binding:"required"`
	Pin            string          `json:"pin" binding:"required"`
}

// CashOutRequest is the body of PUT /cashOut.
type CashOutRequest struct {
	Sender         string          `json:"sender" binding:"required"`
	AccountNumber  string          `json:"accountNumber" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	TotalPayAmount decimal.Decimal `json:"totalPayAmount" binding:"required"`
	Pin            string          `json:"pin" binding:"required"`
}

// CreateCashInRequest is the body of POST /cashInReq.
type CreateCashInRequest struct {
	Sender        string          `json:"sender" binding:"required"`
	AccountNumber string          `json:"accountNumber" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Pin           string          `json:"pin" binding:"required"`
}

// AcceptCashInRequest is the body of PUT /acceptCashIn.
type AcceptCashInRequest struct {
	RequestID     string          `json:"requestId" binding:"required"`
	Sender        string          `json:"sender" binding:"required"`
	AccountNumber string          `json:"accountNumber" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
}

// MessageResponse is the success envelope of the mutation endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// SoftErrorResponse is the business-failure envelope: returned with HTTP 200,
// the caller branches on the errorMessage field.
type SoftErrorResponse struct {
	ErrorMessage string `json:"errorMessage"`
}

// CashInRequestResponse is the shape of a stored cash-in request plus the
// resolved agent name, returned by POST /cashInReq.
type CashInRequestResponse struct {
	RequestID     string          `json:"requestID"`
	Sender        string          `json:"sender"`
	AccountNumber string          `json:"accountNumber"`
	AgentName     string          `json:"agentName"`
	Amount        decimal.Decimal `json:"amount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        string          `json:"status"`
	CreatedAt     string          `json:"createdAt"`
}

// TransactionResponse is one ledger entry as returned by GET /transactions/:phone.
type TransactionResponse struct {
	TransactionID  string          `json:"transactionID"`
	Sender         string          `json:"sender"`
	AccountNumber  string          `json:"accountNumber"`
	Amount         decimal.Decimal `json:"amount"`
	Fee            decimal.Decimal `json:"fee"`
	TotalPayAmount decimal.Decimal `json:"totalPayAmount"`
	Type           string          `json:"type"`
	CreatedAt      string          `json:"createdAt"`
}

// ToTransactionResponses converts domain ledger entries to response DTOs.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, t := range txns {
		responses[i] = TransactionResponse{
			TransactionID:  t.TransactionID,
			Sender:         t.SenderPhone,
			AccountNumber:  t.ReceiverPhone,
			Amount:         t.Amount,
			Fee:            t.Fee,
			TotalPayAmount: t.TotalPayAmount,
			Type:           string(t.Kind),
			CreatedAt:      t.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return responses
}

// ToCashInRequestResponse converts a domain request and agent name to the response DTO.
func ToCashInRequestResponse(r *domain.CashInRequest, agentName string) CashInRequestResponse {
	return CashInRequestResponse{
		RequestID:     r.RequestID,
		Sender:        r.RequesterPhone,
		AccountNumber: r.AgentPhone,
		AgentName:     agentName,
		Amount:        r.Amount,
		TotalAmount:   r.TotalAmount,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt.UTC().Format(time.RFC3339),
	}
}
