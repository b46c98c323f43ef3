package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashInStatus is the state of a cash-in request. Transitions are one-way:
// pending -> completed | rejected, both terminal.
type CashInStatus string

const (
	CashInPending   CashInStatus = "pending"
	CashInCompleted CashInStatus = "completed"
	CashInRejected  CashInStatus = "rejected"
)

// CashInRequest represents a user's request for an agent to credit the
// user's account, reimbursed to the agent through the ledger on acceptance.
type CashInRequest struct {
	RequestID      string          `json:"requestID"`
	RequesterPhone string          `json:"sender"`
	AgentPhone     string          `json:"accountNumber"`
	Amount         decimal.Decimal `json:"amount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	Status         CashInStatus    `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
}
