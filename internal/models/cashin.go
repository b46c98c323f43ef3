package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashInStatus is the stored request status.
type CashInStatus string

// CashInRequest is the database representation of a cash-in request row.
type CashInRequest struct {
	RequestID      string          `db:"request_id"`
	RequesterPhone string          `db:"requester_phone"`
	AgentPhone     string          `db:"agent_phone"`
	Amount         decimal.Decimal `db:"amount"`
	TotalAmount    decimal.Decimal `db:"total_amount"`
	Status         CashInStatus    `db:"status"`
	CreatedAt      time.Time       `db:"created_at"`
	LastUpdatedAt  time.Time       `db:"last_updated_at"`
}
